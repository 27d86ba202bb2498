package script

import (
	"github.com/Shopify/go-lua"
)

// supportFunctions exposes the Host as the global support table:
//
//	support.scoreboard(player, "coins", {action = "add", value = 5})
func (e *LuaEngine) supportFunctions(run *luaRun) []lua.RegistryFunction {
	h := e.host
	return []lua.RegistryFunction{
		{Name: "scoreboard", Function: func(l *lua.State) int {
			actorID := lua.CheckString(l, 1)
			objective := lua.CheckString(l, 2)
			opts := map[string]interface{}{}
			if !l.IsNoneOrNil(3) {
				lua.CheckType(l, 3, lua.TypeTable)
				if m, ok := luaTableToGo(l, 3).(map[string]interface{}); ok {
					opts = m
				}
			}

			score, found, err := h.scoreboard(actorID, objective, opts)
			if err != nil {
				return run.raise(l, err)
			}
			if !found {
				l.PushNil()
				return 1
			}
			l.PushInteger(score)
			return 1
		}},
		{Name: "objective_exists", Function: func(l *lua.State) int {
			l.PushBoolean(h.objectiveExists(lua.CheckString(l, 1)))
			return 1
		}},
		{Name: "actionbar", Function: func(l *lua.State) int {
			playerID := lua.CheckString(l, 1)
			if l.TypeOf(2) != lua.TypeString && l.TypeOf(2) != lua.TypeTable {
				lua.ArgumentError(l, 2, "string or table expected")
			}
			var seconds *int
			if !l.IsNoneOrNil(3) {
				s := lua.CheckInteger(l, 3)
				seconds = &s
			}
			if err := h.actionBar(playerID, luaToGo(l, 2), seconds); err != nil {
				return run.raise(l, err)
			}
			return 0
		}},
		{Name: "debug", Function: func(l *lua.State) int {
			// Strings and sequences become lines; any other value reports its
			// Lua type name.
			var message interface{} = luaTypeName(l.TypeOf(1).String())
			switch v := luaToGo(l, 1).(type) {
			case string, []interface{}:
				message = v
			}
			if err := h.debug(message); err != nil {
				return run.raise(l, err)
			}
			return 0
		}},
		{Name: "get_item", Function: func(l *lua.State) int {
			actorID := lua.CheckString(l, 1)
			var slot string
			switch l.TypeOf(2) {
			case lua.TypeString:
				slot, _ = l.ToString(2)
			case lua.TypeTable:
				l.Field(2, "slot")
				slot = lua.CheckString(l, -1)
				l.Pop(1)
			default:
				lua.ArgumentError(l, 2, "string or {slot} expected")
			}

			item, err := h.item(actorID, slot)
			if err != nil {
				return run.raise(l, err)
			}
			if item == nil {
				l.PushNil()
				return 1
			}
			if err := pushLuaValue(l, item); err != nil {
				return run.raise(l, err)
			}
			return 1
		}},
	}
}

// luaTypeName carries a Lua type name to Debug for values it has no line for.
type luaTypeName string

func (n luaTypeName) TypeName() string { return string(n) }
