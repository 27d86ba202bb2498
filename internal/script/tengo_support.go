package script

import (
	"github.com/d5/tengo/v2"
)

// supportModule exposes the Host as an importable Tengo module:
//
//	support := import("support")
//	support.scoreboard(player, "coins", {"return": "add", value: 5})
func (e *TengoEngine) supportModule() map[string]tengo.Object {
	h := e.host
	return map[string]tengo.Object{
		"scoreboard": &tengo.UserFunction{
			Name: "scoreboard",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) < 2 || len(args) > 3 {
					return nil, tengo.ErrWrongNumArguments
				}
				actorID, err := tengoString(args, 0, "actor_id")
				if err != nil {
					return nil, err
				}
				objective, err := tengoString(args, 1, "objective")
				if err != nil {
					return nil, err
				}
				opts := map[string]interface{}{}
				if len(args) == 3 && args[2] != tengo.UndefinedValue {
					m, ok := tengo.ToInterface(args[2]).(map[string]interface{})
					if !ok {
						return nil, tengo.ErrInvalidArgumentType{Name: "options", Expected: "map", Found: args[2].TypeName()}
					}
					opts = m
				}

				score, found, err := h.scoreboard(actorID, objective, opts)
				if err != nil {
					return nil, err
				}
				if !found {
					return tengo.UndefinedValue, nil
				}
				return &tengo.Int{Value: int64(score)}, nil
			},
		},
		"objective_exists": &tengo.UserFunction{
			Name: "objective_exists",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 1 {
					return nil, tengo.ErrWrongNumArguments
				}
				name, err := tengoString(args, 0, "name")
				if err != nil {
					return nil, err
				}
				if h.objectiveExists(name) {
					return tengo.TrueValue, nil
				}
				return tengo.FalseValue, nil
			},
		},
		"actionbar": &tengo.UserFunction{
			Name: "actionbar",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) < 2 || len(args) > 3 {
					return nil, tengo.ErrWrongNumArguments
				}
				playerID, err := tengoString(args, 0, "player_id")
				if err != nil {
					return nil, err
				}
				var seconds *int
				if len(args) == 3 {
					n, ok := args[2].(*tengo.Int)
					if !ok {
						return nil, tengo.ErrInvalidArgumentType{Name: "seconds", Expected: "int", Found: args[2].TypeName()}
					}
					s := int(n.Value)
					seconds = &s
				}
				return nil, h.actionBar(playerID, tengo.ToInterface(args[1]), seconds)
			},
		},
		"debug": &tengo.UserFunction{
			Name: "debug",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 1 {
					return nil, tengo.ErrWrongNumArguments
				}
				switch args[0].(type) {
				case *tengo.String, *tengo.Array, *tengo.ImmutableArray:
					return nil, h.debug(tengo.ToInterface(args[0]))
				}
				// Every tengo.Object reports its script-side type name.
				return nil, h.debug(args[0])
			},
		},
		"get_item": &tengo.UserFunction{
			Name: "get_item",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 2 {
					return nil, tengo.ErrWrongNumArguments
				}
				actorID, err := tengoString(args, 0, "actor_id")
				if err != nil {
					return nil, err
				}
				slot, err := tengoSlot(args[1])
				if err != nil {
					return nil, err
				}
				item, err := h.item(actorID, slot)
				if err != nil {
					return nil, err
				}
				if item == nil {
					return tengo.UndefinedValue, nil
				}
				return tengo.FromInterface(item)
			},
		},
	}
}

func tengoString(args []tengo.Object, i int, name string) (string, error) {
	s, ok := args[i].(*tengo.String)
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: name, Expected: "string", Found: args[i].TypeName()}
	}
	return s.Value, nil
}

// tengoSlot accepts "mainhand" or {slot: "mainhand"}.
func tengoSlot(arg tengo.Object) (string, error) {
	switch v := tengo.ToInterface(arg).(type) {
	case string:
		return v, nil
	case map[string]interface{}:
		if slot, ok := v["slot"].(string); ok {
			return slot, nil
		}
	}
	return "", tengo.ErrInvalidArgumentType{Name: "slot", Expected: "string or {slot}", Found: arg.TypeName()}
}
