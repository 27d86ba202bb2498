package script

import (
	"fmt"
	"math"
	"strings"

	"github.com/nfrund/hostkit/internal/host"
	"github.com/nfrund/hostkit/internal/support"
)

// SupportModule is the name scripts import the helper facade under.
const SupportModule = "support"

// Host is what the support module reaches into. Scripts address actors by
// ID; Directory turns those IDs back into handles.
type Host struct {
	Support   *support.Support
	Directory host.Directory
}

func (h *Host) actor(id string) (host.Actor, error) {
	a, ok := h.Directory.Actor(id)
	if !ok {
		return nil, fmt.Errorf("actor %q: %w", id, host.ErrActorGone)
	}
	return a, nil
}

func (h *Host) player(id string) (host.Player, error) {
	p, ok := h.Directory.Player(id)
	if !ok {
		return nil, fmt.Errorf("player %q: %w", id, host.ErrActorGone)
	}
	return p, nil
}

// scoreboard backs support.scoreboard(actor_id, objective, opts). The tag is
// read from opts["return"], or opts["action"] for languages where return is
// reserved; it defaults to a plain read.
func (h *Host) scoreboard(actorID, objective string, opts map[string]interface{}) (int, bool, error) {
	tag := "returnNumber"
	for _, key := range []string{"return", "action"} {
		if v, ok := opts[key]; ok && v != nil {
			s, isString := v.(string)
			if !isString {
				return 0, false, invalidArgument("scoreboard", key, "must be a string")
			}
			tag = s
			break
		}
	}

	value := 0
	if v, ok := opts["value"]; ok && v != nil {
		n, err := toInt("scoreboard", "value", v)
		if err != nil {
			return 0, false, err
		}
		value = n
	}

	action, err := support.ParseAction(tag, value)
	if err != nil {
		return 0, false, err
	}
	actor, err := h.actor(actorID)
	if err != nil {
		return 0, false, err
	}
	score, ok, err := h.Support.Score(actor, objective, action)
	return score, ok, logFacadeCall("scoreboard", objective, err)
}

func (h *Host) objectiveExists(name string) bool {
	_, err := h.Support.Objective(name)
	return err == nil
}

// actionBar backs support.actionbar. A nil seconds shows the message once.
func (h *Host) actionBar(playerID string, raw interface{}, seconds *int) error {
	msg, err := toMessage(raw)
	if err != nil {
		return err
	}
	p, err := h.player(playerID)
	if err != nil {
		return err
	}
	if seconds == nil {
		return logFacadeCall("actionbar", playerID, h.Support.ShowActionBar(p, msg))
	}
	return logFacadeCall("actionbar", playerID, h.Support.ActionBar(p, msg, *seconds))
}

func (h *Host) debug(v interface{}) error {
	return logFacadeCall("debug", "", h.Support.Debug(v))
}

// item backs support.get_item. It returns nil when the slot is empty.
func (h *Host) item(actorID, slot string) (map[string]interface{}, error) {
	tag, err := host.ParseSlotTag(slot)
	if err != nil {
		return nil, support.NewError(support.ErrorTypeInvalidArgument, "get_item", slot, "unknown slot", err)
	}
	actor, err := h.actor(actorID)
	if err != nil {
		return nil, err
	}
	it, ok, err := h.Support.Item(actor, tag)
	if err != nil || !ok {
		return nil, logFacadeCall("get_item", slot, err)
	}
	return map[string]interface{}{
		"type_id": it.TypeID(),
		"amount":  it.Amount(),
	}, nil
}

// toMessage accepts a plain string or a {translate, with} table.
func toMessage(raw interface{}) (host.Message, error) {
	switch v := raw.(type) {
	case string:
		return host.Text(v), nil
	case map[string]interface{}:
		key, ok := v["translate"].(string)
		if !ok || strings.TrimSpace(key) == "" {
			return host.Message{}, invalidArgument("actionbar", "translate", "must be a non-empty string")
		}
		var with []string
		switch args := v["with"].(type) {
		case nil:
		case []interface{}:
			for _, a := range args {
				with = append(with, fmt.Sprint(a))
			}
		case map[string]interface{}:
			// An empty Lua table converts to a map.
			if len(args) > 0 {
				return host.Message{}, invalidArgument("actionbar", "with", "must be a list")
			}
		default:
			return host.Message{}, invalidArgument("actionbar", "with", "must be a list")
		}
		return host.Translate(key, with...), nil
	}
	return host.Message{}, invalidArgument("actionbar", "message", fmt.Sprintf("unsupported message type %T", raw))
}

func toInt(op, name string, v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, invalidArgument(op, name, "must be a whole number")
		}
		return int(n), nil
	}
	return 0, invalidArgument(op, name, fmt.Sprintf("must be a number, got %T", v))
}

func invalidArgument(op, name, message string) error {
	return support.NewError(support.ErrorTypeInvalidArgument, op, name, message, nil)
}
