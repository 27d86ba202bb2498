package support

import "fmt"

// ActionKind selects what a score action does.
type ActionKind int

const (
	ActionRead ActionKind = iota
	ActionAdd
	ActionSet
	ActionSubtract
)

func (k ActionKind) String() string {
	switch k {
	case ActionRead:
		return "read"
	case ActionAdd:
		return "add"
	case ActionSet:
		return "set"
	case ActionSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is a request over an objective for one actor. Build it with Read,
// Add, Set or Subtract.
type Action struct {
	Kind  ActionKind
	Value int
}

// Read returns the current score.
func Read() Action { return Action{Kind: ActionRead} }

// Add increases the score by delta.
func Add(delta int) Action { return Action{Kind: ActionAdd, Value: delta} }

// Set overwrites the score.
func Set(value int) Action { return Action{Kind: ActionSet, Value: value} }

// Subtract decreases the score by delta. math.MinInt has no negation and is
// rejected by Score.
func Subtract(delta int) Action { return Action{Kind: ActionSubtract, Value: delta} }

func (a Action) String() string {
	if a.Kind == ActionRead {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", a.Kind, a.Value)
}

// ParseAction maps the tag vocabulary used by scoreboard scripts onto an
// Action. "return" and "returnNumber" both read; "remove" subtracts.
func ParseAction(tag string, value int) (Action, error) {
	switch tag {
	case "return", "returnNumber", "read":
		return Read(), nil
	case "add":
		return Add(value), nil
	case "set":
		return Set(value), nil
	case "remove", "subtract":
		return Subtract(value), nil
	default:
		return Action{}, NewError(ErrorTypeInvalidArgument, "scoreboard", tag, "unknown score action", nil)
	}
}
