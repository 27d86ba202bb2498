package support

// ErrorType categorizes failures raised by the facade itself. Host faults are
// never wrapped in an Error; they reach the caller as the host returned them.
type ErrorType string

const (
	ErrorTypeObjectiveNotFound     ErrorType = "objective_not_found"
	ErrorTypeUnsupportedCapability ErrorType = "unsupported_capability"
	ErrorTypeInvalidArgument       ErrorType = "invalid_argument"
)

// Sentinels for errors.Is. They match any *Error of the same type.
var (
	ErrObjectiveNotFound     = &Error{Type: ErrorTypeObjectiveNotFound, Message: "objective not found"}
	ErrUnsupportedCapability = &Error{Type: ErrorTypeUnsupportedCapability, Message: "unsupported capability"}
	ErrInvalidArgument       = &Error{Type: ErrorTypeInvalidArgument, Message: "invalid argument"}
)

// Error is a facade failure with the operation and target that caused it.
type Error struct {
	Type    ErrorType
	Op      string
	Target  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Target != "" {
		msg += " (" + e.Target + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same type so callers can compare against the
// package sentinels.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Type == e.Type
}

// NewError creates a new Error with the given parameters
func NewError(errorType ErrorType, op, target, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Op:      op,
		Target:  target,
		Message: message,
		Cause:   cause,
	}
}
