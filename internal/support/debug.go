package support

import (
	"fmt"

	"github.com/nfrund/hostkit/internal/host"
)

// TypeNamer lets a value report the name its own language gives its type.
type TypeNamer interface {
	TypeName() string
}

// Debug broadcasts diagnostic lines to every connected player. A string is one
// line; a []string or []any is one line per element, in order. Anything else
// is broadcast as its type name, taken from TypeNamer when implemented. Lines are sent one by one and the first host
// failure is returned as is.
func (s *Support) Debug(message any) error {
	switch m := message.(type) {
	case string:
		return s.broadcaster.SendMessage(s.debugLine(m))
	case []string:
		prefix := s.debugPrefix()
		for _, line := range m {
			if err := s.broadcaster.SendMessage(prefix + line); err != nil {
				return err
			}
		}
		return nil
	case []any:
		prefix := s.debugPrefix()
		for _, v := range m {
			if err := s.broadcaster.SendMessage(prefix + fmt.Sprint(v)); err != nil {
				return err
			}
		}
		return nil
	case TypeNamer:
		return s.broadcaster.SendMessage(m.TypeName())
	default:
		return s.broadcaster.SendMessage(fmt.Sprintf("%T", message))
	}
}

func (s *Support) debugLine(text string) string {
	return s.debugPrefix() + text
}

// debugPrefix is computed once per Debug call so every line of a batch carries
// the same stamp.
func (s *Support) debugPrefix() string {
	if s.opts.DebugPlain {
		return ""
	}
	return FormatElapsed(s.clock.AbsoluteTime()) + " " + s.opts.DebugTag
}

// FormatElapsed renders world ticks as minutes:seconds with two-digit seconds.
func FormatElapsed(ticks int64) string {
	if ticks < 0 {
		ticks = 0
	}
	secs := ticks / host.TicksPerSecond
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
