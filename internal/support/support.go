// Package support is the helper facade scripts use to talk to the host: score
// actions, action-bar messages, debug broadcasts and equipment lookups. It
// keeps no state of its own; every call goes straight to the injected host
// accessors.
package support

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nfrund/hostkit/internal/host"
)

// DisconnectPolicy decides what the action bar does when the player has left.
type DisconnectPolicy string

const (
	// DisconnectIgnore treats a display to a gone player as a no-op.
	DisconnectIgnore DisconnectPolicy = "ignore"
	// DisconnectFail surfaces host.ErrActorGone like any other fault.
	DisconnectFail DisconnectPolicy = "fail"
)

// ParseDisconnectPolicy accepts "ignore" or "fail"; empty means ignore.
func ParseDisconnectPolicy(s string) (DisconnectPolicy, error) {
	switch DisconnectPolicy(strings.ToLower(s)) {
	case "", DisconnectIgnore:
		return DisconnectIgnore, nil
	case DisconnectFail:
		return DisconnectFail, nil
	default:
		return "", fmt.Errorf("unknown disconnect policy %q", s)
	}
}

// DefaultDebugTag is the literal placed between the timestamp and the text of
// every debug line.
const DefaultDebugTag = "Aviso: "

// Dependencies holds the host accessors the facade dispatches to.
type Dependencies struct {
	Scoreboard  host.Scoreboard
	Scheduler   host.Scheduler
	Broadcaster host.Broadcaster
	Clock       host.Clock
}

// Options tunes presentation details. The zero value is usable.
type Options struct {
	// DebugTag prefixes every debug line. Empty selects DefaultDebugTag.
	DebugTag string
	// DebugPlain drops the elapsed-time stamp and the tag from debug lines.
	DebugPlain bool
	// ActionBarCadence is the redisplay interval in ticks. Zero means every tick.
	ActionBarCadence int
	// Disconnect selects the action-bar behaviour for departed players.
	Disconnect DisconnectPolicy
	// OnFault receives faults raised by scheduled redisplays, which have no
	// caller left to return them to. Nil logs them.
	OnFault func(err error)
}

// Support is the facade. Create it with New.
type Support struct {
	scoreboard  host.Scoreboard
	scheduler   host.Scheduler
	broadcaster host.Broadcaster
	clock       host.Clock
	opts        Options
}

// New creates a facade over the given host accessors.
func New(deps Dependencies, opts Options) *Support {
	if opts.DebugTag == "" {
		opts.DebugTag = DefaultDebugTag
	}
	if opts.ActionBarCadence <= 0 {
		opts.ActionBarCadence = 1
	}
	if opts.Disconnect == "" {
		opts.Disconnect = DisconnectIgnore
	}
	if opts.OnFault == nil {
		opts.OnFault = func(err error) {
			slog.Error("Scheduled action bar redisplay failed", "error", err)
		}
	}
	return &Support{
		scoreboard:  deps.Scoreboard,
		scheduler:   deps.Scheduler,
		broadcaster: deps.Broadcaster,
		clock:       deps.Clock,
		opts:        opts,
	}
}
