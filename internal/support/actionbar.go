package support

import (
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/nfrund/hostkit/internal/host"
)

// ShowActionBar displays msg once, for the host's default duration.
func (s *Support) ShowActionBar(p host.Player, msg host.Message) error {
	return s.display(p, msg)
}

// ActionBar keeps msg on the player's overlay for the given number of seconds
// by redisplaying it at the configured cadence. The first display happens
// before returning; the rest run on the host scheduler and stop by
// themselves once the time is up. Zero seconds means one second.
func (s *Support) ActionBar(p host.Player, msg host.Message, seconds int) error {
	if seconds < 0 {
		return NewError(ErrorTypeInvalidArgument, "actionbar", p.ID(), "duration must not be negative", nil)
	}
	if seconds > math.MaxInt/host.TicksPerSecond {
		return NewError(ErrorTypeInvalidArgument, "actionbar", p.ID(), "duration is too long", nil)
	}
	if seconds == 0 {
		seconds = 1
	}

	if err := s.display(p, msg); err != nil {
		return err
	}

	run := &repeatingDisplay{support: s, player: p, msg: msg}
	run.mu.Lock()
	run.interval = s.scheduler.RunInterval(run.tick, s.opts.ActionBarCadence)
	run.timeout = s.scheduler.RunTimeout(run.stop, seconds*host.TicksPerSecond)
	run.mu.Unlock()

	slog.Debug("Action bar scheduled",
		"player", p.ID(),
		"seconds", seconds,
		"cadence_ticks", s.opts.ActionBarCadence,
	)
	return nil
}

// display applies the disconnect policy to one host display call.
func (s *Support) display(p host.Player, msg host.Message) error {
	err := p.SetActionBar(msg)
	if err != nil && errors.Is(err, host.ErrActorGone) && s.opts.Disconnect == DisconnectIgnore {
		slog.Debug("Action bar target is gone, skipping", "player", p.ID())
		return nil
	}
	return err
}

// repeatingDisplay is the state of one ActionBar call. Each call owns exactly
// one interval task and one timeout task.
type repeatingDisplay struct {
	support  *Support
	player   host.Player
	msg      host.Message
	interval host.TaskID
	timeout  host.TaskID

	mu      sync.Mutex
	stopped bool
}

func (r *repeatingDisplay) tick() {
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()
	if stopped {
		return
	}

	if err := r.support.display(r.player, r.msg); err != nil {
		r.cancel()
		r.support.opts.OnFault(err)
	}
}

// stop is the timeout callback: the interval ends, the timeout has already fired.
func (r *repeatingDisplay) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	r.support.scheduler.ClearRun(r.interval)
}

// cancel ends both tasks early after a fault.
func (r *repeatingDisplay) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	r.support.scheduler.ClearRun(r.interval)
	r.support.scheduler.ClearRun(r.timeout)
}
