package memhost

import (
	"sort"

	"github.com/nfrund/hostkit/internal/host"
)

type task struct {
	id       host.TaskID
	fn       func()
	next     int64
	interval int64 // zero for one-shot runs
}

// RunInterval implements host.Scheduler. The first run is interval ticks from now.
func (w *World) RunInterval(fn func(), interval int) host.TaskID {
	if interval < 1 {
		interval = 1
	}
	return w.schedule(fn, int64(interval), int64(interval))
}

// RunTimeout implements host.Scheduler.
func (w *World) RunTimeout(fn func(), delay int) host.TaskID {
	if delay < 1 {
		delay = 1
	}
	return w.schedule(fn, int64(delay), 0)
}

// ClearRun implements host.Scheduler. Clearing an unknown or finished run is a no-op.
func (w *World) ClearRun(id host.TaskID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.tasks, id)
}

// Pending reports how many runs are still scheduled.
func (w *World) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.tasks)
}

func (w *World) schedule(fn func(), delay, interval int64) host.TaskID {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextTask++
	id := w.nextTask
	w.tasks[id] = &task{id: id, fn: fn, next: w.tick + delay, interval: interval}
	return id
}

// Tick advances the world by one tick and runs every task that has come due,
// in the order they were scheduled. A task cleared by an earlier callback in
// the same tick does not run.
func (w *World) Tick() {
	w.mu.Lock()
	w.tick++
	now := w.tick
	due := make([]host.TaskID, 0)
	for id, t := range w.tasks {
		if t.next <= now {
			due = append(due, id)
		}
	}
	w.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i] < due[j] })

	for _, id := range due {
		w.mu.Lock()
		t, ok := w.tasks[id]
		if !ok {
			w.mu.Unlock()
			continue
		}
		if t.interval > 0 {
			t.next += t.interval
		} else {
			delete(w.tasks, id)
		}
		w.mu.Unlock()

		t.fn()
	}
}

// Advance runs n ticks.
func (w *World) Advance(n int) {
	for i := 0; i < n; i++ {
		w.Tick()
	}
}
