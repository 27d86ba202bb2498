package memhost

import (
	"fmt"

	"github.com/nfrund/hostkit/internal/host"
)

type objective struct {
	world       *World
	name        string
	displayName string
	scores      map[string]int
}

var _ host.Objective = (*objective)(nil)

// AddObjective registers a new objective.
func (w *World) AddObjective(name, displayName string) (host.Objective, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.objectives[name]; exists {
		return nil, fmt.Errorf("objective %q already exists", name)
	}
	o := &objective{
		world:       w,
		name:        name,
		displayName: displayName,
		scores:      make(map[string]int),
	}
	w.objectives[name] = o
	return o, nil
}

// RemoveObjective drops an objective with all of its scores.
func (w *World) RemoveObjective(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.objectives[name]; !exists {
		return false
	}
	delete(w.objectives, name)
	return true
}

// Objective implements host.Scoreboard.
func (w *World) Objective(name string) (host.Objective, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, ok := w.objectives[name]
	if !ok {
		return nil, false
	}
	return o, true
}

func (o *objective) Name() string { return o.name }

func (o *objective) Score(a host.Actor) (int, bool, error) {
	o.world.mu.Lock()
	defer o.world.mu.Unlock()
	score, ok := o.scores[a.ID()]
	return score, ok, nil
}

func (o *objective) AddScore(a host.Actor, delta int) (int, error) {
	o.world.mu.Lock()
	defer o.world.mu.Unlock()
	o.scores[a.ID()] += delta
	return o.scores[a.ID()], nil
}

func (o *objective) SetScore(a host.Actor, value int) (int, error) {
	o.world.mu.Lock()
	defer o.world.mu.Unlock()
	o.scores[a.ID()] = value
	return value, nil
}
