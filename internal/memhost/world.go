// Package memhost is an in-memory game host. It implements every accessor in
// package host on top of plain maps and a manual tick loop, which makes it the
// world behind the CLI and the double behind the tests.
package memhost

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/nfrund/hostkit/internal/host"
	"github.com/nfrund/hostkit/internal/pubsub"
)

// Dependencies holds the optional collaborators of a World.
type Dependencies struct {
	// Publisher receives chat and action-bar events. Nil disables publishing.
	Publisher pubsub.Publisher
	// Localizer renders translation messages. Nil selects DefaultLocalizer.
	Localizer *Localizer
}

// World is the in-memory host. All methods are safe for concurrent use;
// scheduled callbacks run from Tick without the world lock held.
type World struct {
	mu         sync.Mutex
	tick       int64
	objectives map[string]*objective
	entities   map[string]*Entity
	players    map[string]*Player
	tasks      map[host.TaskID]*task
	nextTask   host.TaskID
	chat       []string

	publisher pubsub.Publisher
	localizer *Localizer
}

var (
	_ host.Scoreboard  = (*World)(nil)
	_ host.Scheduler   = (*World)(nil)
	_ host.Broadcaster = (*World)(nil)
	_ host.Clock       = (*World)(nil)
	_ host.Directory   = (*World)(nil)
)

// New creates an empty world at tick zero.
func New(deps Dependencies) *World {
	localizer := deps.Localizer
	if localizer == nil {
		localizer = DefaultLocalizer()
	}
	return &World{
		objectives: make(map[string]*objective),
		entities:   make(map[string]*Entity),
		players:    make(map[string]*Player),
		tasks:      make(map[host.TaskID]*task),
		publisher:  deps.Publisher,
		localizer:  localizer,
	}
}

// SpawnPlayer adds an online player with empty equipment.
func (w *World) SpawnPlayer(name string) *Player {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := &Player{online: true}
	p.Entity = Entity{
		world:     w,
		id:        uuid.NewString(),
		name:      name,
		typeID:    "minecraft:player",
		equipment: newEquipment(w),
	}
	p.Entity.equipment.owner = &p.Entity
	w.entities[p.id] = &p.Entity
	w.players[p.id] = p

	slog.Debug("Player joined", "player", name, "id", p.id)
	return p
}

// SpawnEntity adds a non-player actor. Only equippable entities expose the
// equippable capability.
func (w *World) SpawnEntity(typeID, name string, equippable bool) *Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := &Entity{
		world:  w,
		id:     uuid.NewString(),
		name:   name,
		typeID: typeID,
	}
	if equippable {
		e.equipment = newEquipment(w)
		e.equipment.owner = e
	}
	w.entities[e.id] = e
	return e
}

// Remove takes an actor out of the world. Players are disconnected as well.
func (w *World) Remove(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e, ok := w.entities[id]; ok {
		e.removed = true
		delete(w.entities, id)
	}
	if p, ok := w.players[id]; ok {
		p.online = false
		delete(w.players, id)
	}
}

// Actor implements host.Directory.
func (w *World) Actor(id string) (host.Actor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.players[id]; ok {
		return p, true
	}
	e, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	return e, true
}

// Player implements host.Directory.
func (w *World) Player(id string) (host.Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// PlayerByName finds a player by display name.
func (w *World) PlayerByName(name string) (*Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.players {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// Players returns every player currently in the world.
func (w *World) Players() []*Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	players := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		players = append(players, p)
	}
	return players
}

// AbsoluteTime implements host.Clock.
func (w *World) AbsoluteTime() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// SetAbsoluteTime moves the clock without running any scheduled task.
func (w *World) SetAbsoluteTime(tick int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tick = tick
}

// SendMessage implements host.Broadcaster.
func (w *World) SendMessage(line string) error {
	w.mu.Lock()
	w.chat = append(w.chat, line)
	tick := w.tick
	w.mu.Unlock()

	return publish(w, ChatEvent, "", ChatMessage{Line: line, Tick: tick}, tick)
}

// ChatLog returns every broadcast line so far, oldest first.
func (w *World) ChatLog() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	log := make([]string, len(w.chat))
	copy(log, w.chat)
	return log
}

// publish must be called without w.mu held: the bus blocks until
// subscribers acknowledge, and they may call back into the world.
func publish[T any](w *World, event pubsub.Event[T], actorID string, payload T, tick int64) error {
	if w.publisher == nil {
		return nil
	}
	return pubsub.Publish(context.Background(), w.publisher, event, actorID, payload, map[string]string{
		"tick": strconv.FormatInt(tick, 10),
	})
}
