// Package host defines the accessors a game server exposes to scripted
// helpers. The helpers never own any of these objects; a host runtime
// creates them and hands them in.
package host

import "errors"

// TicksPerSecond is the fixed world tick rate.
const TicksPerSecond = 20

// ErrActorGone is returned by a host when the addressed actor has left the
// world (for players: disconnected).
var ErrActorGone = errors.New("actor is no longer in the world")

// CapabilityID names an optional facet an actor may expose.
type CapabilityID string

const (
	CapabilityEquippable CapabilityID = "minecraft:equippable"
)

// Capability is a facet returned by Actor.Capability.
type Capability interface {
	CapabilityID() CapabilityID
}

// Actor is an addressable participant: a player or any scorable entity.
type Actor interface {
	ID() string
	Name() string
	// Capability returns the facet registered under id, if the actor has it.
	Capability(id CapabilityID) (Capability, bool)
}

// Player is an actor with a client attached.
type Player interface {
	Actor
	Online() bool
	// SetActionBar shows msg in the player's on-screen overlay for the host's
	// default duration.
	SetActionBar(msg Message) error
}

// Item is a handle to equipped gear. An item whose TypeID is empty is "air".
type Item interface {
	TypeID() string
	Amount() int
}

// Equippable is the capability giving access to an actor's equipment.
type Equippable interface {
	Capability
	Equipment(slot EquipmentSlot) (Item, error)
}

// Objective is a named integer counter keyed by actor.
type Objective interface {
	Name() string
	// Score reports the actor's score; ok is false when none is recorded.
	Score(a Actor) (score int, ok bool, err error)
	AddScore(a Actor, delta int) (int, error)
	SetScore(a Actor, value int) (int, error)
}

// Scoreboard is the registry of objectives.
type Scoreboard interface {
	Objective(name string) (Objective, bool)
}

// TaskID identifies a scheduled run.
type TaskID uint64

// Scheduler runs callbacks on the host's tick loop.
type Scheduler interface {
	// RunInterval runs fn every interval ticks until cleared.
	RunInterval(fn func(), interval int) TaskID
	// RunTimeout runs fn once after delay ticks.
	RunTimeout(fn func(), delay int) TaskID
	ClearRun(id TaskID)
}

// Broadcaster sends a chat line to every connected player.
type Broadcaster interface {
	SendMessage(line string) error
}

// Clock reports elapsed world time in ticks.
type Clock interface {
	AbsoluteTime() int64
}

// Directory resolves actor IDs, used where handles cannot be passed directly
// (for example from script code).
type Directory interface {
	Actor(id string) (Actor, bool)
	Player(id string) (Player, bool)
}
