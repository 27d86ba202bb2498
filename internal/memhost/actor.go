package memhost

import (
	"log/slog"

	"github.com/nfrund/hostkit/internal/host"
)

// ItemStack is the in-memory item handle. An empty Type is air.
type ItemStack struct {
	Type  string
	Count int
}

// TypeID implements host.Item.
func (s ItemStack) TypeID() string { return s.Type }

// Amount implements host.Item.
func (s ItemStack) Amount() int { return s.Count }

// Air is the item the host reports for a slot that was explicitly emptied.
var Air = ItemStack{}

// Entity is a non-player actor, and the body of every Player.
type Entity struct {
	world     *World
	id        string
	name      string
	typeID    string
	equipment *Equipment
	removed   bool
}

var _ host.Actor = (*Entity)(nil)

func (e *Entity) ID() string     { return e.id }
func (e *Entity) Name() string   { return e.name }
func (e *Entity) TypeID() string { return e.typeID }

// Capability implements host.Actor.
func (e *Entity) Capability(id host.CapabilityID) (host.Capability, bool) {
	if id == host.CapabilityEquippable && e.equipment != nil {
		return e.equipment, true
	}
	return nil, false
}

// Equip places stack in slot. It panics on actors without equipment, which is
// a setup mistake in the caller.
func (e *Entity) Equip(slot host.EquipmentSlot, stack ItemStack) {
	if e.equipment == nil {
		panic("memhost: " + e.typeID + " has no equipment")
	}
	e.world.mu.Lock()
	defer e.world.mu.Unlock()
	e.equipment.slots[slot] = stack
}

// Overlay is one action-bar display as the player saw it.
type Overlay struct {
	Tick int64
	Text string
}

// Player is a connected player.
type Player struct {
	Entity
	online   bool
	overlays []Overlay
}

var _ host.Player = (*Player)(nil)

// Online implements host.Player.
func (p *Player) Online() bool {
	p.world.mu.Lock()
	defer p.world.mu.Unlock()
	return p.online
}

// Disconnect marks the player offline; the actor stays addressable.
func (p *Player) Disconnect() {
	p.world.mu.Lock()
	defer p.world.mu.Unlock()
	p.online = false
	slog.Debug("Player left", "player", p.name, "id", p.id)
}

// SetActionBar implements host.Player.
func (p *Player) SetActionBar(msg host.Message) error {
	text := p.world.localizer.Render(msg)

	p.world.mu.Lock()
	if !p.online {
		p.world.mu.Unlock()
		return host.ErrActorGone
	}
	tick := p.world.tick
	p.overlays = append(p.overlays, Overlay{Tick: tick, Text: text})
	p.world.mu.Unlock()

	return publish(p.world, ActionBarEvent, p.id, ActionBarMessage{
		PlayerID:   p.id,
		PlayerName: p.name,
		Text:       text,
		Tick:       tick,
	}, tick)
}

// Overlays returns every action-bar display shown to the player, oldest first.
func (p *Player) Overlays() []Overlay {
	p.world.mu.Lock()
	defer p.world.mu.Unlock()
	out := make([]Overlay, len(p.overlays))
	copy(out, p.overlays)
	return out
}

// Equipment is the equippable capability.
type Equipment struct {
	world *World
	owner *Entity
	slots map[host.EquipmentSlot]ItemStack
}

var _ host.Equippable = (*Equipment)(nil)

func newEquipment(w *World) *Equipment {
	return &Equipment{world: w, slots: make(map[host.EquipmentSlot]ItemStack)}
}

// CapabilityID implements host.Capability.
func (q *Equipment) CapabilityID() host.CapabilityID {
	return host.CapabilityEquippable
}

// Equipment implements host.Equippable. A slot never written returns nil;
// one set to Air returns an item with an empty type.
func (q *Equipment) Equipment(slot host.EquipmentSlot) (host.Item, error) {
	q.world.mu.Lock()
	defer q.world.mu.Unlock()

	if q.owner.removed {
		return nil, host.ErrActorGone
	}
	stack, ok := q.slots[slot]
	if !ok {
		return nil, nil
	}
	return stack, nil
}
