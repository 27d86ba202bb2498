package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/hostkit/internal/host"
	"github.com/nfrund/hostkit/internal/memhost"
)

func TestItem_EquippedItem(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")

	for i, tag := range host.AllSlotTags {
		t.Run(string(tag), func(t *testing.T) {
			typeID := "minecraft:item_" + string(tag)
			steve.Equip(host.AllSlots[i], memhost.ItemStack{Type: typeID, Count: i + 1})

			item, ok, err := s.Item(steve, tag)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, typeID, item.TypeID())
			assert.Equal(t, i+1, item.Amount())
		})
	}
}

func TestItem_EmptySlotIsAbsent(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	bare := world.SpawnPlayer("Bare")
	airy := world.SpawnPlayer("Airy")
	for _, slot := range host.AllSlots {
		airy.Equip(slot, memhost.Air)
	}

	for _, tag := range host.AllSlotTags {
		t.Run(string(tag), func(t *testing.T) {
			item, ok, err := s.Item(bare, tag)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, item)

			item, ok, err = s.Item(airy, tag)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, item)
		})
	}
}

func TestItem_UnsupportedCapability(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	cow := world.SpawnEntity("minecraft:cow", "Cow", false)

	for _, tag := range host.AllSlotTags {
		t.Run(string(tag), func(t *testing.T) {
			_, ok, err := s.Item(cow, tag)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrUnsupportedCapability)
		})
	}
}

type oddCapability struct{}

func (oddCapability) CapabilityID() host.CapabilityID { return host.CapabilityEquippable }

type oddActor struct{}

func (oddActor) ID() string   { return "odd" }
func (oddActor) Name() string { return "Odd" }
func (oddActor) Capability(host.CapabilityID) (host.Capability, bool) {
	return oddCapability{}, true
}

func TestItem_CapabilityWithoutEquipment(t *testing.T) {
	s, _ := newTestSupport(t, Options{})

	_, _, err := s.Item(oddActor{}, host.TagBoots)
	assert.ErrorIs(t, err, ErrUnsupportedCapability)
}

func TestItem_UnknownSlotTag(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")

	_, ok, err := s.Item(steve, host.SlotTag("belt"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestItem_HostFaultPropagates(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	zombie := world.SpawnEntity("minecraft:zombie", "Zombie", true)
	world.Remove(zombie.ID())

	_, _, err := s.Item(zombie, host.TagHelmet)
	assert.Equal(t, host.ErrActorGone, err)
}

func TestItem_DoesNotMutateEquipment(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")
	steve.Equip(host.SlotFeet, memhost.ItemStack{Type: "minecraft:iron_boots", Count: 1})

	for i := 0; i < 3; i++ {
		item, ok, err := s.Item(steve, host.TagBoots)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "minecraft:iron_boots", item.TypeID())
	}
}
