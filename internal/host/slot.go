package host

import (
	"fmt"
	"strings"
)

// EquipmentSlot is one of the fixed equipment positions.
type EquipmentSlot int

const (
	SlotMainHand EquipmentSlot = iota
	SlotOffHand
	SlotHead
	SlotChest
	SlotLegs
	SlotFeet
)

// AllSlots lists every equipment slot in declaration order.
var AllSlots = []EquipmentSlot{SlotMainHand, SlotOffHand, SlotHead, SlotChest, SlotLegs, SlotFeet}

func (s EquipmentSlot) String() string {
	switch s {
	case SlotMainHand:
		return "Mainhand"
	case SlotOffHand:
		return "Offhand"
	case SlotHead:
		return "Head"
	case SlotChest:
		return "Chest"
	case SlotLegs:
		return "Legs"
	case SlotFeet:
		return "Feet"
	default:
		return fmt.Sprintf("EquipmentSlot(%d)", int(s))
	}
}

// SlotTag is the human-readable name scripts use for a slot.
type SlotTag string

const (
	TagMainHand   SlotTag = "mainhand"
	TagOffHand    SlotTag = "offhand"
	TagHelmet     SlotTag = "helmet"
	TagChestplate SlotTag = "chestplate"
	TagLeggings   SlotTag = "leggings"
	TagBoots      SlotTag = "boots"
)

// AllSlotTags lists the canonical tags, in the same order as AllSlots.
var AllSlotTags = []SlotTag{TagMainHand, TagOffHand, TagHelmet, TagChestplate, TagLeggings, TagBoots}

// legacyChestplate is the spelling older scripts were written against.
const legacyChestplate = "chestplace"

// ParseSlotTag normalizes s into a known tag.
func ParseSlotTag(s string) (SlotTag, error) {
	tag := SlotTag(strings.ToLower(strings.TrimSpace(s)))
	if tag == legacyChestplate {
		return TagChestplate, nil
	}
	if _, err := tag.Slot(); err != nil {
		return "", err
	}
	return tag, nil
}

// Slot maps the tag onto its equipment slot.
func (t SlotTag) Slot() (EquipmentSlot, error) {
	switch t {
	case TagMainHand:
		return SlotMainHand, nil
	case TagOffHand:
		return SlotOffHand, nil
	case TagHelmet:
		return SlotHead, nil
	case TagChestplate:
		return SlotChest, nil
	case TagLeggings:
		return SlotLegs, nil
	case TagBoots:
		return SlotFeet, nil
	default:
		return 0, fmt.Errorf("unknown slot tag %q", string(t))
	}
}
