package support

import (
	"github.com/nfrund/hostkit/internal/host"
)

// Item returns what actor has equipped in the tagged slot. ok is false when
// the slot is empty: the host returned no item, or an item whose type
// identifier is the empty string ("air").
func (s *Support) Item(actor host.Actor, tag host.SlotTag) (item host.Item, ok bool, err error) {
	slot, err := tag.Slot()
	if err != nil {
		return nil, false, NewError(ErrorTypeInvalidArgument, "equipment", string(tag), "unknown slot", err)
	}

	capability, found := actor.Capability(host.CapabilityEquippable)
	if !found {
		return nil, false, NewError(ErrorTypeUnsupportedCapability, "equipment", actor.ID(), "actor is not equippable", nil)
	}
	equippable, isEquippable := capability.(host.Equippable)
	if !isEquippable {
		return nil, false, NewError(ErrorTypeUnsupportedCapability, "equipment", actor.ID(), "actor is not equippable", nil)
	}

	item, err = equippable.Equipment(slot)
	if err != nil {
		return nil, false, err
	}
	if item == nil || item.TypeID() == "" {
		return nil, false, nil
	}
	return item, true, nil
}
