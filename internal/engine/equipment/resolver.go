// Package equipment implements equipment-slot assignment rules: candidate
// slot resolution, the four-ring rule, displacement on equip, and forge
// enhancement.
package equipment

import (
	"math"

	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
)

// MaxEnhancementLevel caps forge upgrades
const MaxEnhancementLevel = 10

// EnhancementStatStep is the per-enhancement-level stat bonus scaling
const EnhancementStatStep = 0.10

// WarningUnknownArmorSlot is recorded when an armor piece carries an
// unrecognized sub-slot text authored in a catalog. The item still equips
// to the chest fallback.
const WarningUnknownArmorSlot = "UnknownArmorSlot"

// Resolution is the outcome of resolving an item's candidate slots
type Resolution struct {
	// Slots are the candidate slot names in preference order
	Slots []entities.Slot
	// Warning is a non-fatal condition to record (e.g. unknown armor
	// sub-slot fell back to chest); empty when clean
	Warning string
}

var armorSlotMap = map[entities.ArmorSlot]entities.Slot{
	entities.ArmorSlotHelmet: entities.SlotHelmet,
	entities.ArmorSlotChest:  entities.SlotChest,
	entities.ArmorSlotGloves: entities.SlotGloves,
	entities.ArmorSlotBoots:  entities.SlotBoots,
	entities.ArmorSlotCape:   entities.SlotCape,
	entities.ArmorSlotHead:   entities.SlotHead,
	entities.ArmorSlotLegs:   entities.SlotLegs,
}

// ResolveSlots maps an item definition to its candidate equip slots.
// The switch is exhaustive over the closed item type set.
func ResolveSlots(def *entities.ItemDef) (*Resolution, error) {
	if def == nil {
		return nil, errors.InvalidArgument("item definition is required")
	}

	switch def.Type {
	case entities.ItemTypeWeapon:
		// Dual wield: a weapon may occupy either hand
		return &Resolution{Slots: []entities.Slot{entities.SlotMainHand, entities.SlotOffHand}}, nil

	case entities.ItemTypeShield:
		return &Resolution{Slots: []entities.Slot{entities.SlotOffHand}}, nil

	case entities.ItemTypeArmor:
		if slot, ok := armorSlotMap[def.ArmorSlot]; ok {
			return &Resolution{Slots: []entities.Slot{slot}}, nil
		}
		// Unrecognized sub-slot falls back to chest, recorded not rejected
		return &Resolution{
			Slots:   []entities.Slot{entities.SlotChest},
			Warning: WarningUnknownArmorSlot,
		}, nil

	case entities.ItemTypeAccessory:
		switch def.AccessorySlot {
		case entities.AccessorySlotRing:
			return &Resolution{Slots: append([]entities.Slot(nil), entities.RingSlots...)}, nil
		case entities.AccessorySlotAmulet:
			return &Resolution{Slots: []entities.Slot{entities.SlotAmulet}}, nil
		case entities.AccessorySlotBelt:
			return &Resolution{Slots: []entities.Slot{entities.SlotBelt}}, nil
		case entities.AccessorySlotArtifact:
			return &Resolution{Slots: []entities.Slot{entities.SlotArtifact}}, nil
		default:
			return nil, errors.InvalidArgumentf("unknown accessory sub-slot: %s", def.AccessorySlot)
		}

	case entities.ItemTypeConsumable:
		return nil, errors.InvalidArgumentf("item %s is not equippable", def.ID)

	default:
		return nil, errors.InvalidArgumentf("unknown item type: %s", def.Type)
	}
}

// EquipResult describes a completed equip operation
type EquipResult struct {
	Slot entities.Slot
	// Displaced is the inventory record pushed back to inventory to make
	// room, nil when the slot was free
	Displaced *entities.InventoryItem
	// Warning carries a recorded non-fatal condition from slot resolution
	Warning string
}

// Equip places an item into a slot on the character, displacing any
// occupant of a non-ring slot. The chosen slot must be one of the item's
// candidates; an empty chosenSlot auto-selects the first free candidate.
// For rings, when all four slots are occupied and no explicit target was
// given, the operation fails with RingSlotsFull; replacing a specific ring
// requires naming its slot.
//
// The occupant argument is the inventory record currently in the resolved
// slot (nil when free); the caller persists both records and the character
// as one transaction.
func Equip(char *entities.Character, item *entities.InventoryItem, def *entities.ItemDef, chosenSlot entities.Slot, occupant *entities.InventoryItem) (*EquipResult, error) {
	if char == nil || item == nil {
		return nil, errors.InvalidArgument("character and item are required")
	}

	res, err := ResolveSlots(def)
	if err != nil {
		return nil, err
	}

	slot := chosenSlot
	if slot == "" {
		slot, err = autoSelect(char, def, res)
		if err != nil {
			return nil, err
		}
	} else if !contains(res.Slots, slot) {
		return nil, errors.InvalidArgumentf("item %s cannot be equipped in slot %s", def.ID, slot).
			WithReason(errors.ReasonInvalidSlotForItem)
	}

	result := &EquipResult{Slot: slot, Warning: res.Warning}

	// Displace the current occupant. No slot ever holds two items.
	if occupantID, occupied := char.EquippedIn(slot); occupied {
		if occupant == nil || occupant.ID != occupantID {
			return nil, errors.Internalf("slot %s occupant %s not supplied", slot, occupantID)
		}
		occupant.Equipped = false
		occupant.EquippedSlot = ""
		result.Displaced = occupant
	}

	if char.Equipment == nil {
		char.Equipment = make(map[entities.Slot]string)
	}
	char.Equipment[slot] = item.ID
	item.Equipped = true
	item.EquippedSlot = slot

	return result, nil
}

// autoSelect picks a slot when the caller did not name one: the first free
// candidate, or for single/dual-slot items the first candidate (displacing
// its occupant). Full ring slots are never displaced implicitly.
func autoSelect(char *entities.Character, def *entities.ItemDef, res *Resolution) (entities.Slot, error) {
	for _, candidate := range res.Slots {
		if _, occupied := char.EquippedIn(candidate); !occupied {
			return candidate, nil
		}
	}

	if def.Type == entities.ItemTypeAccessory && def.AccessorySlot == entities.AccessorySlotRing {
		return "", errors.FailedPrecondition("all ring slots are occupied; name the ring to replace").
			WithReason(errors.ReasonRingSlotsFull)
	}

	return res.Slots[0], nil
}

// SelectSlot resolves the slot an equip of this item would use, without
// mutating anything. Callers use it to look up the occupant before the
// equip proper.
func SelectSlot(char *entities.Character, def *entities.ItemDef, chosenSlot entities.Slot) (entities.Slot, error) {
	res, err := ResolveSlots(def)
	if err != nil {
		return "", err
	}
	if chosenSlot == "" {
		return autoSelect(char, def, res)
	}
	if !contains(res.Slots, chosenSlot) {
		return "", errors.InvalidArgumentf("item %s cannot be equipped in slot %s", def.ID, chosenSlot).
			WithReason(errors.ReasonInvalidSlotForItem)
	}
	return chosenSlot, nil
}

// Unequip clears both sides of the equip relation, locating the slot from
// the item's own record rather than by slot name.
func Unequip(char *entities.Character, item *entities.InventoryItem) error {
	if char == nil || item == nil {
		return errors.InvalidArgument("character and item are required")
	}
	if !item.Equipped || item.EquippedSlot == "" {
		return errors.InvalidArgumentf("item %s is not equipped", item.ID)
	}

	slot := item.EquippedSlot
	if char.Equipment != nil && char.Equipment[slot] == item.ID {
		delete(char.Equipment, slot)
	}
	item.Equipped = false
	item.EquippedSlot = ""
	return nil
}

// ForgeCost returns the tetranuta price to raise an item from its current
// enhancement level
func ForgeCost(currentLevel int) int {
	return currentLevel + 1
}

// Forge spends tetranuta to raise an item's enhancement level by one
func Forge(char *entities.Character, item *entities.InventoryItem) error {
	if char == nil || item == nil {
		return errors.InvalidArgument("character and item are required")
	}
	if item.EnhancementLevel >= MaxEnhancementLevel {
		return errors.FailedPreconditionf("item %s is already at enhancement level %d", item.ID, MaxEnhancementLevel)
	}

	cost := ForgeCost(item.EnhancementLevel)
	if char.Tetranuta < cost {
		return errors.InvalidArgumentf("forging requires %d tetranuta, have %d", cost, char.Tetranuta)
	}

	char.Tetranuta -= cost
	item.EnhancementLevel++
	return nil
}

// EffectiveStats returns the character's base stats plus the bonuses of all
// equipped items, each scaled by its enhancement level.
func EffectiveStats(char *entities.Character, equipped []entities.InventoryItem, defs map[string]*entities.ItemDef) entities.Stats {
	stats := char.Stats
	for i := range equipped {
		item := &equipped[i]
		if !item.Equipped {
			continue
		}
		def, ok := defs[item.ItemID]
		if !ok {
			continue
		}
		stats = stats.Add(scaleStats(def.StatBonus, item.EnhancementLevel))
	}
	return stats
}

func scaleStats(bonus entities.Stats, enhancementLevel int) entities.Stats {
	if enhancementLevel <= 0 {
		return bonus
	}
	factor := 1 + EnhancementStatStep*float64(enhancementLevel)
	return entities.Stats{
		Strength:     scale(bonus.Strength, factor),
		Intelligence: scale(bonus.Intelligence, factor),
		Vitality:     scale(bonus.Vitality, factor),
		Dexterity:    scale(bonus.Dexterity, factor),
		Luck:         scale(bonus.Luck, factor),
	}
}

func scale(v int, factor float64) int {
	return int(math.Floor(float64(v) * factor))
}

func contains(slots []entities.Slot, slot entities.Slot) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
