// Package items holds the static item definition catalog: equipment with
// stat bonuses and consumables with combat effects.
package items

import (
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
)

var catalog = []entities.ItemDef{
	// weapons
	{
		ID:        "rusty_sword",
		Name:      "Rusty Sword",
		Type:      entities.ItemTypeWeapon,
		StatBonus: entities.Stats{Strength: 2},
		Price:     25,
	},
	{
		ID:        "iron_sword",
		Name:      "Iron Sword",
		Type:      entities.ItemTypeWeapon,
		StatBonus: entities.Stats{Strength: 5},
		Price:     120,
	},
	{
		ID:        "apprentice_staff",
		Name:      "Apprentice Staff",
		Type:      entities.ItemTypeWeapon,
		StatBonus: entities.Stats{Intelligence: 5},
		Price:     120,
	},
	// shields
	{
		ID:        "oak_shield",
		Name:      "Oak Shield",
		Type:      entities.ItemTypeShield,
		StatBonus: entities.Stats{Vitality: 3},
		Price:     60,
	},
	// armor
	{
		ID:        "iron_helm",
		Name:      "Iron Helm",
		Type:      entities.ItemTypeArmor,
		ArmorSlot: entities.ArmorSlotHelmet,
		StatBonus: entities.Stats{Vitality: 2},
		Price:     45,
	},
	{
		ID:        "leather_chest",
		Name:      "Leather Chestpiece",
		Type:      entities.ItemTypeArmor,
		ArmorSlot: entities.ArmorSlotChest,
		StatBonus: entities.Stats{Vitality: 4},
		Price:     70,
	},
	{
		ID:        "swift_boots",
		Name:      "Swift Boots",
		Type:      entities.ItemTypeArmor,
		ArmorSlot: entities.ArmorSlotBoots,
		StatBonus: entities.Stats{Dexterity: 3},
		Price:     55,
	},
	// accessories
	{
		ID:            "lucky_ring",
		Name:          "Lucky Ring",
		Type:          entities.ItemTypeAccessory,
		AccessorySlot: entities.AccessorySlotRing,
		StatBonus:     entities.Stats{Luck: 2},
		Price:         90,
	},
	{
		ID:            "sages_amulet",
		Name:          "Sage's Amulet",
		Type:          entities.ItemTypeAccessory,
		AccessorySlot: entities.AccessorySlotAmulet,
		StatBonus:     entities.Stats{Intelligence: 3},
		Price:         110,
	},
	{
		ID:            "war_belt",
		Name:          "War Belt",
		Type:          entities.ItemTypeAccessory,
		AccessorySlot: entities.AccessorySlotBelt,
		StatBonus:     entities.Stats{Strength: 2, Vitality: 2},
		Price:         100,
	},
	// consumables
	{
		ID:     "hp_potion",
		Name:   "HP Potion",
		Type:   entities.ItemTypeConsumable,
		Effect: &entities.ItemEffect{HealHP: 50},
		Price:  15,
	},
	{
		ID:     "mana_potion",
		Name:   "Mana Potion",
		Type:   entities.ItemTypeConsumable,
		Effect: &entities.ItemEffect{HealMana: 30},
		Price:  15,
	},
	{
		ID:   "battle_tonic",
		Name: "Battle Tonic",
		Type: entities.ItemTypeConsumable,
		Effect: &entities.ItemEffect{
			BuffKind:      entities.EffectStrengthen,
			Magnitude:     0.25,
			DurationTurns: 3,
		},
		Price: 40,
	},
}

var byID = func() map[string]*entities.ItemDef {
	m := make(map[string]*entities.ItemDef, len(catalog))
	for i := range catalog {
		m[catalog[i].ID] = &catalog[i]
	}
	return m
}()

// Get returns the item definition with the given ID
func Get(itemID string) (*entities.ItemDef, error) {
	def, ok := byID[itemID]
	if !ok {
		return nil, errors.NotFoundf("unknown item: %s", itemID)
	}
	return def, nil
}

// Defs returns the full catalog keyed by ID, for effective-stat lookups
func Defs() map[string]*entities.ItemDef {
	return byID
}

// List returns all item definitions
func List() []entities.ItemDef {
	out := make([]entities.ItemDef, len(catalog))
	copy(out, catalog)
	return out
}
