package items

import (
	"github.com/habitquest/combat-api/internal/entities"
)

// EquipInput defines the input for equipping an item
type EquipInput struct {
	CharacterID     string
	InventoryItemID string
	// Slot names the target slot; empty auto-selects
	Slot entities.Slot
}

// EquipOutput defines the output for equipping an item
type EquipOutput struct {
	Character *entities.Character
	Item      *entities.InventoryItem
	// Displaced is the record pushed back to inventory, if any
	Displaced *entities.InventoryItem
	// Warning carries a recorded non-fatal slot-resolution condition
	Warning string
}

// UnequipInput defines the input for unequipping an item
type UnequipInput struct {
	CharacterID     string
	InventoryItemID string
}

// UnequipOutput defines the output for unequipping an item
type UnequipOutput struct {
	Character *entities.Character
	Item      *entities.InventoryItem
}

// UseInput defines the input for consuming an item out of combat
type UseInput struct {
	CharacterID     string
	InventoryItemID string
}

// UseOutput defines the output for consuming an item out of combat
type UseOutput struct {
	Character  *entities.Character
	HealedHP   int
	HealedMana int
	// RemainingQuantity is the stack size after the use; the record is
	// removed at zero
	RemainingQuantity int
}

// ForgeInput defines the input for a forge upgrade
type ForgeInput struct {
	CharacterID     string
	InventoryItemID string
}

// ForgeOutput defines the output for a forge upgrade
type ForgeOutput struct {
	Character *entities.Character
	Item      *entities.InventoryItem
	// Cost is the tetranuta spent on this upgrade
	Cost int
}

// UpgradeSkillInput defines the input for spending a skill point
type UpgradeSkillInput struct {
	CharacterID string
	SkillID     string
}

// UpgradeSkillOutput defines the output for spending a skill point
type UpgradeSkillOutput struct {
	Character *entities.Character
	NewLevel  int
}

// GetCharacterInput defines the input for the character sheet lookup
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the output for the character sheet lookup
type GetCharacterOutput struct {
	Character *entities.Character
	// EffectiveStats folds equipped item bonuses into the base stats
	EffectiveStats entities.Stats
	Items          []entities.InventoryItem
}
