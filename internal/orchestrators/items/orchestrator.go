// Package items implements the item and progression-spend orchestrator:
// equipping, forging, out-of-combat consumable use, and skill upgrades.
package items

//go:generate mockgen -destination=mock/mock_service.go -package=itemsmock github.com/habitquest/combat-api/internal/orchestrators/items Service

import (
	"context"
	"log/slog"

	itemcat "github.com/habitquest/combat-api/internal/catalogs/items"
	"github.com/habitquest/combat-api/internal/engine/equipment"
	"github.com/habitquest/combat-api/internal/engine/skills"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/repositories/character"
	"github.com/habitquest/combat-api/internal/repositories/inventory"
)

// Service defines the interface for item and progression operations
type Service interface {
	// Equip places an inventory item into an equipment slot
	Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error)

	// Unequip returns an equipped item to inventory
	Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error)

	// Use consumes an item out of combat
	Use(ctx context.Context, input *UseInput) (*UseOutput, error)

	// Forge spends tetranuta to raise an item's enhancement level
	Forge(ctx context.Context, input *ForgeInput) (*ForgeOutput, error)

	// UpgradeSkill spends a skill point on a class skill
	UpgradeSkill(ctx context.Context, input *UpgradeSkillInput) (*UpgradeSkillOutput, error)

	// GetCharacter returns the character sheet with effective stats
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
}

// Config holds the dependencies for the items orchestrator
type Config struct {
	CharacterRepo character.Repository
	InventoryRepo inventory.Repository
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.InventoryRepo == nil {
		vb.RequiredField("InventoryRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo character.Repository
	inventoryRepo inventory.Repository
}

// NewOrchestrator creates a new items orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		inventoryRepo: cfg.InventoryRepo,
	}, nil
}

// Equip places an inventory item into an equipment slot
func (o *orchestrator) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, record, def, err := o.loadItem(ctx, input.CharacterID, input.InventoryItemID)
	if err != nil {
		return nil, err
	}
	if def.Consumable() {
		return nil, errors.InvalidArgumentf("item %s is a consumable and cannot be equipped", def.ID)
	}
	if record.Equipped {
		return nil, errors.FailedPreconditionf("item %s is already equipped in %s", record.ID, record.EquippedSlot)
	}

	slot, err := equipment.SelectSlot(char, def, input.Slot)
	if err != nil {
		return nil, err
	}

	var occupant *entities.InventoryItem
	if occupantID, occupied := char.EquippedIn(slot); occupied {
		occupantOut, err := o.inventoryRepo.Get(ctx, inventory.GetInput{ID: occupantID})
		if err != nil {
			return nil, err
		}
		occupant = occupantOut.Item
	}

	result, err := equipment.Equip(char, record, def, slot, occupant)
	if err != nil {
		return nil, err
	}

	if result.Warning != "" {
		slog.Warn("equip slot resolution fallback",
			"character_id", char.ID,
			"item_id", def.ID,
			"warning", result.Warning,
		)
	}

	records := []*entities.InventoryItem{record}
	if result.Displaced != nil {
		records = append(records, result.Displaced)
	}
	if _, err := o.inventoryRepo.SaveMany(ctx, inventory.SaveManyInput{Items: records}); err != nil {
		return nil, err
	}
	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &EquipOutput{
		Character: updated.Character,
		Item:      record,
		Displaced: result.Displaced,
		Warning:   result.Warning,
	}, nil
}

// Unequip returns an equipped item to inventory
func (o *orchestrator) Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, record, _, err := o.loadItem(ctx, input.CharacterID, input.InventoryItemID)
	if err != nil {
		return nil, err
	}

	if err := equipment.Unequip(char, record); err != nil {
		return nil, err
	}

	if _, err := o.inventoryRepo.SaveMany(ctx, inventory.SaveManyInput{
		Items: []*entities.InventoryItem{record},
	}); err != nil {
		return nil, err
	}
	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &UnequipOutput{Character: updated.Character, Item: record}, nil
}

// Use consumes an item out of combat. Combat-only effects (buffs) have no
// target here, so only restorative items are usable.
func (o *orchestrator) Use(ctx context.Context, input *UseInput) (*UseOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, record, def, err := o.loadItem(ctx, input.CharacterID, input.InventoryItemID)
	if err != nil {
		return nil, err
	}
	if !def.Consumable() || def.Effect == nil {
		return nil, errors.InvalidArgumentf("item %s is not consumable", def.ID)
	}
	if record.Quantity < 1 {
		return nil, errors.InvalidArgumentf("item %s has no uses left", record.ID)
	}
	if def.Effect.HealHP == 0 && def.Effect.HealMana == 0 {
		return nil, errors.InvalidArgumentf("item %s is only usable in combat", def.ID)
	}

	healedHP := min(def.Effect.HealHP, char.Combat.MaxHP-char.Combat.CurrentHP)
	healedMana := min(def.Effect.HealMana, char.Combat.MaxMana-char.Combat.CurrentMana)
	char.Combat.CurrentHP += healedHP
	char.Combat.CurrentMana += healedMana

	record.Quantity--
	if _, err := o.inventoryRepo.SaveMany(ctx, inventory.SaveManyInput{
		Items: []*entities.InventoryItem{record},
	}); err != nil {
		return nil, err
	}
	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &UseOutput{
		Character:         updated.Character,
		HealedHP:          healedHP,
		HealedMana:        healedMana,
		RemainingQuantity: record.Quantity,
	}, nil
}

// Forge spends tetranuta to raise an item's enhancement level
func (o *orchestrator) Forge(ctx context.Context, input *ForgeInput) (*ForgeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, record, def, err := o.loadItem(ctx, input.CharacterID, input.InventoryItemID)
	if err != nil {
		return nil, err
	}
	if def.Consumable() {
		return nil, errors.InvalidArgumentf("item %s cannot be forged", def.ID)
	}

	cost := equipment.ForgeCost(record.EnhancementLevel)
	if err := equipment.Forge(char, record); err != nil {
		return nil, err
	}

	if _, err := o.inventoryRepo.SaveMany(ctx, inventory.SaveManyInput{
		Items: []*entities.InventoryItem{record},
	}); err != nil {
		return nil, err
	}
	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &ForgeOutput{Character: updated.Character, Item: record, Cost: cost}, nil
}

// UpgradeSkill spends a skill point on a class skill
func (o *orchestrator) UpgradeSkill(ctx context.Context, input *UpgradeSkillInput) (*UpgradeSkillOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.SkillID == "" {
		return nil, errors.InvalidArgument("skill ID is required")
	}

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	skill, err := skills.Get(char.Class, input.SkillID)
	if err != nil {
		return nil, err
	}

	current := char.SkillLevel(skill.ID)
	if current >= skills.MaxSkillLevel {
		return nil, errors.FailedPreconditionf("skill %s is already at level %d", skill.ID, skills.MaxSkillLevel)
	}
	if char.SkillPoints < 1 {
		return nil, errors.InvalidArgument("no skill points available")
	}

	if char.SkillLevels == nil {
		char.SkillLevels = make(map[string]int)
	}
	char.SkillLevels[skill.ID] = current + 1
	char.SkillPoints--

	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &UpgradeSkillOutput{
		Character: updated.Character,
		NewLevel:  current + 1,
	}, nil
}

// GetCharacter returns the character sheet with effective stats
func (o *orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	list, err := o.inventoryRepo.ListByCharacter(ctx, inventory.ListByCharacterInput{
		CharacterID: input.CharacterID,
	})
	if err != nil {
		return nil, err
	}

	return &GetCharacterOutput{
		Character:      charOut.Character,
		EffectiveStats: equipment.EffectiveStats(charOut.Character, list.Items, itemcat.Defs()),
		Items:          list.Items,
	}, nil
}

// loadItem fetches the character, the inventory record, and its catalog
// definition, enforcing ownership
func (o *orchestrator) loadItem(ctx context.Context, characterID, inventoryItemID string) (*entities.Character, *entities.InventoryItem, *entities.ItemDef, error) {
	if characterID == "" {
		return nil, nil, nil, errors.InvalidArgument("character ID is required")
	}
	if inventoryItemID == "" {
		return nil, nil, nil, errors.InvalidArgument("inventory item ID is required")
	}

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: characterID})
	if err != nil {
		return nil, nil, nil, err
	}

	recordOut, err := o.inventoryRepo.Get(ctx, inventory.GetInput{ID: inventoryItemID})
	if err != nil {
		return nil, nil, nil, err
	}
	if recordOut.Item.CharacterID != characterID {
		return nil, nil, nil, errors.InvalidArgumentf("item %s does not belong to character %s", inventoryItemID, characterID)
	}

	def, err := itemcat.Get(recordOut.Item.ItemID)
	if err != nil {
		return nil, nil, nil, err
	}

	return charOut.Character, recordOut.Item, def, nil
}
