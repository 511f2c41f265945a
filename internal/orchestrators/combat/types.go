package combat

import (
	combatengine "github.com/habitquest/combat-api/internal/engine/combat"
	"github.com/habitquest/combat-api/internal/engine/rewards"
	"github.com/habitquest/combat-api/internal/entities"
)

// InitiateInput defines the input for starting a standalone fight
type InitiateInput struct {
	CharacterID string
	EnemyID     string
}

// InitiateOutput defines the output for starting a standalone fight
type InitiateOutput struct {
	Session *entities.CombatSession
}

// ActionInput defines the input for resolving one combat round
type ActionInput struct {
	SessionID string
	Action    combatengine.ActionType
	// SkillID is required when Action is skill
	SkillID string
	// InventoryItemID is required when Action is use_item
	InventoryItemID string
	// IdempotencyKey, when set, marks the round so a retried submission
	// returns the stored snapshot instead of resolving twice
	IdempotencyKey string
}

// ActionOutput defines the output for resolving one combat round
type ActionOutput struct {
	Session *entities.CombatSession
	// Outcome is set when this round ended the fight
	Outcome *Outcome
}

// Outcome describes a terminal resolution
type Outcome struct {
	Status entities.CombatStatus
	// Rewards is set on a standalone victory
	Rewards *rewards.VictoryResult
	// GoldPenalty is set on defeat
	GoldPenalty int
	// DungeonComplete is set when this victory finished the run
	DungeonComplete bool
	// NextEnemyID is the upcoming dungeon enemy when the run continues
	NextEnemyID string
	// DungeonRewards aggregates the run's accumulated rewards, set when
	// DungeonComplete is true
	DungeonRewards *DungeonRewards
}

// DungeonRewards is the aggregate granted when a run completes
type DungeonRewards struct {
	Gold        int
	XP          int
	Tetranuta   int
	NewLevel    int
	LeveledUp   bool
	SkillPoints int
}

// AutoInput defines the input for auto-resolving a standalone fight
type AutoInput struct {
	CharacterID string
	EnemyID     string
}

// AutoOutput defines the output for auto-resolving a standalone fight
type AutoOutput struct {
	Session *entities.CombatSession
	Outcome *Outcome
}

// RestInput defines the input for an out-of-combat rest
type RestInput struct {
	CharacterID string
}

// RestOutput defines the output for an out-of-combat rest
type RestOutput struct {
	Character *entities.Character
}

// ListEnemiesInput defines the input for listing the enemy catalog
type ListEnemiesInput struct{}

// ListEnemiesOutput defines the output for listing the enemy catalog
type ListEnemiesOutput struct {
	Enemies []entities.Enemy
}

// GetSessionInput defines the input for fetching a session snapshot
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput defines the output for fetching a session snapshot
type GetSessionOutput struct {
	Session *entities.CombatSession
}
