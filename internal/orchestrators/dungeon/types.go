package dungeon

import (
	"github.com/habitquest/combat-api/internal/entities"
)

// StartInput defines the input for starting a dungeon run
type StartInput struct {
	CharacterID string
	DungeonID   string
}

// StartOutput defines the output for starting a dungeon run
type StartOutput struct {
	Session  *entities.CombatSession
	Progress *entities.DungeonProgress
}

// ContinueInput defines the input for resuming a dungeon run
type ContinueInput struct {
	CharacterID string
	DungeonID   string
}

// ContinueOutput defines the output for resuming a dungeon run
type ContinueOutput struct {
	Session  *entities.CombatSession
	Progress *entities.DungeonProgress
}

// GetRunInput defines the input for inspecting a dungeon run
type GetRunInput struct {
	CharacterID string
	DungeonID   string
}

// GetRunOutput defines the output for inspecting a dungeon run.
// Session is nil when no encounter is currently live.
type GetRunOutput struct {
	Progress *entities.DungeonProgress
	Session  *entities.CombatSession
}

// ListDungeonsInput defines the input for listing the dungeon catalog
type ListDungeonsInput struct{}

// ListDungeonsOutput defines the output for listing the dungeon catalog
type ListDungeonsOutput struct {
	Dungeons []entities.Dungeon
}
