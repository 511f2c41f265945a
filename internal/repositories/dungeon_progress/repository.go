// Package dungeonprogress persists per-character dungeon run progress so a
// run can be resumed across app restarts, and owns the single-run-per-
// character guard.
package dungeonprogress

//go:generate mockgen -destination=mock/mock_repository.go -package=dungeonprogressmock github.com/habitquest/combat-api/internal/repositories/dungeon_progress Repository

import (
	"context"

	"github.com/habitquest/combat-api/internal/entities"
)

// Repository defines the interface for dungeon progress persistence.
//
// A character can have at most one run with InProgress set at a time;
// Save maintains the active-run pointer accordingly.
type Repository interface {
	// Get retrieves a character's progress in one dungeon
	// Returns errors.NotFound if no progress record exists
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetActiveRun returns the dungeon ID of the character's in-progress
	// run, if any
	// Returns errors.NotFound if the character has no run in progress
	GetActiveRun(ctx context.Context, input GetActiveRunInput) (*GetActiveRunOutput, error)

	// Save upserts a progress record and maintains the active-run pointer
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes a progress record
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting progress
type GetInput struct {
	CharacterID string
	DungeonID   string
}

// GetOutput defines the output for getting progress
type GetOutput struct {
	Progress *entities.DungeonProgress
}

// GetActiveRunInput defines the input for the active-run lookup
type GetActiveRunInput struct {
	CharacterID string
}

// GetActiveRunOutput defines the output for the active-run lookup
type GetActiveRunOutput struct {
	DungeonID string
}

// SaveInput defines the input for saving progress
type SaveInput struct {
	Progress *entities.DungeonProgress
}

// SaveOutput defines the output for saving progress
type SaveOutput struct {
	Progress *entities.DungeonProgress
}

// DeleteInput defines the input for deleting progress
type DeleteInput struct {
	CharacterID string
	DungeonID   string
}

// DeleteOutput defines the output for deleting progress
type DeleteOutput struct{}
