// Package combatsession provides persistence for combat sessions and owns
// the single-active-session-per-character guard.
package combatsession

//go:generate mockgen -destination=mock/mock_repository.go -package=combatsessionmock github.com/habitquest/combat-api/internal/repositories/combat_session Repository

import (
	"context"

	"github.com/habitquest/combat-api/internal/entities"
)

// Repository defines the interface for combat session persistence.
//
// Create atomically claims the character's active-session guard; a second
// create while one is active fails with errors.FailedPrecondition carrying
// ReasonCombatAlreadyActive, leaving the existing session untouched.
type Repository interface {
	// Create stores a new session and claims the character's guard
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID
	// Returns errors.NotFound if the session doesn't exist or has expired
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetActiveByCharacter retrieves the character's active session
	// Returns errors.NotFound if the character has none
	GetActiveByCharacter(ctx context.Context, input GetActiveByCharacterInput) (*GetActiveByCharacterOutput, error)

	// Update persists a mutated session
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Close removes a resolved session and releases the guard
	Close(ctx context.Context, input CloseInput) (*CloseOutput, error)
}

// CreateInput defines the input for creating a session
type CreateInput struct {
	Session *entities.CombatSession
}

// CreateOutput defines the output for creating a session
type CreateOutput struct {
	Session *entities.CombatSession
}

// GetInput defines the input for getting a session
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	Session *entities.CombatSession
}

// GetActiveByCharacterInput defines the input for the active-session lookup
type GetActiveByCharacterInput struct {
	CharacterID string
}

// GetActiveByCharacterOutput defines the output for the active-session lookup
type GetActiveByCharacterOutput struct {
	Session *entities.CombatSession
}

// UpdateInput defines the input for updating a session
type UpdateInput struct {
	Session *entities.CombatSession
}

// UpdateOutput defines the output for updating a session
type UpdateOutput struct {
	Session *entities.CombatSession
}

// CloseInput defines the input for closing a session
type CloseInput struct {
	ID string
}

// CloseOutput defines the output for closing a session
type CloseOutput struct{}
