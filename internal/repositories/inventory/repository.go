// Package inventory provides the interface for inventory item persistence
package inventory

//go:generate mockgen -destination=mock/mock_repository.go -package=inventorymock github.com/habitquest/combat-api/internal/repositories/inventory Repository

import (
	"context"

	"github.com/habitquest/combat-api/internal/entities"
)

// Repository defines the interface for inventory persistence.
//
// SaveMany persists several records atomically so equip displacement and
// quantity changes never leave a half-applied state.
type Repository interface {
	// Get retrieves an inventory record by ID
	// Returns errors.NotFound if the record doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByCharacter retrieves all inventory records owned by a character
	ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error)

	// SaveMany upserts records in one transaction. Records with Quantity
	// of zero are removed instead.
	SaveMany(ctx context.Context, input SaveManyInput) (*SaveManyOutput, error)

	// Delete removes an inventory record
	// Returns errors.NotFound if the record doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting an inventory record
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an inventory record
type GetOutput struct {
	Item *entities.InventoryItem
}

// ListByCharacterInput defines the input for listing a character's inventory
type ListByCharacterInput struct {
	CharacterID string
}

// ListByCharacterOutput defines the output for listing a character's inventory
type ListByCharacterOutput struct {
	Items []entities.InventoryItem
}

// SaveManyInput defines the input for an atomic multi-record upsert
type SaveManyInput struct {
	Items []*entities.InventoryItem
}

// SaveManyOutput defines the output for an atomic multi-record upsert
type SaveManyOutput struct{}

// DeleteInput defines the input for deleting an inventory record
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting an inventory record
type DeleteOutput struct{}
