// Package dungeon implements the dungeon run orchestrator: starting a
// multi-encounter run, resuming it after a restart, and exposing run
// state. Rounds inside a run resolve through the combat orchestrator,
// which advances the progress record on each kill.
package dungeon

//go:generate mockgen -destination=mock/mock_service.go -package=dungeonmock github.com/habitquest/combat-api/internal/orchestrators/dungeon Service

import (
	"context"
	"log/slog"

	dungeoncat "github.com/habitquest/combat-api/internal/catalogs/dungeons"
	enemycat "github.com/habitquest/combat-api/internal/catalogs/enemies"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/pkg/clock"
	"github.com/habitquest/combat-api/internal/pkg/idgen"
	"github.com/habitquest/combat-api/internal/repositories/character"
	combatsession "github.com/habitquest/combat-api/internal/repositories/combat_session"
	dungeonprogress "github.com/habitquest/combat-api/internal/repositories/dungeon_progress"
)

// Service defines the interface for dungeon run operations
type Service interface {
	// Start begins a run and opens the first encounter
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Continue rebuilds the current encounter from persisted progress and
	// the character's live combat state
	Continue(ctx context.Context, input *ContinueInput) (*ContinueOutput, error)

	// GetRun returns the run's progress and live encounter, if any
	GetRun(ctx context.Context, input *GetRunInput) (*GetRunOutput, error)

	// ListDungeons returns the dungeon catalog
	ListDungeons(ctx context.Context, input *ListDungeonsInput) (*ListDungeonsOutput, error)
}

// Config holds the dependencies for the dungeon orchestrator
type Config struct {
	CharacterRepo character.Repository
	SessionRepo   combatsession.Repository
	ProgressRepo  dungeonprogress.Repository
	IDGenerator   idgen.Generator
	Clock         clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.ProgressRepo == nil {
		vb.RequiredField("ProgressRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo character.Repository
	sessionRepo   combatsession.Repository
	progressRepo  dungeonprogress.Repository
	idGen         idgen.Generator
	clock         clock.Clock
}

// NewOrchestrator creates a new dungeon orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		sessionRepo:   cfg.SessionRepo,
		progressRepo:  cfg.ProgressRepo,
		idGen:         cfg.IDGenerator,
		clock:         cfg.Clock,
	}, nil
}

// Start begins a run and opens the first encounter
func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument("dungeon ID is required")
	}

	dungeon, err := dungeoncat.Get(input.DungeonID)
	if err != nil {
		return nil, err
	}

	active, err := o.progressRepo.GetActiveRun(ctx, dungeonprogress.GetActiveRunInput{
		CharacterID: input.CharacterID,
	})
	if err == nil {
		return nil, errors.FailedPreconditionf("character %s already has a run in progress in %s", input.CharacterID, active.DungeonID).
			WithReason(errors.ReasonDungeonAlreadyInProgress)
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	enemy, err := enemycat.Get(dungeon.EnemyIDs[0])
	if err != nil {
		return nil, err
	}

	// Session creation claims the combat guard, so an unrelated active
	// fight also blocks the run
	session, err := o.createSession(ctx, char, enemy, dungeon.ID)
	if err != nil {
		return nil, err
	}

	progress := &entities.DungeonProgress{
		CharacterID:       char.ID,
		DungeonID:         dungeon.ID,
		InProgress:        true,
		CurrentEnemyIndex: 0,
	}
	saved, err := o.progressRepo.Save(ctx, dungeonprogress.SaveInput{Progress: progress})
	if err != nil {
		// Release the encounter rather than stranding the guard
		if _, closeErr := o.sessionRepo.Close(ctx, combatsession.CloseInput{ID: session.ID}); closeErr != nil {
			slog.Error("failed to release session after progress save failure",
				"session_id", session.ID,
				"error", closeErr,
			)
		}
		return nil, err
	}

	slog.Info("dungeon run started",
		"character_id", char.ID,
		"dungeon_id", dungeon.ID,
		"session_id", session.ID,
	)

	return &StartOutput{Session: session, Progress: saved.Progress}, nil
}

// Continue rebuilds the current encounter from persisted progress and the
// character's live combat state
func (o *orchestrator) Continue(ctx context.Context, input *ContinueInput) (*ContinueOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument("dungeon ID is required")
	}

	dungeon, err := dungeoncat.Get(input.DungeonID)
	if err != nil {
		return nil, err
	}

	progressOut, err := o.progressRepo.Get(ctx, dungeonprogress.GetInput{
		CharacterID: input.CharacterID,
		DungeonID:   input.DungeonID,
	})
	if err != nil {
		return nil, err
	}
	progress := progressOut.Progress
	if !progress.InProgress {
		return nil, errors.FailedPreconditionf("run in %s is not in progress", input.DungeonID)
	}

	// Re-attach to the live encounter when one survives
	existing, err := o.sessionRepo.GetActiveByCharacter(ctx, combatsession.GetActiveByCharacterInput{
		CharacterID: input.CharacterID,
	})
	if err == nil {
		if existing.Session.DungeonID != input.DungeonID {
			return nil, errors.FailedPreconditionf("character %s is in an unrelated fight", input.CharacterID).
				WithReason(errors.ReasonCombatAlreadyActive)
		}
		return &ContinueOutput{Session: existing.Session, Progress: progress}, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	enemy, err := enemycat.Get(dungeon.EnemyIDs[progress.CurrentEnemyIndex])
	if err != nil {
		return nil, err
	}

	session, err := o.createSession(ctx, charOut.Character, enemy, dungeon.ID)
	if err != nil {
		return nil, err
	}

	return &ContinueOutput{Session: session, Progress: progress}, nil
}

// GetRun returns the run's progress and live encounter, if any
func (o *orchestrator) GetRun(ctx context.Context, input *GetRunInput) (*GetRunOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument("dungeon ID is required")
	}

	progressOut, err := o.progressRepo.Get(ctx, dungeonprogress.GetInput{
		CharacterID: input.CharacterID,
		DungeonID:   input.DungeonID,
	})
	if err != nil {
		return nil, err
	}

	out := &GetRunOutput{Progress: progressOut.Progress}

	existing, err := o.sessionRepo.GetActiveByCharacter(ctx, combatsession.GetActiveByCharacterInput{
		CharacterID: input.CharacterID,
	})
	if err == nil && existing.Session.DungeonID == input.DungeonID {
		out.Session = existing.Session
	} else if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	return out, nil
}

// ListDungeons returns the dungeon catalog
func (o *orchestrator) ListDungeons(_ context.Context, _ *ListDungeonsInput) (*ListDungeonsOutput, error) {
	return &ListDungeonsOutput{Dungeons: dungeoncat.List()}, nil
}

// createSession snapshots the character's live combat state into a new
// encounter. HP and mana carry forward between a run's fights; there is
// no heal in between.
func (o *orchestrator) createSession(ctx context.Context, char *entities.Character, enemy *entities.Enemy, dungeonID string) (*entities.CombatSession, error) {
	if char.Combat.CurrentHP <= 0 {
		return nil, errors.FailedPreconditionf("character %s has no HP left; rest first", char.ID)
	}

	now := o.clock.Now().Unix()
	session := &entities.CombatSession{
		ID:            o.idGen.Generate(),
		CharacterID:   char.ID,
		Enemy:         *enemy,
		PlayerHP:      char.Combat.CurrentHP,
		PlayerMaxHP:   char.Combat.MaxHP,
		PlayerMana:    char.Combat.CurrentMana,
		PlayerMaxMana: char.Combat.MaxMana,
		EnemyHP:       enemy.MaxHP,
		Status:        entities.CombatStatusActive,
		DungeonID:     dungeonID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := o.sessionRepo.Create(ctx, combatsession.CreateInput{Session: session})
	if err != nil {
		return nil, err
	}
	return created.Session, nil
}
