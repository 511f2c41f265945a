// Package combat implements the combat orchestrator: starting fights,
// resolving rounds, settling victories and defeats against the character
// record, and advancing dungeon runs when the session belongs to one.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/habitquest/combat-api/internal/orchestrators/combat Service

import (
	"context"
	"log/slog"
	"time"

	dungeoncat "github.com/habitquest/combat-api/internal/catalogs/dungeons"
	enemycat "github.com/habitquest/combat-api/internal/catalogs/enemies"
	itemcat "github.com/habitquest/combat-api/internal/catalogs/items"
	combatengine "github.com/habitquest/combat-api/internal/engine/combat"
	"github.com/habitquest/combat-api/internal/engine/equipment"
	"github.com/habitquest/combat-api/internal/engine/leveling"
	"github.com/habitquest/combat-api/internal/engine/rewards"
	"github.com/habitquest/combat-api/internal/engine/skills"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/pkg/clock"
	"github.com/habitquest/combat-api/internal/pkg/idgen"
	"github.com/habitquest/combat-api/internal/repositories/character"
	combatsession "github.com/habitquest/combat-api/internal/repositories/combat_session"
	dungeonprogress "github.com/habitquest/combat-api/internal/repositories/dungeon_progress"
	"github.com/habitquest/combat-api/internal/repositories/inventory"
)

// DefaultRestCooldown applies when no cooldown is configured
const DefaultRestCooldown = 4 * time.Hour

// autoRoundCap bounds auto-resolution; the damage floor guarantees
// termination well below it
const autoRoundCap = 500

// Service defines the interface for combat operations
type Service interface {
	// Initiate starts a standalone fight against a catalog enemy
	Initiate(ctx context.Context, input *InitiateInput) (*InitiateOutput, error)

	// Action resolves one round of an active session
	Action(ctx context.Context, input *ActionInput) (*ActionOutput, error)

	// Auto starts a fight and resolves it to completion with plain attacks
	Auto(ctx context.Context, input *AutoInput) (*AutoOutput, error)

	// Rest restores HP and mana out of combat, subject to a cooldown
	Rest(ctx context.Context, input *RestInput) (*RestOutput, error)

	// ListEnemies returns the enemy catalog
	ListEnemies(ctx context.Context, input *ListEnemiesInput) (*ListEnemiesOutput, error)

	// GetSession returns a session snapshot
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
}

// Config holds the dependencies for the combat orchestrator
type Config struct {
	CharacterRepo character.Repository
	InventoryRepo inventory.Repository
	SessionRepo   combatsession.Repository
	ProgressRepo  dungeonprogress.Repository
	Resolver      *combatengine.Resolver
	Calculator    *rewards.Calculator
	IDGenerator   idgen.Generator
	Clock         clock.Clock

	// RestCooldown between rests; zero means DefaultRestCooldown
	RestCooldown time.Duration
	// ResetProgressOnDefeat wipes a dungeon run when the character falls
	// mid-run instead of keeping it resumable
	ResetProgressOnDefeat bool
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
	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.ProgressRepo == nil {
		vb.RequiredField("ProgressRepo")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Calculator == nil {
		vb.RequiredField("Calculator")
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
	inventoryRepo inventory.Repository
	sessionRepo   combatsession.Repository
	progressRepo  dungeonprogress.Repository
	resolver      *combatengine.Resolver
	calculator    *rewards.Calculator
	idGen         idgen.Generator
	clock         clock.Clock

	restCooldown  time.Duration
	resetOnDefeat bool
}

// NewOrchestrator creates a new combat orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	cooldown := cfg.RestCooldown
	if cooldown == 0 {
		cooldown = DefaultRestCooldown
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		inventoryRepo: cfg.InventoryRepo,
		sessionRepo:   cfg.SessionRepo,
		progressRepo:  cfg.ProgressRepo,
		resolver:      cfg.Resolver,
		calculator:    cfg.Calculator,
		idGen:         cfg.IDGenerator,
		clock:         cfg.Clock,
		restCooldown:  cooldown,
		resetOnDefeat: cfg.ResetProgressOnDefeat,
	}, nil
}

// Initiate starts a standalone fight against a catalog enemy
func (o *orchestrator) Initiate(ctx context.Context, input *InitiateInput) (*InitiateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.EnemyID == "" {
		return nil, errors.InvalidArgument("enemy ID is required")
	}

	char, err := o.getCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	enemy, err := enemycat.Get(input.EnemyID)
	if err != nil {
		return nil, err
	}

	session, err := o.createSession(ctx, char, enemy)
	if err != nil {
		return nil, err
	}

	slog.Info("combat initiated",
		"session_id", session.ID,
		"character_id", char.ID,
		"enemy_id", enemy.ID,
	)

	return &InitiateOutput{Session: session}, nil
}

// Action resolves one round of an active session
func (o *orchestrator) Action(ctx context.Context, input *ActionInput) (*ActionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	sessionOut, err := o.sessionRepo.Get(ctx, combatsession.GetInput{ID: input.SessionID})
	if err != nil {
		return nil, err
	}
	session := sessionOut.Session

	// A retried submission of an already-applied round returns the stored
	// snapshot instead of dealing its damage twice
	if input.IdempotencyKey != "" && session.LastActionKey == input.IdempotencyKey {
		return &ActionOutput{Session: session}, nil
	}

	char, err := o.getCharacter(ctx, session.CharacterID)
	if err != nil {
		return nil, err
	}

	action, consumed, err := o.buildAction(ctx, char, input)
	if err != nil {
		return nil, err
	}

	stats, err := o.effectiveStats(ctx, char)
	if err != nil {
		return nil, err
	}

	if err := o.resolver.ResolveRound(session, stats, action); err != nil {
		return nil, err
	}

	session.LastActionKey = input.IdempotencyKey

	if consumed != nil {
		consumed.Quantity--
		if _, err := o.inventoryRepo.SaveMany(ctx, inventory.SaveManyInput{
			Items: []*entities.InventoryItem{consumed},
		}); err != nil {
			return nil, err
		}
	}

	if !session.Status.Terminal() {
		updated, err := o.sessionRepo.Update(ctx, combatsession.UpdateInput{Session: session})
		if err != nil {
			return nil, err
		}
		return &ActionOutput{Session: updated.Session}, nil
	}

	outcome, err := o.settle(ctx, char, session)
	if err != nil {
		return nil, err
	}
	return &ActionOutput{Session: session, Outcome: outcome}, nil
}

// Auto starts a fight and resolves it to completion with plain attacks
func (o *orchestrator) Auto(ctx context.Context, input *AutoInput) (*AutoOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.EnemyID == "" {
		return nil, errors.InvalidArgument("enemy ID is required")
	}

	char, err := o.getCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	enemy, err := enemycat.Get(input.EnemyID)
	if err != nil {
		return nil, err
	}

	session, err := o.createSession(ctx, char, enemy)
	if err != nil {
		return nil, err
	}

	stats, err := o.effectiveStats(ctx, char)
	if err != nil {
		return nil, err
	}

	for i := 0; !session.Status.Terminal(); i++ {
		if i >= autoRoundCap {
			return nil, errors.Internalf("auto-resolution did not terminate for session %s", session.ID)
		}
		if err := o.resolver.ResolveRound(session, stats, combatengine.Action{Type: combatengine.ActionAttack}); err != nil {
			return nil, err
		}
	}

	outcome, err := o.settle(ctx, char, session)
	if err != nil {
		return nil, err
	}

	return &AutoOutput{Session: session, Outcome: outcome}, nil
}

// Rest restores HP and mana out of combat, subject to a cooldown
func (o *orchestrator) Rest(ctx context.Context, input *RestInput) (*RestOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	_, err := o.sessionRepo.GetActiveByCharacter(ctx, combatsession.GetActiveByCharacterInput{
		CharacterID: input.CharacterID,
	})
	if err == nil {
		return nil, errors.FailedPreconditionf("character %s cannot rest during combat", input.CharacterID).
			WithReason(errors.ReasonCombatAlreadyActive)
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	// Resting between dungeon encounters would undo the HP/mana carried
	// forward from the previous fight.
	run, err := o.progressRepo.GetActiveRun(ctx, dungeonprogress.GetActiveRunInput{
		CharacterID: input.CharacterID,
	})
	if err == nil {
		return nil, errors.FailedPreconditionf("character %s cannot rest during dungeon %s", input.CharacterID, run.DungeonID).
			WithReason(errors.ReasonDungeonAlreadyInProgress)
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	char, err := o.getCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if char.Combat.LastRestAt > 0 {
		readyAt := time.Unix(char.Combat.LastRestAt, 0).Add(o.restCooldown)
		if now.Before(readyAt) {
			return nil, errors.ResourceExhaustedf("rest available again at %s", readyAt.UTC().Format(time.RFC3339)).
				WithReason(errors.ReasonRestOnCooldown)
		}
	}

	char.Combat.CurrentHP = char.Combat.MaxHP
	char.Combat.CurrentMana = char.Combat.MaxMana
	char.Combat.LastRestAt = now.Unix()

	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &RestOutput{Character: updated.Character}, nil
}

// ListEnemies returns the enemy catalog
func (o *orchestrator) ListEnemies(_ context.Context, _ *ListEnemiesInput) (*ListEnemiesOutput, error) {
	return &ListEnemiesOutput{Enemies: enemycat.List()}, nil
}

// GetSession returns a session snapshot
func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.sessionRepo.Get(ctx, combatsession.GetInput{ID: input.SessionID})
	if err != nil {
		return nil, err
	}
	return &GetSessionOutput{Session: out.Session}, nil
}

func (o *orchestrator) getCharacter(ctx context.Context, characterID string) (*entities.Character, error) {
	out, err := o.characterRepo.Get(ctx, character.GetInput{ID: characterID})
	if err != nil {
		return nil, err
	}
	return out.Character, nil
}

// createSession builds and persists a session from the character's live
// combat state. The repository create claims the single-active-session
// guard.
func (o *orchestrator) createSession(ctx context.Context, char *entities.Character, enemy *entities.Enemy) (*entities.CombatSession, error) {
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
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := o.sessionRepo.Create(ctx, combatsession.CreateInput{Session: session})
	if err != nil {
		return nil, err
	}
	return created.Session, nil
}

// buildAction validates the submitted action against the character and
// resolves catalog references. For use_item it returns the inventory
// record to decrement once the round resolves.
func (o *orchestrator) buildAction(ctx context.Context, char *entities.Character, input *ActionInput) (combatengine.Action, *entities.InventoryItem, error) {
	switch input.Action {
	case combatengine.ActionAttack, combatengine.ActionDefend:
		return combatengine.Action{Type: input.Action}, nil, nil

	case combatengine.ActionSkill:
		if input.SkillID == "" {
			return combatengine.Action{}, nil, errors.InvalidArgument("skill ID is required")
		}
		skill, err := skills.Get(char.Class, input.SkillID)
		if err != nil {
			return combatengine.Action{}, nil, err
		}
		level := char.SkillLevel(skill.ID)
		if level < 1 {
			return combatengine.Action{}, nil, errors.InvalidArgumentf("skill %s is not learned", skill.ID)
		}
		return combatengine.Action{
			Type:       combatengine.ActionSkill,
			Skill:      skill,
			SkillLevel: level,
		}, nil, nil

	case combatengine.ActionUseItem:
		if input.InventoryItemID == "" {
			return combatengine.Action{}, nil, errors.InvalidArgument("inventory item ID is required")
		}
		record, err := o.inventoryRepo.Get(ctx, inventory.GetInput{ID: input.InventoryItemID})
		if err != nil {
			return combatengine.Action{}, nil, err
		}
		if record.Item.CharacterID != char.ID {
			return combatengine.Action{}, nil, errors.InvalidArgumentf("item %s does not belong to character %s", input.InventoryItemID, char.ID)
		}
		if record.Item.Quantity < 1 {
			return combatengine.Action{}, nil, errors.InvalidArgumentf("item %s has no uses left", input.InventoryItemID)
		}
		def, err := itemcat.Get(record.Item.ItemID)
		if err != nil {
			return combatengine.Action{}, nil, err
		}
		return combatengine.Action{
			Type: combatengine.ActionUseItem,
			Item: def,
		}, record.Item, nil

	default:
		return combatengine.Action{}, nil, errors.InvalidArgumentf("unknown action: %s", input.Action)
	}
}

// effectiveStats folds equipped item bonuses into the character's base
// stats
func (o *orchestrator) effectiveStats(ctx context.Context, char *entities.Character) (entities.Stats, error) {
	list, err := o.inventoryRepo.ListByCharacter(ctx, inventory.ListByCharacterInput{CharacterID: char.ID})
	if err != nil {
		return entities.Stats{}, err
	}

	equipped := make([]entities.InventoryItem, 0, len(list.Items))
	for _, item := range list.Items {
		if item.Equipped {
			equipped = append(equipped, item)
		}
	}

	return equipment.EffectiveStats(char, equipped, itemcat.Defs()), nil
}

// settle applies the terminal outcome to the character record, advances
// the dungeon run when the session belongs to one, and closes the
// session.
func (o *orchestrator) settle(ctx context.Context, char *entities.Character, session *entities.CombatSession) (*Outcome, error) {
	char.Combat.CurrentHP = session.PlayerHP
	char.Combat.CurrentMana = session.PlayerMana

	var outcome *Outcome
	var err error
	switch {
	case session.Status == entities.CombatStatusVictory && session.DungeonID != "":
		outcome, err = o.settleDungeonVictory(ctx, char, session)
	case session.Status == entities.CombatStatusVictory:
		outcome = o.settleVictory(char, session)
	default:
		outcome, err = o.settleDefeat(ctx, char, session)
	}
	if err != nil {
		return nil, err
	}

	if _, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char}); err != nil {
		return nil, err
	}
	if _, err := o.sessionRepo.Close(ctx, combatsession.CloseInput{ID: session.ID}); err != nil {
		return nil, err
	}

	slog.Info("combat resolved",
		"session_id", session.ID,
		"character_id", char.ID,
		"status", session.Status,
	)

	return outcome, nil
}

func (o *orchestrator) settleVictory(char *entities.Character, session *entities.CombatSession) *Outcome {
	result := o.calculator.Victory(&session.Enemy, char.XP, char.Level)

	char.Gold += result.Gold
	char.Level = result.NewLevel
	char.XP = result.RemainderXP
	char.SkillPoints += result.SkillPointsEarned
	if result.TetranutaDropped {
		char.Tetranuta++
	}
	char.Combat.Wins++

	return &Outcome{
		Status:  entities.CombatStatusVictory,
		Rewards: result,
	}
}

// settleDungeonVictory accumulates the kill into the run's progress and,
// on the final enemy, grants the aggregate to the character
func (o *orchestrator) settleDungeonVictory(ctx context.Context, char *entities.Character, session *entities.CombatSession) (*Outcome, error) {
	dungeon, err := dungeoncat.Get(session.DungeonID)
	if err != nil {
		return nil, err
	}

	progressOut, err := o.progressRepo.Get(ctx, dungeonprogress.GetInput{
		CharacterID: char.ID,
		DungeonID:   session.DungeonID,
	})
	if err != nil {
		return nil, err
	}
	progress := progressOut.Progress

	kill := o.calculator.KillReward(&session.Enemy)
	progress.GoldEarned += kill.Gold
	progress.XPEarned += kill.XP
	if kill.TetranutaDropped {
		progress.TetranutaEarned++
	}
	progress.CurrentEnemyIndex++
	char.Combat.Wins++

	outcome := &Outcome{Status: entities.CombatStatusVictory}

	if progress.CurrentEnemyIndex >= len(dungeon.EnemyIDs) {
		progress.InProgress = false

		levelResult := leveling.CheckLevelUp(char.XP+progress.XPEarned, char.Level)
		char.Gold += progress.GoldEarned
		char.Tetranuta += progress.TetranutaEarned
		char.Level = levelResult.NewLevel
		char.XP = levelResult.RemainderXP
		char.SkillPoints += leveling.SkillPointsForLevels(levelResult.LevelsGained)

		outcome.DungeonComplete = true
		outcome.DungeonRewards = &DungeonRewards{
			Gold:        progress.GoldEarned,
			XP:          progress.XPEarned,
			Tetranuta:   progress.TetranutaEarned,
			NewLevel:    levelResult.NewLevel,
			LeveledUp:   levelResult.LeveledUp,
			SkillPoints: leveling.SkillPointsForLevels(levelResult.LevelsGained),
		}
	} else {
		outcome.NextEnemyID = dungeon.EnemyIDs[progress.CurrentEnemyIndex]
	}

	if _, err := o.progressRepo.Save(ctx, dungeonprogress.SaveInput{Progress: progress}); err != nil {
		return nil, err
	}

	return outcome, nil
}

func (o *orchestrator) settleDefeat(ctx context.Context, char *entities.Character, session *entities.CombatSession) (*Outcome, error) {
	penalty := o.calculator.DefeatGoldPenalty(char.Gold)
	char.Gold -= penalty
	char.Combat.Losses++

	outcome := &Outcome{
		Status:      entities.CombatStatusDefeat,
		GoldPenalty: penalty,
	}

	if session.DungeonID != "" && o.resetOnDefeat {
		if _, err := o.progressRepo.Delete(ctx, dungeonprogress.DeleteInput{
			CharacterID: char.ID,
			DungeonID:   session.DungeonID,
		}); err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
	}

	return outcome, nil
}
