package dungeon_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	combatengine "github.com/habitquest/combat-api/internal/engine/combat"
	"github.com/habitquest/combat-api/internal/engine/rewards"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/orchestrators/combat"
	"github.com/habitquest/combat-api/internal/orchestrators/dungeon"
	"github.com/habitquest/combat-api/internal/pkg/clock"
	"github.com/habitquest/combat-api/internal/pkg/idgen"
	"github.com/habitquest/combat-api/internal/pkg/rng"
	"github.com/habitquest/combat-api/internal/repositories/character"
	combatsession "github.com/habitquest/combat-api/internal/repositories/combat_session"
	dungeonprogress "github.com/habitquest/combat-api/internal/repositories/dungeon_progress"
	"github.com/habitquest/combat-api/internal/repositories/inventory"
	"github.com/habitquest/combat-api/internal/testutils"
)

// The suite wires the dungeon and combat orchestrators over shared
// repositories, the way the server composes them: Start/Continue open
// encounters, combat Action resolves them and advances the run.
type OrchestratorTestSuite struct {
	suite.Suite
	service      dungeon.Service
	combat       combat.Service
	charRepo     character.Repository
	progressRepo dungeonprogress.Repository
	clock        *clock.Mock
	roller       *rng.Fixed
	ctx          context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	client, _ := testutils.CreateTestRedisClient(s.T())
	s.clock = clock.NewMock(time.Unix(1700000000, 0))
	s.roller = &rng.Fixed{}
	s.ctx = context.Background()

	var err error
	s.charRepo, err = character.NewRedis(&character.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	inventoryRepo, err := inventory.NewRedis(&inventory.RedisConfig{Client: client})
	s.Require().NoError(err)
	sessionRepo, err := combatsession.NewRedis(&combatsession.Config{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.progressRepo, err = dungeonprogress.NewRedis(&dungeonprogress.Config{Client: client, Clock: s.clock})
	s.Require().NoError(err)

	calculator, err := rewards.NewCalculator(&rewards.Config{Roller: s.roller})
	s.Require().NoError(err)

	idGen := idgen.NewSequential("session")

	s.combat, err = combat.NewOrchestrator(&combat.Config{
		CharacterRepo:         s.charRepo,
		InventoryRepo:         inventoryRepo,
		SessionRepo:           sessionRepo,
		ProgressRepo:          s.progressRepo,
		Resolver:              combatengine.NewResolver(s.roller),
		Calculator:            calculator,
		IDGenerator:           idGen,
		Clock:                 s.clock,
		ResetProgressOnDefeat: true,
	})
	s.Require().NoError(err)

	s.service, err = dungeon.NewOrchestrator(&dungeon.Config{
		CharacterRepo: s.charRepo,
		SessionRepo:   sessionRepo,
		ProgressRepo:  s.progressRepo,
		IDGenerator:   idGen,
		Clock:         s.clock,
	})
	s.Require().NoError(err)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) createWarrior() *entities.Character {
	char := &entities.Character{
		ID:       "char_1",
		PlayerID: "player_1",
		Name:     "Brakka",
		Class:    entities.ClassWarrior,
		Level:    1,
		Gold:     100,
		Stats:    entities.Stats{Strength: 15, Intelligence: 4, Vitality: 8, Dexterity: 6, Luck: 0},
		Combat:   entities.CombatRecord{CurrentHP: 100, MaxHP: 100, CurrentMana: 50, MaxMana: 50},
	}
	_, err := s.charRepo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)
	return char
}

// fight attacks until the encounter resolves and returns the last output
func (s *OrchestratorTestSuite) fight(sessionID string) *combat.ActionOutput {
	for i := 0; i < 100; i++ {
		out, err := s.combat.Action(s.ctx, &combat.ActionInput{
			SessionID: sessionID,
			Action:    combatengine.ActionAttack,
		})
		s.Require().NoError(err)
		if out.Outcome != nil {
			return out
		}
	}
	s.FailNow("fight did not resolve")
	return nil
}

func (s *OrchestratorTestSuite) TestStart() {
	s.createWarrior()

	out, err := s.service.Start(s.ctx, &dungeon.StartInput{
		CharacterID: "char_1",
		DungeonID:   "forest_depths",
	})
	s.Require().NoError(err)
	s.Equal("slime", out.Session.Enemy.ID)
	s.Equal("forest_depths", out.Session.DungeonID)
	s.True(out.Progress.InProgress)
	s.Equal(0, out.Progress.CurrentEnemyIndex)
}

func (s *OrchestratorTestSuite) TestStartRejectsSecondRun() {
	s.createWarrior()

	_, err := s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)

	_, err = s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "orc_warcamp"})
	s.True(errors.IsFailedPrecondition(err))
	s.True(errors.HasReason(err, errors.ReasonDungeonAlreadyInProgress))
}

func (s *OrchestratorTestSuite) TestStartUnknownDungeon() {
	s.createWarrior()

	_, err := s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "mirror_maze"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestFullRunCarriesHPForward() {
	s.createWarrior()

	started, err := s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)

	// Slime falls in two rounds, taking 5 off the player
	out := s.fight(started.Session.ID)
	s.Equal(entities.CombatStatusVictory, out.Outcome.Status)
	s.False(out.Outcome.DungeonComplete)
	s.Equal("goblin", out.Outcome.NextEnemyID)

	// The next encounter opens with the previous fight's ending HP
	cont, err := s.service.Continue(s.ctx, &dungeon.ContinueInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)
	s.Equal("goblin", cont.Session.Enemy.ID)
	s.Equal(95, cont.Session.PlayerHP)
	s.Equal(1, cont.Progress.CurrentEnemyIndex)

	out = s.fight(cont.Session.ID)
	s.Equal("dire_wolf", out.Outcome.NextEnemyID)

	cont, err = s.service.Continue(s.ctx, &dungeon.ContinueInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)
	s.Equal(79, cont.Session.PlayerHP)

	// Final kill completes the run and grants the aggregate
	out = s.fight(cont.Session.ID)
	s.Require().True(out.Outcome.DungeonComplete)
	s.Require().NotNil(out.Outcome.DungeonRewards)
	s.Equal(58, out.Outcome.DungeonRewards.Gold)
	s.Equal(115, out.Outcome.DungeonRewards.XP)
	s.False(out.Outcome.DungeonRewards.LeveledUp)

	charOut, err := s.charRepo.Get(s.ctx, character.GetInput{ID: "char_1"})
	s.Require().NoError(err)
	s.Equal(158, charOut.Character.Gold)
	s.Equal(115, charOut.Character.XP)
	s.Equal(3, charOut.Character.Combat.Wins)

	// Run finished, so a new one can start
	_, err = s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.NoError(err)
}

func (s *OrchestratorTestSuite) TestRestRejectedBetweenEncounters() {
	s.createWarrior()

	started, err := s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)

	out := s.fight(started.Session.ID)
	s.Equal("goblin", out.Outcome.NextEnemyID)

	// No session is open between encounters, but the run still forbids
	// resting away the damage carried forward
	_, err = s.combat.Rest(s.ctx, &combat.RestInput{CharacterID: "char_1"})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.True(errors.HasReason(err, errors.ReasonDungeonAlreadyInProgress))

	cont, err := s.service.Continue(s.ctx, &dungeon.ContinueInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)
	s.Equal(95, cont.Session.PlayerHP)
}

func (s *OrchestratorTestSuite) TestContinueReattachesLiveSession() {
	s.createWarrior()

	started, err := s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)

	cont, err := s.service.Continue(s.ctx, &dungeon.ContinueInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)
	s.Equal(started.Session.ID, cont.Session.ID)
}

func (s *OrchestratorTestSuite) TestContinueWithoutRun() {
	s.createWarrior()

	_, err := s.service.Continue(s.ctx, &dungeon.ContinueInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestDefeatResetsRun() {
	char := s.createWarrior()
	char.Combat.CurrentHP = 3
	_, err := s.charRepo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	started, err := s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)

	out := s.fight(started.Session.ID)
	s.Equal(entities.CombatStatusDefeat, out.Outcome.Status)

	// Progress wiped; the active-run pointer is gone too
	_, err = s.progressRepo.Get(s.ctx, dungeonprogress.GetInput{
		CharacterID: "char_1",
		DungeonID:   "forest_depths",
	})
	s.True(errors.IsNotFound(err))

	_, err = s.service.GetRun(s.ctx, &dungeon.GetRunInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestGetRun() {
	s.createWarrior()

	started, err := s.service.Start(s.ctx, &dungeon.StartInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)

	out, err := s.service.GetRun(s.ctx, &dungeon.GetRunInput{CharacterID: "char_1", DungeonID: "forest_depths"})
	s.Require().NoError(err)
	s.True(out.Progress.InProgress)
	s.Require().NotNil(out.Session)
	s.Equal(started.Session.ID, out.Session.ID)
}

func (s *OrchestratorTestSuite) TestListDungeons() {
	out, err := s.service.ListDungeons(s.ctx, &dungeon.ListDungeonsInput{})
	s.Require().NoError(err)
	s.NotEmpty(out.Dungeons)
}
