package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/habitquest/combat-api/internal/engine/combat"
	"github.com/habitquest/combat-api/internal/engine/skills"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/pkg/rng"
)

func newSession() *entities.CombatSession {
	return &entities.CombatSession{
		ID:          "combat_1",
		CharacterID: "char_1",
		Enemy: entities.Enemy{
			ID:      "goblin",
			Name:    "Goblin",
			Tier:    entities.TierNormal,
			MaxHP:   100,
			Attack:  8,
			Defense: 2,
		},
		PlayerHP:      120,
		PlayerMaxHP:   120,
		PlayerMana:    50,
		PlayerMaxMana: 50,
		EnemyHP:       100,
		Status:        entities.CombatStatusActive,
	}
}

// 10 strength, no luck: attack deals 10*2-2 = 18
var baseStats = entities.Stats{Strength: 10, Intelligence: 12, Vitality: 8, Dexterity: 6, Luck: 0}

func mustSkill(t *testing.T, class entities.ClassID, id string) *entities.Skill {
	t.Helper()
	skill, err := skills.Get(class, id)
	require.NoError(t, err)
	return skill
}

func TestAttack(t *testing.T) {
	t.Run("basic attack", func(t *testing.T) {
		session := newSession()
		resolver := combat.NewResolver(&rng.Fixed{})

		err := resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
		require.NoError(t, err)

		assert.Equal(t, 82, session.EnemyHP)
		assert.Equal(t, 112, session.PlayerHP) // enemy counter for 8
		assert.Equal(t, entities.CombatStatusActive, session.Status)
		require.Len(t, session.Log, 2)
		assert.Equal(t, entities.ActorPlayer, session.Log[0].Actor)
		assert.Equal(t, 18, session.Log[0].Amount)
		assert.Equal(t, entities.ActorEnemy, session.Log[1].Actor)
		assert.Equal(t, 8, session.Log[1].Amount)
	})

	t.Run("critical hit", func(t *testing.T) {
		session := newSession()
		// first Chance call is the crit roll, second the enemy heuristic
		resolver := combat.NewResolver(&rng.Fixed{Chances: []bool{true, false}})

		err := resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
		require.NoError(t, err)

		// 18 * 1.5 = 27
		assert.Equal(t, 27, session.Log[0].Amount)
		assert.Contains(t, session.Log[0].Message, "critical")
	})

	t.Run("damage floor", func(t *testing.T) {
		session := newSession()
		session.Enemy.Defense = 1000
		resolver := combat.NewResolver(&rng.Fixed{})

		err := resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
		require.NoError(t, err)
		assert.Equal(t, combat.MinDamage, session.Log[0].Amount)
	})

	t.Run("overkill is clamped to remaining hp", func(t *testing.T) {
		session := newSession()
		session.EnemyHP = 5

		resolver := combat.NewResolver(&rng.Fixed{})
		err := resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
		require.NoError(t, err)

		assert.Equal(t, 0, session.EnemyHP)
		assert.Equal(t, 5, session.Log[0].Amount)
		assert.Equal(t, entities.CombatStatusVictory, session.Status)
		// no enemy counter after a killing blow
		assert.Equal(t, 120, session.PlayerHP)
	})
}

func TestSkillMana(t *testing.T) {
	t.Run("insufficient mana mutates nothing", func(t *testing.T) {
		session := newSession()
		session.PlayerMana = 5
		resolver := combat.NewResolver(&rng.Fixed{})

		err := resolver.ResolveRound(session, baseStats, combat.Action{
			Type:  combat.ActionSkill,
			Skill: mustSkill(t, entities.ClassWarrior, "bash"),
		})

		require.Error(t, err)
		assert.True(t, errors.HasReason(err, errors.ReasonInsufficientMana))
		assert.Equal(t, 5, session.PlayerMana)
		assert.Equal(t, 100, session.EnemyHP)
		assert.Equal(t, 120, session.PlayerHP)
		assert.Empty(t, session.Log)
	})

	t.Run("unrecognized kind mutates nothing", func(t *testing.T) {
		session := newSession()
		resolver := combat.NewResolver(&rng.Fixed{})

		err := resolver.ResolveRound(session, baseStats, combat.Action{
			Type:  combat.ActionSkill,
			Skill: &entities.Skill{ID: "glitch", Class: entities.ClassWarrior, Name: "Glitch", Cost: 10, Kind: "summon"},
		})

		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
		assert.Equal(t, 50, session.PlayerMana)
		assert.Equal(t, 100, session.EnemyHP)
		assert.Empty(t, session.Log)
	})

	t.Run("mana deducted on cast", func(t *testing.T) {
		session := newSession()
		resolver := combat.NewResolver(&rng.Fixed{})

		err := resolver.ResolveRound(session, baseStats, combat.Action{
			Type:  combat.ActionSkill,
			Skill: mustSkill(t, entities.ClassWarrior, "bash"),
		})
		require.NoError(t, err)
		assert.Equal(t, 40, session.PlayerMana)
		// 10*2*1.5 - 2 = 28
		assert.Equal(t, 72, session.EnemyHP)
	})
}

func TestMultiHit(t *testing.T) {
	session := newSession()
	resolver := combat.NewResolver(&rng.Fixed{})

	err := resolver.ResolveRound(session, baseStats, combat.Action{
		Type:  combat.ActionSkill,
		Skill: mustSkill(t, entities.ClassRogue, "double_stab"),
	})
	require.NoError(t, err)

	// each hit: 10*2*0.8 - 2 = 14
	assert.Equal(t, 72, session.EnemyHP)
	require.GreaterOrEqual(t, len(session.Log), 2)
	assert.Equal(t, 14, session.Log[0].Amount)
	assert.Equal(t, 14, session.Log[1].Amount)
}

func TestExecuteBoundary(t *testing.T) {
	execute := func(t *testing.T, enemyHP int) int {
		session := newSession()
		session.EnemyHP = enemyHP
		resolver := combat.NewResolver(&rng.Fixed{})
		err := resolver.ResolveRound(session, baseStats, combat.Action{
			Type:  combat.ActionSkill,
			Skill: mustSkill(t, entities.ClassRogue, "execute"),
		})
		require.NoError(t, err)
		return session.Log[0].Amount
	}

	t.Run("exactly 30 percent does not trigger", func(t *testing.T) {
		// 30 of 100 max HP: boundary is strict less-than
		dmg := execute(t, 30)
		// normal multiplier: 10*2*1.0 - 2 = 18
		assert.Equal(t, 18, dmg)
	})

	t.Run("just below 30 percent triggers", func(t *testing.T) {
		dmg := execute(t, 29)
		// elevated: 10*2*2.5 - 2 = 48, clamped to 29 remaining
		assert.Equal(t, 29, dmg)
	})

	t.Run("elevated multiplier applies unclamped when hp allows", func(t *testing.T) {
		session := newSession()
		session.Enemy.MaxHP = 1000
		session.EnemyHP = 299
		resolver := combat.NewResolver(&rng.Fixed{})
		err := resolver.ResolveRound(session, baseStats, combat.Action{
			Type:  combat.ActionSkill,
			Skill: mustSkill(t, entities.ClassRogue, "execute"),
		})
		require.NoError(t, err)
		assert.Equal(t, 48, session.Log[0].Amount)
	})
}

func TestDefend(t *testing.T) {
	session := newSession()
	resolver := combat.NewResolver(&rng.Fixed{})

	err := resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionDefend})
	require.NoError(t, err)

	// enemy attack 8 halved to 4
	assert.Equal(t, 116, session.PlayerHP)
	assert.False(t, session.PlayerDefending, "defending clears after the counter-action")

	// next round is hit at full strength again
	err = resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
	require.NoError(t, err)
	assert.Equal(t, 108, session.PlayerHP)
}

func TestBuffsAndDebuffs(t *testing.T) {
	t.Run("berserk raises outgoing damage while active", func(t *testing.T) {
		session := newSession()
		resolver := combat.NewResolver(&rng.Fixed{})

		err := resolver.ResolveRound(session, baseStats, combat.Action{
			Type:  combat.ActionSkill,
			Skill: mustSkill(t, entities.ClassWarrior, "berserk"),
		})
		require.NoError(t, err)
		hpAfterBuffRound := session.EnemyHP
		assert.Equal(t, 100, hpAfterBuffRound, "buff round deals no damage")

		err = resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
		require.NoError(t, err)
		// 10*2*1.5 - 2 = 28
		assert.Equal(t, 72, session.EnemyHP)
	})

	t.Run("iron skin halves the counter on its own round", func(t *testing.T) {
		session := newSession()
		resolver := combat.NewResolver(&rng.Fixed{})

		err := resolver.ResolveRound(session, baseStats, combat.Action{
			Type:  combat.ActionSkill,
			Skill: mustSkill(t, entities.ClassWarrior, "iron_skin"),
		})
		require.NoError(t, err)
		assert.Equal(t, 116, session.PlayerHP)

		// second protected round
		err = resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
		require.NoError(t, err)
		assert.Equal(t, 112, session.PlayerHP)

		// protection expired
		err = resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
		require.NoError(t, err)
		assert.Equal(t, 104, session.PlayerHP)
	})

	t.Run("frost nova weakens enemy hits", func(t *testing.T) {
		session := newSession()
		resolver := combat.NewResolver(&rng.Fixed{})

		err := resolver.ResolveRound(session, baseStats, combat.Action{
			Type:  combat.ActionSkill,
			Skill: mustSkill(t, entities.ClassMage, "frost_nova"),
		})
		require.NoError(t, err)
		// 8 * 0.7 = 5.6 -> 5
		assert.Equal(t, 115, session.PlayerHP)
	})
}

func TestDot(t *testing.T) {
	session := newSession()
	resolver := combat.NewResolver(&rng.Fixed{})

	err := resolver.ResolveRound(session, baseStats, combat.Action{
		Type:  combat.ActionSkill,
		Skill: mustSkill(t, entities.ClassRogue, "poison_blade"),
	})
	require.NoError(t, err)

	// poison ticks for 6 at end of the cast round
	assert.Equal(t, 94, session.EnemyHP)

	var tick *entities.CombatLogEntry
	for i := range session.Log {
		if session.Log[i].Action == "poison_blade_tick" {
			tick = &session.Log[i]
		}
	}
	require.NotNil(t, tick)
	assert.Equal(t, entities.ActorPlayer, tick.Actor)
	assert.Equal(t, 6, tick.Amount)
}

func TestHeal(t *testing.T) {
	session := newSession()
	session.PlayerHP = 50
	resolver := combat.NewResolver(&rng.Fixed{})

	err := resolver.ResolveRound(session, baseStats, combat.Action{
		Type:  combat.ActionSkill,
		Skill: mustSkill(t, entities.ClassMage, "heal"),
	})
	require.NoError(t, err)

	// +40 then the enemy counter for 8
	assert.Equal(t, 82, session.PlayerHP)
	assert.Equal(t, 32, session.PlayerMana)
}

func TestHealNeverExceedsMax(t *testing.T) {
	session := newSession()
	session.PlayerHP = 115
	resolver := combat.NewResolver(&rng.Fixed{})

	err := resolver.ResolveRound(session, baseStats, combat.Action{
		Type:  combat.ActionSkill,
		Skill: mustSkill(t, entities.ClassMage, "heal"),
	})
	require.NoError(t, err)
	// capped at 120, then counter for 8
	assert.Equal(t, 112, session.PlayerHP)
}

func TestUseItem(t *testing.T) {
	potion := &entities.ItemDef{
		ID:     "hp_potion",
		Name:   "HP Potion",
		Type:   entities.ItemTypeConsumable,
		Effect: &entities.ItemEffect{HealHP: 30},
	}

	session := newSession()
	session.PlayerHP = 60
	resolver := combat.NewResolver(&rng.Fixed{})

	err := resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionUseItem, Item: potion})
	require.NoError(t, err)
	assert.Equal(t, 82, session.PlayerHP)

	t.Run("non-consumable rejected", func(t *testing.T) {
		sword := &entities.ItemDef{ID: "sword", Type: entities.ItemTypeWeapon}
		err := resolver.ResolveRound(newSession(), baseStats, combat.Action{Type: combat.ActionUseItem, Item: sword})
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestTerminalSessionRejectsActions(t *testing.T) {
	session := newSession()
	session.Status = entities.CombatStatusVictory
	resolver := combat.NewResolver(&rng.Fixed{})

	err := resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
	require.Error(t, err)
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.True(t, errors.HasReason(err, errors.ReasonCombatAlreadyResolved))
	assert.Empty(t, session.Log)
}

func TestDefeat(t *testing.T) {
	session := newSession()
	session.PlayerHP = 5
	resolver := combat.NewResolver(&rng.Fixed{})

	err := resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionDefend})
	require.NoError(t, err)

	// defended counter still lands for min(floor(8*0.5), 5) = 4... player survives
	assert.Equal(t, entities.CombatStatusActive, session.Status)

	err = resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
	require.NoError(t, err)
	assert.Equal(t, entities.CombatStatusDefeat, session.Status)
	assert.Equal(t, 0, session.PlayerHP)
}

// nonDamageActions are player log actions that do not remove enemy HP
var nonDamageActions = map[string]bool{
	"defend": true, "victory": true, "use_item": true,
	"heal": true, "berserk": true, "iron_skin": true,
	"frost_nova": true, "poison_blade": true,
}

func TestDamageAccountingRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		session := newSession()
		session.PlayerHP = 10_000 // survive long enough to win
		session.PlayerMaxHP = 10_000
		resolver := combat.NewResolver(rng.NewSeeded(rapid.Uint64().Draw(t, "seed")))

		actions := []combat.Action{
			{Type: combat.ActionAttack},
			{Type: combat.ActionDefend},
			{Type: combat.ActionSkill, Skill: mustSkillRapid(t, "double_stab")},
			{Type: combat.ActionSkill, Skill: mustSkillRapid(t, "poison_blade")},
			{Type: combat.ActionSkill, Skill: mustSkillRapid(t, "execute")},
		}

		for session.Status == entities.CombatStatusActive {
			action := actions[rapid.IntRange(0, len(actions)-1).Draw(t, "action")]
			err := resolver.ResolveRound(session, baseStats, action)
			if err != nil {
				// only legal mid-run failure is running out of mana
				if !errors.HasReason(err, errors.ReasonInsufficientMana) {
					t.Fatalf("unexpected error: %v", err)
				}
				// fall back to a plain attack to guarantee progress
				err = resolver.ResolveRound(session, baseStats, combat.Action{Type: combat.ActionAttack})
				if err != nil {
					t.Fatalf("attack failed: %v", err)
				}
			}
		}

		if session.Status != entities.CombatStatusVictory {
			t.Skip("defeat runs do not exercise the property")
		}

		total := 0
		for _, entry := range session.Log {
			if entry.Actor == entities.ActorPlayer && !nonDamageActions[entry.Action] {
				total += entry.Amount
			}
		}
		if total != session.Enemy.MaxHP-session.EnemyHP {
			t.Fatalf("logged player damage %d != %d removed", total, session.Enemy.MaxHP-session.EnemyHP)
		}
	})
}

func mustSkillRapid(t *rapid.T, id string) *entities.Skill {
	skill, err := skills.Get(entities.ClassRogue, id)
	if err != nil {
		t.Fatalf("skill %s: %v", id, err)
	}
	return skill
}
