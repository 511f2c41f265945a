package rewards_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitquest/combat-api/internal/engine/rewards"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/pkg/rng"
)

func newCalculator(t *testing.T, roller rng.Roller) *rewards.Calculator {
	t.Helper()
	calc, err := rewards.NewCalculator(&rewards.Config{Roller: roller})
	require.NoError(t, err)
	return calc
}

func goblin() *entities.Enemy {
	return &entities.Enemy{
		ID:   "goblin",
		Tier: entities.TierNormal,
		Rewards: entities.RewardTable{
			Gold:            25,
			XP:              40,
			TetranutaChance: 0.1,
		},
	}
}

func TestVictory(t *testing.T) {
	t.Run("deterministic gold and xp", func(t *testing.T) {
		calc := newCalculator(t, &rng.Fixed{})
		result := calc.Victory(goblin(), 0, 1)

		assert.Equal(t, 25, result.Gold)
		assert.Equal(t, 40, result.XP)
		assert.False(t, result.TetranutaDropped)
		assert.False(t, result.LeveledUp)
		assert.Equal(t, 1, result.NewLevel)
		assert.Equal(t, 40, result.RemainderXP)
	})

	t.Run("rare drop when the trial succeeds", func(t *testing.T) {
		calc := newCalculator(t, &rng.Fixed{Chances: []bool{true}})
		result := calc.Victory(goblin(), 0, 1)
		assert.True(t, result.TetranutaDropped)
	})

	t.Run("level up from boss grant", func(t *testing.T) {
		boss := goblin()
		boss.Rewards.XP = 500
		calc := newCalculator(t, &rng.Fixed{})

		result := calc.Victory(boss, 0, 1)
		assert.True(t, result.LeveledUp)
		assert.Equal(t, 3, result.NewLevel)
		assert.Equal(t, 50, result.RemainderXP)
		assert.Equal(t, 2, result.SkillPointsEarned)
	})

	t.Run("pre-combat xp carries into the check", func(t *testing.T) {
		calc := newCalculator(t, &rng.Fixed{})
		result := calc.Victory(goblin(), 120, 1)
		assert.True(t, result.LeveledUp)
		assert.Equal(t, 2, result.NewLevel)
		assert.Equal(t, 10, result.RemainderXP)
	})
}

func TestDefeatGoldPenalty(t *testing.T) {
	calc := newCalculator(t, &rng.Fixed{})
	assert.Equal(t, 10, calc.DefeatGoldPenalty(100))
	assert.Equal(t, 0, calc.DefeatGoldPenalty(0))
	assert.Equal(t, 0, calc.DefeatGoldPenalty(-5))
	assert.Equal(t, 0, calc.DefeatGoldPenalty(9))
}

func TestConfiguredPenalty(t *testing.T) {
	penalty := 25
	calc, err := rewards.NewCalculator(&rewards.Config{
		Roller:                   &rng.Fixed{},
		DefeatGoldPenaltyPercent: &penalty,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, calc.DefeatGoldPenalty(100))
}

func TestZeroPenaltyPolicy(t *testing.T) {
	penalty := 0
	calc, err := rewards.NewCalculator(&rewards.Config{
		Roller:                   &rng.Fixed{},
		DefeatGoldPenaltyPercent: &penalty,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calc.DefeatGoldPenalty(100))
	assert.Equal(t, 0, calc.DefeatGoldPenalty(7))
}

func TestConfigValidation(t *testing.T) {
	_, err := rewards.NewCalculator(&rewards.Config{})
	assert.Error(t, err)

	penalty := 150
	_, err = rewards.NewCalculator(&rewards.Config{Roller: &rng.Fixed{}, DefeatGoldPenaltyPercent: &penalty})
	assert.Error(t, err)
}
