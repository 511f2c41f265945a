package leveling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/habitquest/combat-api/internal/engine/leveling"
)

func TestNextLevelXP(t *testing.T) {
	testCases := []struct {
		level    int
		expected int
	}{
		{level: 1, expected: 150},
		{level: 2, expected: 300},
		{level: 3, expected: 450},
		{level: 10, expected: 1500},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, leveling.NextLevelXP(tc.level))
	}
}

func TestNextLevelXPStrictlyIncreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(1, 10_000).Draw(t, "level")
		assert.Less(t, leveling.NextLevelXP(level), leveling.NextLevelXP(level+1))
	})
}

func TestCheckLevelUp(t *testing.T) {
	testCases := []struct {
		name         string
		xp           int
		level        int
		wantLevel    int
		wantRemain   int
		wantLeveled  bool
		wantGained   int
	}{
		{
			name:        "below threshold",
			xp:          90,
			level:       1,
			wantLevel:   1,
			wantRemain:  90,
			wantLeveled: false,
			wantGained:  0,
		},
		{
			name:        "exactly at threshold",
			xp:          150,
			level:       1,
			wantLevel:   2,
			wantRemain:  0,
			wantLeveled: true,
			wantGained:  1,
		},
		{
			name:        "multiple level-ups from one grant",
			xp:          500,
			level:       1,
			wantLevel:   3,
			wantRemain:  50,
			wantLeveled: true,
			wantGained:  2,
		},
		{
			name:        "zero xp",
			xp:          0,
			level:       5,
			wantLevel:   5,
			wantRemain:  0,
			wantLeveled: false,
			wantGained:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := leveling.CheckLevelUp(tc.xp, tc.level)
			assert.Equal(t, tc.wantLevel, result.NewLevel)
			assert.Equal(t, tc.wantRemain, result.RemainderXP)
			assert.Equal(t, tc.wantLeveled, result.LeveledUp)
			assert.Equal(t, tc.wantGained, result.LevelsGained)
		})
	}
}

func TestCheckLevelUpRemainderBelowThreshold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		xp := rapid.IntRange(0, 1_000_000).Draw(t, "xp")
		level := rapid.IntRange(1, 100).Draw(t, "level")

		result := leveling.CheckLevelUp(xp, level)

		assert.Less(t, result.RemainderXP, leveling.NextLevelXP(result.NewLevel))
		assert.GreaterOrEqual(t, result.RemainderXP, 0)
		assert.Equal(t, result.NewLevel-level, result.LevelsGained)
	})
}

func TestSkillPointsForLevels(t *testing.T) {
	assert.Equal(t, 0, leveling.SkillPointsForLevels(0))
	assert.Equal(t, 0, leveling.SkillPointsForLevels(-1))
	assert.Equal(t, 3, leveling.SkillPointsForLevels(3))
}
