// Package rewards computes gold/XP/rare-drop outcomes for combat
// resolution and the gold penalty on defeat.
package rewards

import (
	"github.com/habitquest/combat-api/internal/engine/leveling"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/pkg/rng"
)

// DefaultDefeatGoldPenaltyPercent is the share of gold lost on defeat when
// no policy is configured. The exact policy is deployment configuration.
const DefaultDefeatGoldPenaltyPercent = 10

// Config holds the dependencies and policy for the calculator
type Config struct {
	Roller rng.Roller
	// DefeatGoldPenaltyPercent is the percentage of carried gold lost on
	// defeat; nil means DefaultDefeatGoldPenaltyPercent. Zero is a valid
	// no-penalty policy.
	DefeatGoldPenaltyPercent *int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Roller == nil {
		return errors.InvalidArgument("roller is required")
	}
	if c.DefeatGoldPenaltyPercent != nil {
		if p := *c.DefeatGoldPenaltyPercent; p < 0 || p > 100 {
			return errors.InvalidArgumentf("defeat gold penalty must be 0-100, got %d", p)
		}
	}
	return nil
}

// Calculator computes combat outcome rewards
type Calculator struct {
	roller         rng.Roller
	penaltyPercent int
}

// NewCalculator creates a calculator with the provided dependencies
func NewCalculator(cfg *Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	penalty := DefaultDefeatGoldPenaltyPercent
	if cfg.DefeatGoldPenaltyPercent != nil {
		penalty = *cfg.DefeatGoldPenaltyPercent
	}

	return &Calculator{
		roller:         cfg.Roller,
		penaltyPercent: penalty,
	}, nil
}

// VictoryResult is the full outcome of defeating one enemy
type VictoryResult struct {
	Gold              int
	XP                int
	TetranutaDropped  bool
	NewLevel          int
	RemainderXP       int
	LeveledUp         bool
	SkillPointsEarned int
}

// Victory computes the rewards for a defeated enemy and resolves any
// level-ups against the character's pre-combat XP. Gold and XP are
// deterministic from the enemy's rewards table; the rare drop is an
// independent trial per kill.
func (c *Calculator) Victory(enemy *entities.Enemy, currentXP, currentLevel int) *VictoryResult {
	dropped := c.roller.Chance(enemy.Rewards.TetranutaChance)

	levelResult := leveling.CheckLevelUp(currentXP+enemy.Rewards.XP, currentLevel)

	return &VictoryResult{
		Gold:              enemy.Rewards.Gold,
		XP:                enemy.Rewards.XP,
		TetranutaDropped:  dropped,
		NewLevel:          levelResult.NewLevel,
		RemainderXP:       levelResult.RemainderXP,
		LeveledUp:         levelResult.LeveledUp,
		SkillPointsEarned: leveling.SkillPointsForLevels(levelResult.LevelsGained),
	}
}

// KillRewardResult is the per-kill contribution accumulated across a
// dungeon run
type KillRewardResult struct {
	Gold             int
	XP               int
	TetranutaDropped bool
}

// KillReward returns the per-kill gold/XP and rolls the rare drop without
// resolving level-ups. Dungeon runs accumulate these and settle the level
// arithmetic once, on completion.
func (c *Calculator) KillReward(enemy *entities.Enemy) *KillRewardResult {
	return &KillRewardResult{
		Gold:             enemy.Rewards.Gold,
		XP:               enemy.Rewards.XP,
		TetranutaDropped: c.roller.Chance(enemy.Rewards.TetranutaChance),
	}
}

// DefeatGoldPenalty returns the gold lost when the character falls. HP is
// never auto-restored on defeat.
func (c *Calculator) DefeatGoldPenalty(gold int) int {
	if gold <= 0 {
		return 0
	}
	return gold * c.penaltyPercent / 100
}
