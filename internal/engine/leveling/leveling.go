// Package leveling implements the XP/level arithmetic for character
// progression. All functions are pure.
package leveling

import "math"

// SkillPointsPerLevel is granted for each level gained
const SkillPointsPerLevel = 1

// NextLevelXP returns the XP threshold to advance from the given level.
// Strictly increasing for level >= 1.
func NextLevelXP(level int) int {
	return int(math.Floor(100 * float64(level) * 1.5))
}

// Result describes the outcome of a level-up check
type Result struct {
	NewLevel     int
	RemainderXP  int
	LevelsGained int
	LeveledUp    bool
}

// CheckLevelUp consumes thresholds until the remaining XP no longer reaches
// the next one. A single large grant can produce multiple level-ups in one
// call. Negative XP is the caller's responsibility to reject.
func CheckLevelUp(currentXP, currentLevel int) Result {
	xp := currentXP
	level := currentLevel
	gained := 0

	for xp >= NextLevelXP(level) {
		xp -= NextLevelXP(level)
		level++
		gained++
	}

	return Result{
		NewLevel:     level,
		RemainderXP:  xp,
		LevelsGained: gained,
		LeveledUp:    gained > 0,
	}
}

// SkillPointsForLevels returns the skill points earned for gained levels
func SkillPointsForLevels(levelsGained int) int {
	if levelsGained <= 0 {
		return 0
	}
	return levelsGained * SkillPointsPerLevel
}
