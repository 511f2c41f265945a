// Package skills holds the static per-class skill catalog.
//
// The catalog is immutable and shared; lookups enforce the class
// restriction so cross-class skill use is an input-validation error rather
// than a silent no-op.
package skills

import (
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
)

// MaxSkillLevel caps per-skill levels on a character
const MaxSkillLevel = 5

// LevelMagnitudeStep is the per-skill-level scaling applied to damage
// multipliers and effect magnitudes (+10% per level above 1)
const LevelMagnitudeStep = 0.10

var catalog = map[entities.ClassID][]entities.Skill{
	entities.ClassWarrior: {
		{
			ID:         "bash",
			Class:      entities.ClassWarrior,
			Name:       "Bash",
			Cost:       10,
			Kind:       entities.SkillKindDamage,
			Multiplier: 1.5,
		},
		{
			ID:            "berserk",
			Class:         entities.ClassWarrior,
			Name:          "Berserk",
			Cost:          15,
			Kind:          entities.SkillKindBuff,
			EffectKind:    entities.EffectStrengthen,
			Magnitude:     0.5,
			DurationTurns: 3,
		},
		{
			ID:            "iron_skin",
			Class:         entities.ClassWarrior,
			Name:          "Iron Skin",
			Cost:          12,
			Kind:          entities.SkillKindBuff,
			EffectKind:    entities.EffectProtect,
			Magnitude:     0.5,
			DurationTurns: 2,
		},
	},
	entities.ClassRogue: {
		{
			ID:         "double_stab",
			Class:      entities.ClassRogue,
			Name:       "Double Stab",
			Cost:       12,
			Kind:       entities.SkillKindMultiHit,
			Multiplier: 0.8,
			Hits:       2,
		},
		{
			ID:               "execute",
			Class:            entities.ClassRogue,
			Name:             "Execute",
			Cost:             20,
			Kind:             entities.SkillKindConditional,
			Multiplier:       1.0,
			ConditionHPBelow: 0.30,
			BonusMultiplier:  2.5,
		},
		{
			ID:            "poison_blade",
			Class:         entities.ClassRogue,
			Name:          "Poison Blade",
			Cost:          14,
			Kind:          entities.SkillKindDot,
			EffectKind:    entities.EffectDot,
			Magnitude:     6,
			DurationTurns: 3,
		},
	},
	entities.ClassMage: {
		{
			ID:               "fireball",
			Class:            entities.ClassMage,
			Name:             "Fireball",
			Cost:             15,
			Kind:             entities.SkillKindDamage,
			Multiplier:       2.0,
			UsesIntelligence: true,
		},
		{
			ID:            "frost_nova",
			Class:         entities.ClassMage,
			Name:          "Frost Nova",
			Cost:          12,
			Kind:          entities.SkillKindDebuff,
			EffectKind:    entities.EffectWeaken,
			Magnitude:     0.3,
			DurationTurns: 2,
		},
		{
			ID:       "heal",
			Class:    entities.ClassMage,
			Name:     "Heal",
			Cost:     18,
			Kind:     entities.SkillKindHeal,
			HealHP:   40,
			HealMana: 0,
		},
	},
}

// Get looks up a skill and enforces the class restriction
func Get(classID entities.ClassID, skillID string) (*entities.Skill, error) {
	classSkills, ok := catalog[classID]
	if !ok {
		return nil, errors.NotFoundf("unknown class: %s", classID)
	}

	for i := range classSkills {
		if classSkills[i].ID == skillID {
			skill := classSkills[i]
			return &skill, nil
		}
	}

	// Distinguish "belongs to another class" from "does not exist"
	for class, skillList := range catalog {
		if class == classID {
			continue
		}
		for i := range skillList {
			if skillList[i].ID == skillID {
				return nil, errors.InvalidArgumentf("skill %s is not usable by class %s", skillID, classID).
					WithReason(errors.ReasonInvalidSkillForClass)
			}
		}
	}

	return nil, errors.NotFoundf("unknown skill: %s", skillID)
}

// List returns the skills available to a class
func List(classID entities.ClassID) ([]entities.Skill, error) {
	classSkills, ok := catalog[classID]
	if !ok {
		return nil, errors.NotFoundf("unknown class: %s", classID)
	}
	out := make([]entities.Skill, len(classSkills))
	copy(out, classSkills)
	return out, nil
}

// ScaledMultiplier returns a skill multiplier adjusted for the character's
// skill level. Level 1 is the baseline; each level above adds
// LevelMagnitudeStep of the base value.
func ScaledMultiplier(base float64, skillLevel int) float64 {
	if skillLevel <= 1 {
		return base
	}
	return base * (1 + LevelMagnitudeStep*float64(skillLevel-1))
}
