package entities

// SkillKind classifies what a skill does when cast
type SkillKind string

// Skill kinds
const (
	// SkillKindDamage scales the base attack by Multiplier
	SkillKindDamage SkillKind = "damage"
	// SkillKindMultiHit applies the base formula Hits times at Multiplier each
	SkillKindMultiHit SkillKind = "multi_hit"
	// SkillKindConditional uses BonusMultiplier only while the enemy is
	// below ConditionHPBelow of max HP (strict less-than), else Multiplier
	SkillKindConditional SkillKind = "conditional"
	// SkillKindBuff pushes a status effect onto the caster
	SkillKindBuff SkillKind = "buff"
	// SkillKindDebuff pushes a status effect onto the enemy
	SkillKindDebuff SkillKind = "debuff"
	// SkillKindHeal restores HP/mana up to the respective max
	SkillKindHeal SkillKind = "heal"
	// SkillKindDot applies damage-over-time to the enemy
	SkillKindDot SkillKind = "dot"
)

// Valid reports whether k is one of the defined skill kinds
func (k SkillKind) Valid() bool {
	switch k {
	case SkillKindDamage, SkillKindMultiHit, SkillKindConditional,
		SkillKindBuff, SkillKindDebuff, SkillKindHeal, SkillKindDot:
		return true
	}
	return false
}

// Skill is an immutable catalog entry. Cost is mana; DurationTurns of 0
// means instant.
type Skill struct {
	ID    string    `json:"id"`
	Class ClassID   `json:"class"`
	Name  string    `json:"name"`
	Cost  int       `json:"cost"`
	Kind  SkillKind `json:"kind"`

	Multiplier       float64 `json:"multiplier,omitempty"`
	Hits             int     `json:"hits,omitempty"`
	ConditionHPBelow float64 `json:"conditionHpBelow,omitempty"`
	BonusMultiplier  float64 `json:"bonusMultiplier,omitempty"`

	EffectKind    EffectKind `json:"effectKind,omitempty"`
	Magnitude     float64    `json:"magnitude,omitempty"`
	DurationTurns int        `json:"durationTurns,omitempty"`

	HealHP   int `json:"healHp,omitempty"`
	HealMana int `json:"healMana,omitempty"`

	// UsesIntelligence switches the damage base from strength to
	// intelligence (mage skills)
	UsesIntelligence bool `json:"usesIntelligence,omitempty"`
}
