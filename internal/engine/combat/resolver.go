// Package combat implements the turn-resolution state machine for one
// character versus one enemy.
//
// A round is one unit of work: the player's action resolves first and, if
// the session is still active, one enemy counter-action resolves
// synchronously in the same call. End-of-round housekeeping ticks
// damage-over-time effects, decrements remaining-turn counters, and clears
// the one-round defending flag. Every resolved sub-action appends one
// immutable entry to the session log; the log is never rewritten.
//
// Damage entries are logged with the HP actually removed, so for any
// victory the sum of player damage entries equals enemy max HP minus final
// enemy HP.
package combat

import (
	"fmt"
	"math"

	"github.com/habitquest/combat-api/internal/engine/skills"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/pkg/rng"
)

// Combat constants
const (
	// PhysicalStatMultiplier converts strength (or intelligence for
	// spellcasting) into base damage
	PhysicalStatMultiplier = 2
	// CritChancePerLuck is the crit-chance percentage granted per point
	// of luck
	CritChancePerLuck = 0.5
	// CritMultiplier is applied to a critical hit
	CritMultiplier = 1.5
	// DefendReduction halves the next incoming enemy hit
	DefendReduction = 0.5
	// MinDamage is the floor after the defense term
	MinDamage = 1
	// EnemyFierceChance is the chance of the enemy heuristic picking its
	// heavy swing over a plain attack
	EnemyFierceChance = 0.25
	// EnemyFierceMultiplier scales the enemy's heavy swing
	EnemyFierceMultiplier = 1.5
)

// ActionType is a player action within a round
type ActionType string

// Player actions
const (
	ActionAttack  ActionType = "attack"
	ActionSkill   ActionType = "skill"
	ActionDefend  ActionType = "defend"
	ActionUseItem ActionType = "use_item"
)

// Action is a fully resolved player action: the orchestrator has already
// looked up and validated the skill or item against the character.
type Action struct {
	Type       ActionType
	Skill      *entities.Skill
	SkillLevel int
	Item       *entities.ItemDef
}

// Resolver applies rounds to combat sessions
type Resolver struct {
	roller rng.Roller
}

// NewResolver creates a resolver drawing randomness from the given roller
func NewResolver(roller rng.Roller) *Resolver {
	return &Resolver{roller: roller}
}

// ResolveRound applies one player action and, unless the player action
// ended the fight, one enemy counter-action, mutating the session in
// place. Validation failures mutate nothing.
func (r *Resolver) ResolveRound(session *entities.CombatSession, stats entities.Stats, action Action) error {
	if session.Status.Terminal() {
		return errors.FailedPreconditionf("combat %s is already resolved (%s)", session.ID, session.Status).
			WithReason(errors.ReasonCombatAlreadyResolved)
	}

	if err := r.applyPlayerAction(session, stats, action); err != nil {
		return err
	}

	if r.checkVictory(session) {
		return nil
	}

	r.applyEnemyAction(session)
	session.PlayerDefending = false

	r.tickEffects(session)

	if r.checkVictory(session) {
		return nil
	}
	r.checkDefeat(session)
	return nil
}

func (r *Resolver) applyPlayerAction(session *entities.CombatSession, stats entities.Stats, action Action) error {
	switch action.Type {
	case ActionAttack:
		dmg, crit := r.playerDamage(session, stats, 1.0, false)
		r.dealToEnemy(session, dmg, "attack", attackMessage("You attack", dmg, crit))
		return nil

	case ActionSkill:
		return r.applySkill(session, stats, action.Skill, action.SkillLevel)

	case ActionDefend:
		session.PlayerDefending = true
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorPlayer,
			Action:  "defend",
			Message: "You brace for the next hit",
		})
		return nil

	case ActionUseItem:
		return r.applyItem(session, action.Item)

	default:
		return errors.InvalidArgumentf("unknown action: %s", action.Type)
	}
}

func (r *Resolver) applySkill(session *entities.CombatSession, stats entities.Stats, skill *entities.Skill, skillLevel int) error {
	if skill == nil {
		return errors.InvalidArgument("skill is required")
	}
	// All validation happens before the mana spend so a rejected cast
	// leaves the session untouched.
	if !skill.Kind.Valid() {
		return errors.InvalidArgumentf("unknown skill kind: %s", skill.Kind)
	}
	if session.PlayerMana < skill.Cost {
		return errors.InvalidArgumentf("skill %s costs %d mana, have %d", skill.ID, skill.Cost, session.PlayerMana).
			WithReason(errors.ReasonInsufficientMana)
	}
	session.PlayerMana -= skill.Cost

	switch skill.Kind {
	case entities.SkillKindDamage:
		mult := skills.ScaledMultiplier(skill.Multiplier, skillLevel)
		dmg, crit := r.playerDamage(session, stats, mult, skill.UsesIntelligence)
		r.dealToEnemy(session, dmg, skill.ID, attackMessage("You use "+skill.Name, dmg, crit))

	case entities.SkillKindMultiHit:
		mult := skills.ScaledMultiplier(skill.Multiplier, skillLevel)
		hits := skill.Hits
		if hits < 1 {
			hits = 1
		}
		for i := 0; i < hits && session.EnemyHP > 0; i++ {
			dmg, crit := r.playerDamage(session, stats, mult, skill.UsesIntelligence)
			r.dealToEnemy(session, dmg, skill.ID,
				attackMessage(fmt.Sprintf("%s hit %d", skill.Name, i+1), dmg, crit))
		}

	case entities.SkillKindConditional:
		mult := skills.ScaledMultiplier(skill.Multiplier, skillLevel)
		// The elevated multiplier requires the enemy strictly below the
		// HP threshold at the moment of cast
		threshold := skill.ConditionHPBelow * float64(session.Enemy.MaxHP)
		if float64(session.EnemyHP) < threshold {
			mult = skills.ScaledMultiplier(skill.BonusMultiplier, skillLevel)
		}
		dmg, crit := r.playerDamage(session, stats, mult, skill.UsesIntelligence)
		r.dealToEnemy(session, dmg, skill.ID, attackMessage("You use "+skill.Name, dmg, crit))

	case entities.SkillKindBuff:
		r.pushEffect(session, skill.ID, entities.ActorPlayer, skill.EffectKind,
			skills.ScaledMultiplier(skill.Magnitude, skillLevel), skill.DurationTurns)
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorPlayer,
			Action:  skill.ID,
			Message: fmt.Sprintf("You use %s", skill.Name),
		})

	case entities.SkillKindDebuff:
		r.pushEffect(session, skill.ID, entities.ActorEnemy, skill.EffectKind,
			skills.ScaledMultiplier(skill.Magnitude, skillLevel), skill.DurationTurns)
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorPlayer,
			Action:  skill.ID,
			Message: fmt.Sprintf("You afflict %s with %s", session.Enemy.Name, skill.Name),
		})

	case entities.SkillKindDot:
		r.pushEffect(session, skill.ID, entities.ActorEnemy, entities.EffectDot,
			skills.ScaledMultiplier(skill.Magnitude, skillLevel), skill.DurationTurns)
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorPlayer,
			Action:  skill.ID,
			Message: fmt.Sprintf("%s begins to take effect on %s", skill.Name, session.Enemy.Name),
		})

	case entities.SkillKindHeal:
		healedHP := r.healPlayerHP(session, int(skills.ScaledMultiplier(float64(skill.HealHP), skillLevel)))
		healedMana := r.healPlayerMana(session, skill.HealMana)
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorPlayer,
			Action:  skill.ID,
			Amount:  healedHP + healedMana,
			Message: fmt.Sprintf("You use %s and recover %d HP", skill.Name, healedHP),
		})
	}

	return nil
}

func (r *Resolver) applyItem(session *entities.CombatSession, item *entities.ItemDef) error {
	if item == nil {
		return errors.InvalidArgument("item is required")
	}
	if !item.Consumable() || item.Effect == nil {
		return errors.InvalidArgumentf("item %s is not usable in combat", item.ID)
	}

	effect := item.Effect
	healedHP := r.healPlayerHP(session, effect.HealHP)
	healedMana := r.healPlayerMana(session, effect.HealMana)
	if effect.BuffKind != "" {
		r.pushEffect(session, item.ID, entities.ActorPlayer, effect.BuffKind, effect.Magnitude, effect.DurationTurns)
	}

	session.Log = append(session.Log, entities.CombatLogEntry{
		Actor:   entities.ActorPlayer,
		Action:  "use_item",
		Amount:  healedHP + healedMana,
		Message: fmt.Sprintf("You use %s", item.Name),
	})
	return nil
}

// playerDamage computes a player hit before clamping: stat base times
// multiplier and active effects, minus the enemy defense term, with a
// luck-seeded crit check.
func (r *Resolver) playerDamage(session *entities.CombatSession, stats entities.Stats, multiplier float64, usesIntelligence bool) (int, bool) {
	stat := stats.Strength
	if usesIntelligence {
		stat = stats.Intelligence
	}
	base := float64(stat * PhysicalStatMultiplier)

	base *= multiplier
	base *= r.outgoingModifier(session, entities.ActorPlayer)

	dmg := base - float64(session.Enemy.Defense)
	if dmg < MinDamage {
		dmg = MinDamage
	}

	crit := r.roller.Chance(float64(stats.Luck) * CritChancePerLuck / 100)
	if crit {
		dmg *= CritMultiplier
	}

	return int(math.Floor(dmg)), crit
}

// applyEnemyAction resolves the enemy's counter-action by a simple
// heuristic: usually a plain attack, occasionally a heavy swing.
func (r *Resolver) applyEnemyAction(session *entities.CombatSession) {
	action := "attack"
	base := float64(session.Enemy.Attack)
	if r.roller.Chance(EnemyFierceChance) {
		action = "fierce_attack"
		base *= EnemyFierceMultiplier
	}

	base *= r.outgoingModifier(session, entities.ActorEnemy)

	if session.PlayerDefending {
		base *= DefendReduction
	}
	base *= r.incomingModifier(session, entities.ActorPlayer)

	dmg := int(math.Floor(base))
	if dmg < MinDamage {
		dmg = MinDamage
	}
	if dmg > session.PlayerHP {
		dmg = session.PlayerHP
	}

	session.PlayerHP -= dmg
	session.Log = append(session.Log, entities.CombatLogEntry{
		Actor:   entities.ActorEnemy,
		Action:  action,
		Amount:  dmg,
		Message: fmt.Sprintf("%s hits you for %d", session.Enemy.Name, dmg),
	})
}

// tickEffects applies damage-over-time, decrements counters, and drops
// expired effects. Runs once per completed round.
func (r *Resolver) tickEffects(session *entities.CombatSession) {
	remaining := session.Effects[:0]
	for _, effect := range session.Effects {
		if effect.Kind == entities.EffectDot {
			r.applyDot(session, effect)
		}
		effect.RemainingTurns--
		if effect.RemainingTurns > 0 {
			remaining = append(remaining, effect)
		}
	}
	session.Effects = remaining
	if len(session.Effects) == 0 {
		session.Effects = nil
	}
}

func (r *Resolver) applyDot(session *entities.CombatSession, effect entities.StatusEffect) {
	dmg := int(math.Floor(effect.Magnitude))
	if dmg < 1 {
		return
	}

	switch effect.Target {
	case entities.ActorEnemy:
		if dmg > session.EnemyHP {
			dmg = session.EnemyHP
		}
		if dmg == 0 {
			return
		}
		session.EnemyHP -= dmg
		// Player-sourced, so the damage-accounting property holds
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorPlayer,
			Action:  effect.SourceID + "_tick",
			Amount:  dmg,
			Message: fmt.Sprintf("%s suffers %d from %s", session.Enemy.Name, dmg, effect.SourceID),
		})
	case entities.ActorPlayer:
		if dmg > session.PlayerHP {
			dmg = session.PlayerHP
		}
		if dmg == 0 {
			return
		}
		session.PlayerHP -= dmg
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorEnemy,
			Action:  effect.SourceID + "_tick",
			Amount:  dmg,
			Message: fmt.Sprintf("You suffer %d from %s", dmg, effect.SourceID),
		})
	}
}

// outgoingModifier folds strengthen/weaken effects on the given bearer
// into a damage multiplier
func (r *Resolver) outgoingModifier(session *entities.CombatSession, bearer entities.Actor) float64 {
	mod := 1.0
	for _, effect := range session.Effects {
		if effect.Target != bearer {
			continue
		}
		switch effect.Kind {
		case entities.EffectStrengthen:
			mod *= 1 + effect.Magnitude
		case entities.EffectWeaken:
			mod *= 1 - effect.Magnitude
		}
	}
	return mod
}

// incomingModifier folds protect effects on the given bearer into a
// damage multiplier
func (r *Resolver) incomingModifier(session *entities.CombatSession, bearer entities.Actor) float64 {
	mod := 1.0
	for _, effect := range session.Effects {
		if effect.Target == bearer && effect.Kind == entities.EffectProtect {
			mod *= 1 - effect.Magnitude
		}
	}
	return mod
}

func (r *Resolver) pushEffect(session *entities.CombatSession, sourceID string, target entities.Actor, kind entities.EffectKind, magnitude float64, duration int) {
	if duration < 1 {
		duration = 1
	}
	session.Effects = append(session.Effects, entities.StatusEffect{
		SourceID:       sourceID,
		Target:         target,
		Kind:           kind,
		Magnitude:      magnitude,
		RemainingTurns: duration,
	})
}

// dealToEnemy applies damage clamped to remaining enemy HP and logs the
// amount actually removed
func (r *Resolver) dealToEnemy(session *entities.CombatSession, dmg int, action, message string) {
	if dmg > session.EnemyHP {
		dmg = session.EnemyHP
	}
	session.EnemyHP -= dmg
	session.Log = append(session.Log, entities.CombatLogEntry{
		Actor:   entities.ActorPlayer,
		Action:  action,
		Amount:  dmg,
		Message: message,
	})
}

func (r *Resolver) healPlayerHP(session *entities.CombatSession, amount int) int {
	if amount <= 0 {
		return 0
	}
	healed := amount
	if session.PlayerHP+healed > session.PlayerMaxHP {
		healed = session.PlayerMaxHP - session.PlayerHP
	}
	session.PlayerHP += healed
	return healed
}

func (r *Resolver) healPlayerMana(session *entities.CombatSession, amount int) int {
	if amount <= 0 {
		return 0
	}
	healed := amount
	if session.PlayerMana+healed > session.PlayerMaxMana {
		healed = session.PlayerMaxMana - session.PlayerMana
	}
	session.PlayerMana += healed
	return healed
}

func (r *Resolver) checkVictory(session *entities.CombatSession) bool {
	if session.EnemyHP <= 0 && session.Status == entities.CombatStatusActive {
		session.Status = entities.CombatStatusVictory
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorPlayer,
			Action:  "victory",
			Message: fmt.Sprintf("%s is defeated", session.Enemy.Name),
		})
	}
	return session.Status == entities.CombatStatusVictory
}

func (r *Resolver) checkDefeat(session *entities.CombatSession) bool {
	if session.PlayerHP <= 0 && session.Status == entities.CombatStatusActive {
		session.Status = entities.CombatStatusDefeat
		session.Log = append(session.Log, entities.CombatLogEntry{
			Actor:   entities.ActorEnemy,
			Action:  "defeat",
			Message: "You have been defeated",
		})
	}
	return session.Status == entities.CombatStatusDefeat
}

func attackMessage(prefix string, dmg int, crit bool) string {
	if crit {
		return fmt.Sprintf("%s for %d (critical!)", prefix, dmg)
	}
	return fmt.Sprintf("%s for %d", prefix, dmg)
}
