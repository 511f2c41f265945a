package entities

// CombatStatus is the state of a combat session
type CombatStatus string

// Combat session states. Active is the only non-terminal state; a session is
// created already Active.
const (
	CombatStatusActive  CombatStatus = "active"
	CombatStatusVictory CombatStatus = "victory"
	CombatStatusDefeat  CombatStatus = "defeat"
)

// Terminal reports whether the session can accept further actions
func (s CombatStatus) Terminal() bool {
	return s == CombatStatusVictory || s == CombatStatusDefeat
}

// Actor identifies who performed a combat sub-action
type Actor string

// Combat actors
const (
	ActorPlayer Actor = "player"
	ActorEnemy  Actor = "enemy"
)

// EffectKind classifies an active status effect
type EffectKind string

// Status effect kinds
const (
	// EffectStrengthen raises the bearer's outgoing damage by Magnitude
	// (0.5 = +50%)
	EffectStrengthen EffectKind = "strengthen"
	// EffectProtect reduces the bearer's incoming damage by Magnitude
	// (0.5 = halved)
	EffectProtect EffectKind = "protect"
	// EffectWeaken reduces the bearer's outgoing damage by Magnitude
	EffectWeaken EffectKind = "weaken"
	// EffectDot deals Magnitude flat damage to the bearer each round
	EffectDot EffectKind = "dot"
)

// StatusEffect is an active effect with a remaining-turn counter. Effects
// decrement once per round and expire at 0.
type StatusEffect struct {
	SourceID       string     `json:"sourceId"`
	Target         Actor      `json:"target"`
	Kind           EffectKind `json:"kind"`
	Magnitude      float64    `json:"magnitude"`
	RemainingTurns int        `json:"remainingTurns"`
}

// CombatLogEntry is one immutable entry in the session's append-only log
type CombatLogEntry struct {
	Actor   Actor  `json:"actor"`
	Action  string `json:"action"`
	Amount  int    `json:"amount"`
	Message string `json:"message"`
}

// CombatSession is the turn-resolution state for one character vs one enemy.
// At most one active session exists per character.
type CombatSession struct {
	ID          string `json:"id"`
	CharacterID string `json:"characterId"`
	Enemy       Enemy  `json:"enemy"`

	PlayerHP        int  `json:"playerHp"`
	PlayerMaxHP     int  `json:"playerMaxHp"`
	PlayerMana      int  `json:"playerMana"`
	PlayerMaxMana   int  `json:"playerMaxMana"`
	EnemyHP         int  `json:"enemyHp"`
	PlayerDefending bool `json:"playerDefending"`

	Effects []StatusEffect   `json:"effects,omitempty"`
	Status  CombatStatus     `json:"status"`
	Log     []CombatLogEntry `json:"log"`

	// DungeonID is set when this session belongs to a dungeon run
	DungeonID string `json:"dungeonId,omitempty"`

	// LastActionKey records the idempotency key of the most recently
	// applied round so a retried submission is detected, not re-applied
	LastActionKey string `json:"lastActionKey,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}
