package entities

// Dungeon is an ordered sequence of enemy encounters fought without full
// heal between fights
type Dungeon struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	EnemyIDs    []string `json:"enemyIds"`
}

// DungeonProgress is the persisted, resumable state of one character's run
// through one dungeon. It outlives the ephemeral combat session for the
// current encounter. Rewards accumulate per encounter and are granted when
// the final encounter falls.
type DungeonProgress struct {
	CharacterID       string `json:"characterId"`
	DungeonID         string `json:"dungeonId"`
	InProgress        bool   `json:"inProgress"`
	CurrentEnemyIndex int    `json:"currentEnemyIndex"`

	GoldEarned      int   `json:"goldEarned"`
	XPEarned        int   `json:"xpEarned"`
	TetranutaEarned int   `json:"tetranutaEarned"`
	UpdatedAt       int64 `json:"updatedAt"`
}
