package entities

// Tier classifies enemy difficulty for reward scaling and display
type Tier string

// Enemy tiers
const (
	TierNormal Tier = "normal"
	TierElite  Tier = "elite"
	TierBoss   Tier = "boss"
)

// RewardTable is what an enemy yields on defeat. Gold and XP are
// deterministic; TetranutaChance is an independent trial per kill.
type RewardTable struct {
	Gold            int     `json:"gold"`
	XP              int     `json:"xp"`
	TetranutaChance float64 `json:"tetranutaChance"`
}

// Enemy is an immutable enemy template, snapshotted into each session
type Enemy struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Tier    Tier        `json:"tier"`
	Level   int         `json:"level"`
	MaxHP   int         `json:"maxHp"`
	Attack  int         `json:"attack"`
	Defense int         `json:"defense"`
	Rewards RewardTable `json:"rewards"`
}
