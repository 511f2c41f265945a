// Package entities holds the domain types shared across repositories,
// engine packages, and orchestrators.
package entities

// ClassID identifies a character class
type ClassID string

// Character classes
const (
	ClassWarrior ClassID = "warrior"
	ClassRogue   ClassID = "rogue"
	ClassMage    ClassID = "mage"
)

// Stats holds the five base attributes
type Stats struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Vitality     int `json:"vitality"`
	Dexterity    int `json:"dexterity"`
	Luck         int `json:"luck"`
}

// Add returns the component-wise sum of two stat blocks
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Strength:     s.Strength + other.Strength,
		Intelligence: s.Intelligence + other.Intelligence,
		Vitality:     s.Vitality + other.Vitality,
		Dexterity:    s.Dexterity + other.Dexterity,
		Luck:         s.Luck + other.Luck,
	}
}

// CombatRecord is the persisted combat sub-document of a character
type CombatRecord struct {
	CurrentHP   int   `json:"currentHp"`
	MaxHP       int   `json:"maxHp"`
	CurrentMana int   `json:"currentMana"`
	MaxMana     int   `json:"maxMana"`
	Wins        int   `json:"wins"`
	Losses      int   `json:"losses"`
	LastRestAt  int64 `json:"lastRestAt,omitempty"`
}

// Character is the progression state for one player character.
// XP is cumulative within the current level, not lifetime.
type Character struct {
	ID          string         `json:"id"`
	PlayerID    string         `json:"playerId"`
	Name        string         `json:"name"`
	Class       ClassID        `json:"class"`
	Level       int            `json:"level"`
	XP          int            `json:"xp"`
	Gold        int            `json:"gold"`
	Tetranuta   int            `json:"tetranuta"`
	Stats       Stats          `json:"stats"`
	Combat      CombatRecord   `json:"combat"`
	SkillPoints int            `json:"skillPoints"`
	SkillLevels map[string]int `json:"skillLevels,omitempty"`
	Equipment   map[Slot]string `json:"equipment,omitempty"`
	CreatedAt   int64          `json:"createdAt"`
	UpdatedAt   int64          `json:"updatedAt"`
}

// SkillLevel returns the character's level in a skill (0 = not learned)
func (c *Character) SkillLevel(skillID string) int {
	if c.SkillLevels == nil {
		return 0
	}
	return c.SkillLevels[skillID]
}

// EquippedIn returns the inventory record ID occupying a slot, if any
func (c *Character) EquippedIn(slot Slot) (string, bool) {
	if c.Equipment == nil {
		return "", false
	}
	invID, ok := c.Equipment[slot]
	return invID, ok && invID != ""
}
