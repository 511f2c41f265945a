// Package enemies holds the static enemy template catalog. Templates are
// immutable; sessions snapshot them at creation.
package enemies

import (
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
)

var catalog = []entities.Enemy{
	{
		ID:      "slime",
		Name:    "Slime",
		Tier:    entities.TierNormal,
		Level:   1,
		MaxHP:   40,
		Attack:  5,
		Defense: 0,
		Rewards: entities.RewardTable{Gold: 10, XP: 20, TetranutaChance: 0.02},
	},
	{
		ID:      "goblin",
		Name:    "Goblin",
		Tier:    entities.TierNormal,
		Level:   2,
		MaxHP:   70,
		Attack:  8,
		Defense: 2,
		Rewards: entities.RewardTable{Gold: 18, XP: 35, TetranutaChance: 0.03},
	},
	{
		ID:      "dire_wolf",
		Name:    "Dire Wolf",
		Tier:    entities.TierNormal,
		Level:   4,
		MaxHP:   110,
		Attack:  14,
		Defense: 4,
		Rewards: entities.RewardTable{Gold: 30, XP: 60, TetranutaChance: 0.05},
	},
	{
		ID:      "orc_raider",
		Name:    "Orc Raider",
		Tier:    entities.TierElite,
		Level:   6,
		MaxHP:   180,
		Attack:  20,
		Defense: 8,
		Rewards: entities.RewardTable{Gold: 55, XP: 110, TetranutaChance: 0.10},
	},
	{
		ID:      "cave_troll",
		Name:    "Cave Troll",
		Tier:    entities.TierElite,
		Level:   8,
		MaxHP:   260,
		Attack:  26,
		Defense: 12,
		Rewards: entities.RewardTable{Gold: 80, XP: 170, TetranutaChance: 0.12},
	},
	{
		ID:      "bone_dragon",
		Name:    "Bone Dragon",
		Tier:    entities.TierBoss,
		Level:   12,
		MaxHP:   500,
		Attack:  38,
		Defense: 18,
		Rewards: entities.RewardTable{Gold: 250, XP: 600, TetranutaChance: 0.35},
	},
}

var byID = func() map[string]*entities.Enemy {
	m := make(map[string]*entities.Enemy, len(catalog))
	for i := range catalog {
		m[catalog[i].ID] = &catalog[i]
	}
	return m
}()

// Get returns a copy of the enemy template with the given ID
func Get(enemyID string) (*entities.Enemy, error) {
	template, ok := byID[enemyID]
	if !ok {
		return nil, errors.NotFoundf("unknown enemy: %s", enemyID)
	}
	enemy := *template
	return &enemy, nil
}

// List returns all enemy templates
func List() []entities.Enemy {
	out := make([]entities.Enemy, len(catalog))
	copy(out, catalog)
	return out
}
