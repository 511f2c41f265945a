// Package dungeons holds the static dungeon definitions: ordered enemy
// sequences fought without full heal between encounters.
package dungeons

import (
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
)

var catalog = []entities.Dungeon{
	{
		ID:          "forest_depths",
		Name:        "Forest Depths",
		Description: "A short crawl through the overgrown woods.",
		EnemyIDs:    []string{"slime", "goblin", "dire_wolf"},
	},
	{
		ID:          "orc_warcamp",
		Name:        "Orc Warcamp",
		Description: "Raiders and their pet troll.",
		EnemyIDs:    []string{"goblin", "orc_raider", "orc_raider", "cave_troll"},
	},
	{
		ID:          "dragons_barrow",
		Name:        "Dragon's Barrow",
		Description: "The long dark, and what sleeps at the end of it.",
		EnemyIDs:    []string{"dire_wolf", "orc_raider", "cave_troll", "bone_dragon"},
	},
}

var byID = func() map[string]*entities.Dungeon {
	m := make(map[string]*entities.Dungeon, len(catalog))
	for i := range catalog {
		m[catalog[i].ID] = &catalog[i]
	}
	return m
}()

// Get returns the dungeon with the given ID
func Get(dungeonID string) (*entities.Dungeon, error) {
	dungeon, ok := byID[dungeonID]
	if !ok {
		return nil, errors.NotFoundf("unknown dungeon: %s", dungeonID)
	}
	d := *dungeon
	d.EnemyIDs = append([]string(nil), dungeon.EnemyIDs...)
	return &d, nil
}

// List returns all dungeons
func List() []entities.Dungeon {
	out := make([]entities.Dungeon, len(catalog))
	copy(out, catalog)
	return out
}
