package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitquest/combat-api/internal/config"
	"github.com/habitquest/combat-api/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddress)
	assert.Equal(t, 10, cfg.DefeatGoldPenaltyPercent)
	assert.True(t, cfg.ResetDungeonOnDefeat)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COMBAT_API_PORT", "9090")
	t.Setenv("COMBAT_API_REST_COOLDOWN", "30m")
	t.Setenv("COMBAT_API_RESET_DUNGEON_ON_DEFEAT", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "30m0s", cfg.RestCooldown.String())
	assert.False(t, cfg.ResetDungeonOnDefeat)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("COMBAT_API_PORT", "70000")

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestValidatePenaltyRange(t *testing.T) {
	cfg := &config.Config{
		Port:                     8080,
		RedisAddress:             "localhost:6379",
		DefeatGoldPenaltyPercent: 150,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}
