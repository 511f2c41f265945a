// Package config loads server configuration from environment variables.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/habitquest/combat-api/internal/errors"
)

// Config holds the server's runtime configuration
type Config struct {
	// Port is the HTTP listen port
	Port int `env:"COMBAT_API_PORT" envDefault:"8080"`
	// RedisAddress is the host:port of the Redis backend
	RedisAddress string `env:"COMBAT_API_REDIS_ADDRESS" envDefault:"localhost:6379"`

	// DefeatGoldPenaltyPercent is the share of carried gold lost on defeat
	DefeatGoldPenaltyPercent int `env:"COMBAT_API_DEFEAT_GOLD_PENALTY_PERCENT" envDefault:"10"`
	// RestCooldown is the minimum time between rests
	RestCooldown time.Duration `env:"COMBAT_API_REST_COOLDOWN" envDefault:"4h"`
	// ResetDungeonOnDefeat wipes a dungeon run when the character falls
	// mid-run instead of keeping it resumable
	ResetDungeonOnDefeat bool `env:"COMBAT_API_RESET_DUNGEON_ON_DEFEAT" envDefault:"true"`
}

// Load parses the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for out-of-range values
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.InvalidArgumentf("port must be 1-65535, got %d", c.Port)
	}
	if c.RedisAddress == "" {
		return errors.InvalidArgument("redis address is required")
	}
	if c.DefeatGoldPenaltyPercent < 0 || c.DefeatGoldPenaltyPercent > 100 {
		return errors.InvalidArgumentf("defeat gold penalty must be 0-100, got %d", c.DefeatGoldPenaltyPercent)
	}
	if c.RestCooldown < 0 {
		return errors.InvalidArgument("rest cooldown cannot be negative")
	}
	return nil
}
