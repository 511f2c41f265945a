package dungeonprogress

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/pkg/clock"
	redisclient "github.com/habitquest/combat-api/internal/redis"
)

const (
	// Key pattern: dungeon:progress:{character_id}:{dungeon_id}
	progressKeyPrefix = "dungeon:progress:"
	// Key pattern: dungeon:active:{character_id} -> dungeon ID
	activeKeyPrefix = "dungeon:active:"

	errProgressNil      = "progress cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
	errDungeonIDEmpty   = "dungeon ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedis creates a new Redis repository for dungeon progress
func NewRedis(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) buildKey(characterID, dungeonID string) string {
	return fmt.Sprintf("%s%s:%s", progressKeyPrefix, characterID, dungeonID)
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument(errDungeonIDEmpty)
	}

	data, err := r.client.Get(ctx, r.buildKey(input.CharacterID, input.DungeonID)).Result()
	if err == redis.Nil {
		return nil, errors.NotFoundf("no progress for character %s in dungeon %s", input.CharacterID, input.DungeonID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get progress")
	}

	var progress entities.DungeonProgress
	if err := json.Unmarshal([]byte(data), &progress); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal progress")
	}

	return &GetOutput{Progress: &progress}, nil
}

func (r *redisRepository) GetActiveRun(ctx context.Context, input GetActiveRunInput) (*GetActiveRunOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	dungeonID, err := r.client.Get(ctx, activeKeyPrefix+input.CharacterID).Result()
	if err == redis.Nil {
		return nil, errors.NotFoundf("character %s has no dungeon run in progress", input.CharacterID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up active run")
	}

	return &GetActiveRunOutput{DungeonID: dungeonID}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Progress == nil {
		return nil, errors.InvalidArgument(errProgressNil)
	}
	if input.Progress.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if input.Progress.DungeonID == "" {
		return nil, errors.InvalidArgument(errDungeonIDEmpty)
	}

	input.Progress.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(input.Progress)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal progress")
	}

	activeKey := activeKeyPrefix + input.Progress.CharacterID

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.buildKey(input.Progress.CharacterID, input.Progress.DungeonID), data, 0)
	if input.Progress.InProgress {
		pipe.Set(ctx, activeKey, input.Progress.DungeonID, 0)
	} else {
		pipe.Del(ctx, activeKey)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save progress")
	}

	return &SaveOutput{Progress: input.Progress}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument(errDungeonIDEmpty)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.buildKey(input.CharacterID, input.DungeonID))
	pipe.Del(ctx, activeKeyPrefix+input.CharacterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete progress")
	}

	return &DeleteOutput{}, nil
}
