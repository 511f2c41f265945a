package inventory

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	redisclient "github.com/habitquest/combat-api/internal/redis"
)

const (
	itemKeyPrefix        = "inventory:"
	characterIndexPrefix = "inventory:character:"

	errItemIDEmpty      = "inventory item ID cannot be empty"
	errCharacterIDEmpty = "character ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis inventory repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed inventory repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errItemIDEmpty)
	}

	data, err := r.client.Get(ctx, itemKeyPrefix+input.ID).Result()
	if err == redis.Nil {
		return nil, errors.NotFoundf("inventory item %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get inventory item")
	}

	var item entities.InventoryItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal inventory item")
	}

	return &GetOutput{Item: &item}, nil
}

func (r *redisRepository) ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, characterIndexPrefix+input.CharacterID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list inventory index")
	}

	items := make([]entities.InventoryItem, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if errors.IsNotFound(err) {
			// index may lag a removal; skip
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, *out.Item)
	}

	return &ListByCharacterOutput{Items: items}, nil
}

func (r *redisRepository) SaveMany(ctx context.Context, input SaveManyInput) (*SaveManyOutput, error) {
	if len(input.Items) == 0 {
		return nil, errors.InvalidArgument("at least one item is required")
	}
	for _, item := range input.Items {
		if item == nil || item.ID == "" {
			return nil, errors.InvalidArgument(errItemIDEmpty)
		}
		if item.CharacterID == "" {
			return nil, errors.InvalidArgument(errCharacterIDEmpty)
		}
	}

	pipe := r.client.TxPipeline()
	for _, item := range input.Items {
		key := itemKeyPrefix + item.ID
		indexKey := characterIndexPrefix + item.CharacterID

		// Consumables drained to zero are removed rather than stored
		if item.Quantity <= 0 {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, indexKey, item.ID)
			continue
		}

		data, err := json.Marshal(item)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal inventory item")
		}
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, indexKey, item.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save inventory items")
	}

	return &SaveManyOutput{}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errItemIDEmpty)
	}

	got, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, itemKeyPrefix+input.ID)
	pipe.SRem(ctx, characterIndexPrefix+got.Item.CharacterID, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete inventory item")
	}

	return &DeleteOutput{}, nil
}
