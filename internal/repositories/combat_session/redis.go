package combatsession

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/pkg/clock"
	redisclient "github.com/habitquest/combat-api/internal/redis"
)

const (
	// Key pattern: combat:session:{session_id}
	sessionKeyPrefix = "combat:session:"
	// Key pattern: combat:active:{character_id} -> session ID
	activeKeyPrefix = "combat:active:"

	// Abandoned sessions expire rather than blocking the character forever
	defaultTTL = 24 * time.Hour

	errSessionNil       = "session cannot be nil"
	errSessionIDEmpty   = "session ID cannot be empty"
	errCharacterIDEmpty = "character ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
	// TTL bounds a session's lifetime; zero means the default
	TTL time.Duration
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
	ttl    time.Duration
}

// NewRedis creates a new Redis repository for combat sessions
func NewRedis(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    ttl,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Session.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	now := r.clock.Now().Unix()
	input.Session.CreatedAt = now
	input.Session.UpdatedAt = now

	// Claim the guard first; SETNX losing means a session is already
	// active for this character
	activeKey := activeKeyPrefix + input.Session.CharacterID
	claimed, err := r.client.SetNX(ctx, activeKey, input.Session.ID, r.ttl).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to claim active-session guard")
	}
	if !claimed {
		return nil, errors.FailedPreconditionf("character %s already has an active combat session", input.Session.CharacterID).
			WithReason(errors.ReasonCombatAlreadyActive)
	}

	data, err := json.Marshal(input.Session)
	if err != nil {
		// roll the guard back so the character is not locked out
		_ = r.client.Del(ctx, activeKey).Err()
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+input.Session.ID, data, r.ttl).Err(); err != nil {
		_ = r.client.Del(ctx, activeKey).Err()
		return nil, errors.Wrapf(err, "failed to store session")
	}

	return &CreateOutput{Session: input.Session}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	data, err := r.client.Get(ctx, sessionKeyPrefix+input.ID).Result()
	if err == redis.Nil {
		return nil, errors.NotFoundf("combat session %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get session")
	}

	var session entities.CombatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	return &GetOutput{Session: &session}, nil
}

func (r *redisRepository) GetActiveByCharacter(ctx context.Context, input GetActiveByCharacterInput) (*GetActiveByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	sessionID, err := r.client.Get(ctx, activeKeyPrefix+input.CharacterID).Result()
	if err == redis.Nil {
		return nil, errors.NotFoundf("character %s has no active combat session", input.CharacterID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up active session")
	}

	out, err := r.Get(ctx, GetInput{ID: sessionID})
	if err != nil {
		return nil, err
	}

	return &GetActiveByCharacterOutput{Session: out.Session}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := sessionKeyPrefix + input.Session.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("combat session %s not found", input.Session.ID)
	}

	input.Session.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update session")
	}

	return &UpdateOutput{Session: input.Session}, nil
}

func (r *redisRepository) Close(ctx context.Context, input CloseInput) (*CloseOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	got, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+input.ID)
	pipe.Del(ctx, activeKeyPrefix+got.Session.CharacterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to close session")
	}

	return &CloseOutput{}, nil
}
