package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

const challengeKeyPrefix = "challenge:"

// RedisChallenges keeps challenges in Redis. Expiry is left to the key TTL
// and consumption uses GETDEL, so a challenge can be read at most once even
// across verifier replicas.
type RedisChallenges struct {
	client redis.UniversalClient
	logger *logger.Logger
}

// NewConnectRedis connects to the Redis server in cfg and checks it with PING.
func NewConnectRedis(ctx context.Context, cfg config.Redis, log *logger.Logger) (*RedisChallenges, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewConnectRedis").Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, err
	}
	log.Info().Str("func", "NewConnectRedis").Msg("connected to redis successfully")

	return NewRedisChallenges(client, log), nil
}

// NewRedisChallenges wraps an existing client.
func NewRedisChallenges(client redis.UniversalClient, log *logger.Logger) *RedisChallenges {
	return &RedisChallenges{client: client, logger: log}
}

func (r *RedisChallenges) SaveChallenge(ctx context.Context, c models.Challenge) error {
	ttl := c.ExpiresAt.Sub(c.CreatedAt)
	if ttl <= 0 {
		return ErrExpired
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	ok, err := r.client.SetNX(ctx, challengeKeyPrefix+c.ChallengeID, raw, ttl).Result()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "RedisChallenges.SaveChallenge").Msg("failed to store challenge")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	return nil
}

func (r *RedisChallenges) ConsumeChallenge(ctx context.Context, challengeID string, now time.Time) (models.Challenge, error) {
	raw, err := r.client.GetDel(ctx, challengeKeyPrefix+challengeID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Challenge{}, ErrNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "RedisChallenges.ConsumeChallenge").Msg("failed to consume challenge")
		return models.Challenge{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var c models.Challenge
	if err := json.Unmarshal(raw, &c); err != nil {
		return models.Challenge{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	if c.Expired(now) {
		return models.Challenge{}, ErrExpired
	}
	return c, nil
}

// DeleteExpiredChallenges is a no-op: Redis evicts expired keys itself.
func (r *RedisChallenges) DeleteExpiredChallenges(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// Close closes the underlying client.
func (r *RedisChallenges) Close() error {
	return r.client.Close()
}
