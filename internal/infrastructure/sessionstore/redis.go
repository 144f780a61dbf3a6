// Package sessionstore tracks the single live refresh token per account
// in redis.
package sessionstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"identity-hub/internal/domain"

	"github.com/redis/go-redis/v9"
)

// refreshTokenField is the hash field the refresh token is stored under.
// The key is the account uuid, so one account holds at most one entry.
const refreshTokenField = "REFRESH_TOKEN"

// opTimeout bounds every cache round trip.
const opTimeout = 2 * time.Second

// NewClient creates a redis client from the bootstrapped cache settings.
func NewClient(settings *domain.CacheSettings) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     settings.Host + ":" + strconv.Itoa(settings.Port),
		Password: settings.Password,
		DB:       settings.Database,
	})
}

// RedisStore implements domain.SessionStore on a shared redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the underlying redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Save overwrites the session entry for uuid and sets its TTL to the
// refresh token lifetime. Last write wins under concurrent saves; a lost
// earlier entry means the earlier refresh token is now invalid, which is
// the intended rotation behavior.
func (s *RedisStore) Save(ctx context.Context, uuid, refreshToken string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, uuid, refreshTokenField, refreshToken)
	pipe.Expire(ctx, uuid, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionStoreUnavailable, err)
	}
	return nil
}

// Invalidate deletes the session entry. Deleting an absent entry is not
// an error.
func (s *RedisStore) Invalidate(ctx context.Context, uuid string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.HDel(ctx, uuid, refreshTokenField).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionStoreUnavailable, err)
	}
	return nil
}

// Exists reports whether a live session entry is present for uuid.
func (s *RedisStore) Exists(ctx context.Context, uuid string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	found, err := s.client.HExists(ctx, uuid, refreshTokenField).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrSessionStoreUnavailable, err)
	}
	return found, nil
}

// Get returns the live refresh token for uuid, or an empty string when no
// session entry exists. Store failures are never reported as absence.
func (s *RedisStore) Get(ctx context.Context, uuid string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := s.client.HGet(ctx, uuid, refreshTokenField).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSessionStoreUnavailable, err)
	}
	return val, nil
}
