// Package tokenstore keeps JWT revocation state and document share links in Redis
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/securitylessons/backend/internal/models"
)

const (
	tokenKeyPrefix = "token:"
	shareKeyPrefix = "share:"

	stateActive  = "active"
	stateRevoked = "revoked"

	// minTTL keeps records of tokens that are already expired for a short while
	minTTL = time.Second
)

// redisStore implements the token and share link stores on top of Redis
type redisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a new Redis backed store
func NewRedisStore(client *redis.Client) *redisStore {
	return &redisStore{
		client: client,
		now:    time.Now,
	}
}

// NewClient creates a Redis client and checks the connection
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Record stores a token as active until it expires
func (s *redisStore) Record(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.setState(ctx, jti, stateActive, expiresAt)
}

// Revoke marks a token as revoked until it expires
func (s *redisStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.setState(ctx, jti, stateRevoked, expiresAt)
}

// IsRevoked reports whether a token is revoked. Unknown tokens count as revoked.
func (s *redisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	state, err := s.client.Get(ctx, tokenKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read token state: %w", err)
	}
	return state != stateActive, nil
}

// PutShare stores a share token pointing at value for ttl
func (s *redisStore) PutShare(ctx context.Context, token, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, shareKeyPrefix+token, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store share token: %w", err)
	}
	return nil
}

// GetShare returns the value of a share token or models.ErrNotFound
func (s *redisStore) GetShare(ctx context.Context, token string) (string, error) {
	value, err := s.client.Get(ctx, shareKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read share token: %w", err)
	}
	return value, nil
}

func (s *redisStore) setState(ctx context.Context, jti, state string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl < minTTL {
		ttl = minTTL
	}
	if err := s.client.Set(ctx, tokenKeyPrefix+jti, state, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token state: %w", err)
	}
	return nil
}
