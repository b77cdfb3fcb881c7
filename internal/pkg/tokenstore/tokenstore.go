package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/meetapp/backend/internal/pkg/apperrors"
)

const keyPrefix = "refresh_token:"

// Store keeps refresh tokens in Redis, keyed by the opaque token value.
// A token disappears either when it is rotated out or when its TTL lapses.
type Store struct {
	redis *redis.Client
}

// NewStore creates a new refresh token store
func NewStore(client *redis.Client) *Store {
	return &Store{redis: client}
}

// Save stores a refresh token for a user with the given lifetime
func (s *Store) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	err := s.redis.Set(ctx, keyPrefix+token, userID.String(), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Resolve returns the user a refresh token was issued to. Returns
// apperrors.ErrTokenNotFound for unknown or expired tokens.
func (s *Store) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.redis.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, apperrors.ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt refresh token entry: %w", err)
	}

	return userID, nil
}

// Rotate atomically replaces oldToken with newToken for the same user.
// Returns apperrors.ErrTokenNotFound when oldToken is unknown or expired.
func (s *Store) Rotate(ctx context.Context, oldToken, newToken string, ttl time.Duration) (uuid.UUID, error) {
	userID, err := s.Resolve(ctx, oldToken)
	if err != nil {
		return uuid.Nil, err
	}

	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, keyPrefix+oldToken)
	pipe.Set(ctx, keyPrefix+newToken, userID.String(), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return userID, nil
}

// Revoke removes a refresh token. Revoking an unknown token is a no-op.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
