// Package session tracks logged-out bearer tokens in Valkey. Tokens are
// stateless, so logout records the token ID until the token would have
// expired anyway.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces revocation keys in Valkey to avoid collisions.
const keyPrefix = "revoked:"

// Store manages the token denylist in Valkey.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// NewStore creates a revocation store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// Revoke denies the token ID until expiresAt. Tokens that are already
// expired need no entry.
func (s *Store) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token ID was logged out.
func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session lookup: %w", err)
	}
	return true, nil
}
