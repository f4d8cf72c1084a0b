package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kanchai/trip-budget/internal/domain"
)

// Store persists selection sessions between requests.
// The handler layer depends on this interface, not the Redis implementation,
// so tests can use miniredis or a mock.
type Store interface {
	// Save writes the whole session and refreshes its TTL.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID.
	// Returns domain.ErrNotFound when the session does not exist or expired.
	Get(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session. Deleting an absent session is a no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisStore keeps sessions in Redis as JSON values with a TTL, so the
// service stays stateless and abandoned sessions disappear on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore. A non-positive ttl falls back to 24h.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id uuid.UUID) string {
	return "tripbudget:session:" + id.String()
}

// Save serializes the session and writes it with the store's TTL.
// Every save refreshes the TTL, so active sessions stay alive.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("selection.RedisStore.Save: marshal: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("selection.RedisStore.Save: %w", err)
	}
	return nil
}

// Get fetches and deserializes a session by ID.
func (r *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("selection.RedisStore.Get: session %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("selection.RedisStore.Get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("selection.RedisStore.Get: unmarshal: %w", err)
	}
	return &s, nil
}

// Delete removes a session key.
func (r *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("selection.RedisStore.Delete: %w", err)
	}
	return nil
}
