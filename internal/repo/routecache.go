// Package repo contains all database access for the trip budget service.
// The only persistent state this service owns is the route cache — plans and
// locations live in the external plan storage API. No business logic lives
// here, only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kanchai/trip-budget/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RouteCacheRepo persists memoized directions results keyed by the ordered
// stop sequence. Entries are provider output, not domain state — wiping the
// table only costs extra provider calls.
type RouteCacheRepo interface {
	// Get returns the cached legs for a key; ok is false on a miss.
	Get(ctx context.Context, key string) (legs []domain.RouteLeg, ok bool, err error)

	// Put stores the legs for a key, overwriting any previous entry.
	Put(ctx context.Context, key string, legs []domain.RouteLeg) error
}

// pgRouteCacheRepo is the Postgres implementation of RouteCacheRepo.
type pgRouteCacheRepo struct {
	db db
}

// NewRouteCacheRepo constructs a RouteCacheRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewRouteCacheRepo(db db) RouteCacheRepo {
	return &pgRouteCacheRepo{db: db}
}

// Get fetches the cached legs for a stop-sequence key.
func (r *pgRouteCacheRepo) Get(ctx context.Context, key string) ([]domain.RouteLeg, bool, error) {
	const q = `
		SELECT legs
		FROM route_cache
		WHERE stop_key = @stop_key`

	var payload []byte
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"stop_key": key}).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("repo.RouteCacheRepo.Get: %w", err)
	}

	var legs []domain.RouteLeg
	if err := json.Unmarshal(payload, &legs); err != nil {
		return nil, false, fmt.Errorf("repo.RouteCacheRepo.Get: unmarshal: %w", err)
	}
	return legs, true, nil
}

// Put upserts the legs for a stop-sequence key.
func (r *pgRouteCacheRepo) Put(ctx context.Context, key string, legs []domain.RouteLeg) error {
	payload, err := json.Marshal(legs)
	if err != nil {
		return fmt.Errorf("repo.RouteCacheRepo.Put: marshal: %w", err)
	}

	const q = `
		INSERT INTO route_cache (stop_key, legs)
		VALUES (@stop_key, @legs)
		ON CONFLICT (stop_key) DO UPDATE
		SET legs = EXCLUDED.legs, updated_at = now()`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"stop_key": key, "legs": payload}); err != nil {
		return fmt.Errorf("repo.RouteCacheRepo.Put: %w", err)
	}
	return nil
}
