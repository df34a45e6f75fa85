package quota

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTracker stores the per-day counter in the dart_state table so the
// budget holds across processes and restarts. Rows are created lazily on the
// first reservation of a day and never deleted.
type PostgresTracker struct {
	pool *pgxpool.Pool
	max  int
}

// NewPostgresTracker creates a tracker over an existing pool.
func NewPostgresTracker(pool *pgxpool.Pool, max int) *PostgresTracker {
	return &PostgresTracker{pool: pool, max: max}
}

// Reserve implements Tracker. The guard lives in the UPDATE's WHERE clause,
// so two concurrent callers can never both take the last slot.
func (t *PostgresTracker) Reserve(ctx context.Context, day string) error {
	// Lazy day-row creation, race-safe against concurrent inserts.
	_, err := t.pool.Exec(ctx, `
		INSERT INTO dart_state (date, used_calls)
		VALUES ($1, 0)
		ON CONFLICT (date) DO NOTHING
	`, day)
	if err != nil {
		return fmt.Errorf("failed to initialize quota day %s: %w", day, err)
	}

	var used int
	err = t.pool.QueryRow(ctx, `
		UPDATE dart_state
		   SET used_calls = used_calls + 1
		 WHERE date = $1
		   AND used_calls < $2
		RETURNING used_calls
	`, day, t.max).Scan(&used)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("date=%s max=%d: %w", day, t.max, ErrQuotaExceeded)
	}
	if err != nil {
		return fmt.Errorf("failed to reserve quota slot: %w", err)
	}
	return nil
}

// Release implements Tracker. Clamped at zero so a stray release cannot
// drive the counter below the number of calls actually in flight.
func (t *PostgresTracker) Release(ctx context.Context, day string) error {
	_, err := t.pool.Exec(ctx, `
		UPDATE dart_state
		   SET used_calls = GREATEST(used_calls - 1, 0)
		 WHERE date = $1
	`, day)
	if err != nil {
		return fmt.Errorf("failed to release quota slot: %w", err)
	}
	return nil
}

// Used reports the counter for a day. Missing rows read as zero.
func (t *PostgresTracker) Used(ctx context.Context, day string) (int, error) {
	var used int
	err := t.pool.QueryRow(ctx,
		`SELECT used_calls FROM dart_state WHERE date = $1`, day).Scan(&used)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read quota counter: %w", err)
	}
	return used, nil
}
