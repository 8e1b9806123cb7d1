package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

// IdempotencyRepository stores submission idempotency keys
type IdempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(db *database.DB) *IdempotencyRepository {
	return &IdempotencyRepository{pool: db.Pool}
}

// Claim atomically takes ownership of key. The insert succeeds when the key is
// new or when it is still processing with an expired lease; any other state
// is reported from the existing row.
func (r *IdempotencyRepository) Claim(ctx context.Context, key string, now, leaseUntil time.Time) (models.ClaimOutcome, error) {
	query := `
		INSERT INTO idempotency_keys (key, status, created_at, lease_expires_at)
		VALUES ($1, 'processing', $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET status = 'processing',
		    created_at = EXCLUDED.created_at,
		    lease_expires_at = EXCLUDED.lease_expires_at,
		    completed_at = NULL
		WHERE idempotency_keys.status = 'processing'
		  AND idempotency_keys.lease_expires_at <= EXCLUDED.created_at
		RETURNING key
	`

	var claimed string
	err := r.pool.QueryRow(ctx, query, key, now, leaseUntil).Scan(&claimed)
	if err == nil {
		return models.ClaimAcquired, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.ClaimInProgress, database.MapPostgresError(err)
	}

	var status string
	err = r.pool.QueryRow(ctx, `SELECT status FROM idempotency_keys WHERE key = $1`, key).Scan(&status)
	if err != nil {
		return models.ClaimInProgress, database.MapPostgresError(err)
	}
	if status == models.IdempotencySuccess {
		return models.ClaimAlreadySucceeded, nil
	}
	return models.ClaimInProgress, nil
}

// Release ends the lease on a processing key so a retry can claim it again.
// The status stays processing.
func (r *IdempotencyRepository) Release(ctx context.Context, key string, now time.Time) error {
	query := `
		UPDATE idempotency_keys
		SET lease_expires_at = $2
		WHERE key = $1 AND status = 'processing'
	`
	_, err := r.pool.Exec(ctx, query, key, now)
	return database.MapPostgresError(err)
}

// MarkSuccess finalizes the key
func (r *IdempotencyRepository) MarkSuccess(ctx context.Context, key string, completedAt time.Time) error {
	query := `
		UPDATE idempotency_keys
		SET status = 'success', completed_at = $2
		WHERE key = $1
	`
	_, err := r.pool.Exec(ctx, query, key, completedAt)
	return database.MapPostgresError(err)
}
