package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

// RateLimitRepository stores the last accepted action per (identity, action type)
type RateLimitRepository struct {
	pool *pgxpool.Pool
}

func NewRateLimitRepository(db *database.DB) *RateLimitRepository {
	return &RateLimitRepository{pool: db.Pool}
}

// Get returns the rate limit record, or models.ErrNotFound
func (r *RateLimitRepository) Get(ctx context.Context, identity, actionType string) (*models.RateLimit, error) {
	query := `SELECT uid, type, timestamp FROM rate_limits WHERE uid = $1 AND type = $2`

	var rl models.RateLimit
	err := r.pool.QueryRow(ctx, query, identity, actionType).Scan(&rl.Identity, &rl.ActionType, &rl.Timestamp)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &rl, nil
}

// Touch upserts the action timestamp. The stored timestamp never moves backwards.
func (r *RateLimitRepository) Touch(ctx context.Context, identity, actionType string, at time.Time) error {
	query := `
		INSERT INTO rate_limits (uid, type, timestamp)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid, type) DO UPDATE
		SET timestamp = EXCLUDED.timestamp
		WHERE rate_limits.timestamp < EXCLUDED.timestamp
	`

	_, err := r.pool.Exec(ctx, query, identity, actionType, at)
	return database.MapPostgresError(err)
}
