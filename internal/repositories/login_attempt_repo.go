package repositories

import (
	"context"

	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

// LoginAttemptRepository handles database operations for per-address login failures
type LoginAttemptRepository struct {
	db *database.DB
}

// NewLoginAttemptRepository creates a new LoginAttemptRepository
func NewLoginAttemptRepository(db *database.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

// Get returns the attempt record for a source address, or models.ErrNotFound
func (r *LoginAttemptRepository) Get(ctx context.Context, sourceAddress string) (*models.LoginAttempt, error) {
	query := `SELECT ip, attempts, last_attempt, blocked_until FROM login_attempts WHERE ip = $1`

	var a models.LoginAttempt
	err := r.db.Pool.QueryRow(ctx, query, sourceAddress).Scan(&a.SourceAddress, &a.Attempts, &a.LastAttempt, &a.BlockedUntil)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &a, nil
}

// SaveFailure upserts the failure counter for a source address
func (r *LoginAttemptRepository) SaveFailure(ctx context.Context, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (ip, attempts, last_attempt, blocked_until)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ip) DO UPDATE
		SET attempts = EXCLUDED.attempts,
		    last_attempt = EXCLUDED.last_attempt,
		    blocked_until = EXCLUDED.blocked_until
	`

	_, err := r.db.Pool.Exec(ctx, query,
		attempt.SourceAddress,
		attempt.Attempts,
		attempt.LastAttempt,
		attempt.BlockedUntil,
	)
	return database.MapPostgresError(err)
}
