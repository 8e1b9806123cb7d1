package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

// SessionRepository stores admin bearer sessions
type SessionRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db, pool: db.Pool}
}

// CreateForLogin clears the login attempt record of the source address and
// stores the new session in a single transaction
func (r *SessionRepository) CreateForLogin(ctx context.Context, session *models.Session) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM login_attempts WHERE ip = $1`, session.SourceAddress); err != nil {
			return database.MapPostgresError(err)
		}

		query := `
			INSERT INTO admin_sessions (token, admin_id, expires_at, ip_address)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.Exec(ctx, query, session.Token, session.CredentialID, session.ExpiresAt, session.SourceAddress); err != nil {
			return database.MapPostgresError(err)
		}
		return nil
	})
}

// GetValid returns the session for token if it has not expired at now.
// Expired and unknown tokens both yield models.ErrNotFound.
func (r *SessionRepository) GetValid(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	query := `
		SELECT token, admin_id, expires_at, ip_address, created_at
		FROM admin_sessions
		WHERE token = $1 AND expires_at > $2
	`

	var s models.Session
	err := r.pool.QueryRow(ctx, query, token, now).Scan(&s.Token, &s.CredentialID, &s.ExpiresAt, &s.SourceAddress, &s.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}
