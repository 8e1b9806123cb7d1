package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

// CredentialRepository stores admin credentials
type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(db *database.DB) *CredentialRepository {
	return &CredentialRepository{pool: db.Pool}
}

// Count returns the number of stored admin credentials
func (r *CredentialRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*models.Credential, error) {
	query := `SELECT id, username, password_hash, salt, created_at FROM admins WHERE username = $1`

	var c models.Credential
	err := r.pool.QueryRow(ctx, query, username).Scan(&c.ID, &c.Username, &c.PasswordHash, &c.Salt, &c.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &c, nil
}

// CreateBootstrap inserts the first credential only while the table is empty.
// It returns created=false when another credential already exists, so a
// retried bootstrap login never produces a second row.
func (r *CredentialRepository) CreateBootstrap(ctx context.Context, cred *models.Credential) (*models.Credential, bool, error) {
	query := `
		INSERT INTO admins (username, password_hash, salt)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (SELECT 1 FROM admins)
		ON CONFLICT (username) DO NOTHING
		RETURNING id, created_at
	`

	created := *cred
	err := r.pool.QueryRow(ctx, query, cred.Username, cred.PasswordHash, cred.Salt).Scan(&created.ID, &created.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, database.MapPostgresError(err)
	}
	return &created, true, nil
}
