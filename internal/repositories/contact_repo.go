package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(db *database.DB) *ContactRepository {
	return &ContactRepository{pool: db.Pool}
}

func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, subject, message, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		msg.Name, msg.Email, msg.Subject, msg.Message, msg.SourceAddress, msg.CreatedAt,
	).Scan(&msg.ID)
	return database.MapPostgresError(err)
}
