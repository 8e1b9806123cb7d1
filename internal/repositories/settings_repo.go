package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

const evaluationEmailsKey = "evaluation_emails"

// SettingsRepository stores small JSON documents keyed by name
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{pool: db.Pool}
}

// GetEvaluationEmails returns the configured evaluation recipients, or an
// empty list when the setting has never been saved
func (r *SettingsRepository) GetEvaluationEmails(ctx context.Context) ([]string, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, evaluationEmailsKey).Scan(&raw)
	if err != nil {
		err = database.MapPostgresError(err)
		if errors.Is(err, models.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	var emails []string
	if err := json.Unmarshal(raw, &emails); err != nil {
		return nil, fmt.Errorf("decode %s: %w", evaluationEmailsKey, err)
	}
	if emails == nil {
		emails = []string{}
	}
	return emails, nil
}

func (r *SettingsRepository) SetEvaluationEmails(ctx context.Context, emails []string) error {
	if emails == nil {
		emails = []string{}
	}
	raw, err := json.Marshal(emails)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	_, err = r.pool.Exec(ctx, query, evaluationEmailsKey, raw)
	return database.MapPostgresError(err)
}
