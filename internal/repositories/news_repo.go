package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

type NewsRepository struct {
	pool *pgxpool.Pool
}

func NewNewsRepository(db *database.DB) *NewsRepository {
	return &NewsRepository{pool: db.Pool}
}

func scanNewsRow(scanner rowScanner) (*models.News, error) {
	var n models.News
	var imageURL, videoURL *string

	err := scanner.Scan(
		&n.ID, &n.Title, &n.Date, &n.Category, &n.Description,
		&imageURL, &videoURL, &n.MediaURLs, &n.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if imageURL != nil {
		n.ImageURL = *imageURL
	}
	if videoURL != nil {
		n.VideoURL = *videoURL
	}
	if n.MediaURLs == nil {
		n.MediaURLs = []string{}
	}
	return &n, nil
}

func scanNewsRows(rows pgx.Rows) ([]*models.News, error) {
	defer rows.Close()

	items := make([]*models.News, 0)
	for rows.Next() {
		n, err := scanNewsRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return items, nil
}

// List returns news items newest first
func (r *NewsRepository) List(ctx context.Context) ([]*models.News, error) {
	query := `
		SELECT id, title, date, category, description, image_url, video_url, media_urls, created_at
		FROM news
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return scanNewsRows(rows)
}

func (r *NewsRepository) Create(ctx context.Context, n *models.News) error {
	query := `
		INSERT INTO news (title, date, category, description, image_url, video_url, media_urls)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id, created_at
	`

	mediaURLs := n.MediaURLs
	if mediaURLs == nil {
		mediaURLs = []string{}
	}

	err := r.pool.QueryRow(ctx, query,
		n.Title, n.Date, n.Category, n.Description, n.ImageURL, n.VideoURL, mediaURLs,
	).Scan(&n.ID, &n.CreatedAt)
	return database.MapPostgresError(err)
}

// Delete removes a news item, returning models.ErrNotFound when it does not exist
func (r *NewsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
