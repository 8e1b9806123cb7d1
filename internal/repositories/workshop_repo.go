package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

type WorkshopRepository struct {
	pool *pgxpool.Pool
}

func NewWorkshopRepository(db *database.DB) *WorkshopRepository {
	return &WorkshopRepository{pool: db.Pool}
}

func (r *WorkshopRepository) GetByID(ctx context.Context, id string) (*models.Workshop, error) {
	query := `SELECT id, title, instructor, hero_image, questions FROM workshops WHERE id = $1`

	var w models.Workshop
	var questions []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&w.ID, &w.Title, &w.Instructor, &w.HeroImage, &questions)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	w.Questions = questions
	return &w, nil
}
