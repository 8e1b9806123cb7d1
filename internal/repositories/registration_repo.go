package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/models"
)

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const registrationColumns = `
	id, uid, full_name, birth_date, birth_place, address, wilaya, phone,
	facebook_link, education_level, specialization, has_volunteered_before,
	previous_volunteering_details, selected_cell, agrees_to_fee, ip_address, timestamp
`

func scanRegistrationRow(scanner rowScanner) (*models.Registration, error) {
	var reg models.Registration
	err := scanner.Scan(
		&reg.ID, &reg.UID, &reg.FullName, &reg.BirthDate, &reg.BirthPlace,
		&reg.Address, &reg.Wilaya, &reg.Phone, &reg.FacebookLink,
		&reg.EducationLevel, &reg.Specialization, &reg.HasVolunteeredBefore,
		&reg.PreviousVolunteeringDetails, &reg.SelectedCell, &reg.AgreesToFee,
		&reg.SourceAddress, &reg.Timestamp,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &reg, nil
}

func scanRegistrationRows(rows pgx.Rows) ([]*models.Registration, error) {
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistrationRow(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return registrations, nil
}

// Create stores a registration and fills in its generated ID
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (
			uid, full_name, birth_date, birth_place, address, wilaya, phone,
			facebook_link, education_level, specialization, has_volunteered_before,
			previous_volunteering_details, selected_cell, agrees_to_fee, ip_address, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		reg.UID, reg.FullName, reg.BirthDate, reg.BirthPlace, reg.Address,
		reg.Wilaya, reg.Phone, reg.FacebookLink, reg.EducationLevel,
		reg.Specialization, reg.HasVolunteeredBefore, reg.PreviousVolunteeringDetails,
		reg.SelectedCell, reg.AgreesToFee, reg.SourceAddress, reg.Timestamp,
	).Scan(&reg.ID)
	return database.MapPostgresError(err)
}

// List returns registrations newest first
func (r *RegistrationRepository) List(ctx context.Context, limit, offset int) ([]*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY timestamp DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return scanRegistrationRows(rows)
}
