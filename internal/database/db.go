package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shabeb-irshed/portal/internal/models"
)

// MapPostgresError translates driver errors into model sentinels. Errors it
// does not recognize are returned unchanged.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return models.ErrConflict
	case "23502", "23503", "22001": // not_null, foreign_key, string too long
		return models.ErrBadRequest
	case "57014": // query_canceled, raised by statement_timeout
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, pgErr.Message)
	}
	return err
}

// WithTransaction runs fn inside a transaction. It commits when fn returns
// nil and rolls back otherwise, including on panic.
func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, db.Pool, fn)
}
