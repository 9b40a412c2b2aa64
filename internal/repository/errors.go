package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound: no book, question or category with the given id.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the write breaks a relation or a key, e.g. a question pointing at a
	// missing category.
	ErrConflict = errors.New("conflict")
	// ErrInvalidValue: a column constraint rejected the value (rating or difficulty
	// outside 1..5, an empty required column). Services validate first, so reaching it
	// means a caller skipped validation.
	ErrInvalidValue = errors.New("value violates a column constraint")
)

// MapPgError folds the Postgres constraint classes the schema can raise into domain errors.
// Anything else passes through unchanged.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation, pgerrcode.UniqueViolation:
		return ErrConflict
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
		return ErrInvalidValue
	}
	return err
}
