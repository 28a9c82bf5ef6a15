package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate señala una violación de unicidad (email o nombre repetido).
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolationCode = "23505"

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicate
	}
	return err
}
