package storage

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a mutation loses against concurrent state:
// a stale reorder snapshot, a unique-constraint collision on insert, or a
// transaction picked as a deadlock victim. Clients refetch and retry.
var ErrConflict = errors.New("conflict")

// mapRowErr converts driver-level errors into the storage error taxonomy.
func mapRowErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 40P01 deadlock_detected
		switch pgErr.Code {
		case "23505", "40P01":
			return ErrConflict
		}
	}
	return err
}
