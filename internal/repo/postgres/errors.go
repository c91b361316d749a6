package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateIdentity marks a uniqueness violation on username or email.
// Callers can recover by prompting for different values; anything else from
// the store is a plain storage failure.
var ErrDuplicateIdentity = errors.New("username or email already exists")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
