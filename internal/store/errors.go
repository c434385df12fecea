package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert violates a unique
	// constraint (token_hash, email). Callers may treat it as
	// "someone else just created it" and re-fetch.
	ErrDuplicateKey = errors.New("duplicate key")
)

const uniqueViolationCode = "23505"

// mapError translates pgx-level errors into the store's sentinel errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicateKey
	}
	return err
}
