package store

import (
	"errors"

	"github.com/fluffle/apiserver/internal/apperr"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqForeignKeyViolation = pq.ErrorCode("23503")
)

// translateConstraint maps structured Postgres constraint violations onto
// the error taxonomy, discriminated by which constraint fired. Other errors
// pass through unchanged.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		switch pqErr.Constraint {
		case "users_username_key":
			return apperr.Conflict("An account with this username is already registered")
		case "users_email_key":
			return apperr.Conflict("An account with this email address is already registered")
		}
		return apperr.Conflict("A record with these details already exists")
	case pqForeignKeyViolation:
		if pqErr.Constraint == "waypoints_animal_id_fkey" {
			return apperr.Validation("Please provide a valid animal id.")
		}
	}
	return err
}
