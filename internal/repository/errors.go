package repository

import (
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for a unique index violation.
const uniqueViolation = "23505"

// uniqueConstraintFields maps the partial unique indexes (enforced only
// where deleted_at IS NULL) to the field they protect.
var uniqueConstraintFields = map[string]string{
	"users_email_active_key":     "email",
	"products_name_active_key":   "name",
	"products_slug_active_key":   "slug",
	"categories_name_active_key": "name",
	"categories_slug_active_key": "slug",
}

// translateError converts a store-level unique violation into a conflict
// domain error naming the colliding field. The store's enforcement is the
// authoritative conflict signal; callers doing pre-write scans still rely
// on this backstop under concurrent writes. Other errors pass through
// unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field, ok := uniqueConstraintFields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return model.NewConflictError(field, fmt.Sprintf("An active record already holds this %s", field))
	}
	return err
}

// isDomainError reports whether err already carries a domain error and
// should not be wrapped as an infrastructure failure.
func isDomainError(err error) bool {
	var de *model.DomainError
	return errors.As(err, &de)
}
