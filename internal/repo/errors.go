package repo

import (
	"errors"
	"fmt"
	"strings"

	dom "taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// storeError folds a driver failure into a DatabaseError with a fixed, client-safe detail.
func storeError(err error, detail string) error {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		if isConstraintViolation(err) {
			detail += ": constraint violation"
		}
		return dom.DatabaseError(detail, fmt.Errorf("sqlstate %s: %w", pge.Code, err))
	}
	return dom.DatabaseError(detail, err)
}

// lookupError is storeError for statements targeting one row: no rows means NotFound.
func lookupError(err error, id int64, detail string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(id)
	}
	return storeError(err, detail)
}

func notFound(id int64) error {
	return dom.NotFound(fmt.Sprintf("task %d not found", id))
}

// isConstraintViolation reports whether err is a PostgreSQL integrity constraint violation (class 23).
func isConstraintViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return strings.HasPrefix(pge.Code, "23")
	}
	return false
}
