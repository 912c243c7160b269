package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes reported as common.ErrorConstraint.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// WrapError wraps a driver error for the service layer. Integrity constraint
// violations match common.ErrorConstraint; anything else is a plain "db error".
func WrapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation:
			if pgErr.Detail != "" {
				return fmt.Errorf("%w: %s (%s)", common.ErrorConstraint, pgErr.Message, pgErr.Detail)
			}
			return fmt.Errorf("%w: %s", common.ErrorConstraint, pgErr.Message)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
