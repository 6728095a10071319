package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type writeOp int

const (
	opRead writeOp = iota
	opInsert
	opUpdate
	opDelete
)

// translateError folds a pgx error into the apperrors taxonomy.
func translateError(err error, op writeOp, table, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", table, id))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperrors.NewConflictError(fmt.Sprintf("A %s with the same %s already exists", table, uniqueField(pgErr)))
		case "23503": // foreign_key_violation
			if op == opDelete {
				return apperrors.NewDependencyError(fmt.Sprintf("%s %s is still referenced by other records", table, id))
			}
			return apperrors.NewValidationFailedError(fmt.Sprintf("%s references a record that does not exist (%s)", table, pgErr.ConstraintName))
		case "23502", "23514", "22P02": // not_null, check, invalid_text_representation
			return apperrors.NewValidationFailedError(fmt.Sprintf("Invalid %s: %s", table, pgErr.Message))
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTransportError("Gateway call timed out", err)
	}
	return apperrors.NewTransportError(fmt.Sprintf("Gateway call on %s failed", table), err)
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "key"
}
