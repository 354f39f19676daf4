package postgres

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"talentboard/internal/core/apperror"
)

// PostgreSQL error codes the repositories react to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeQueryCanceled       = "57014"
	classDataException      = "22"
	classConnection         = "08"
	classResources          = "53"
	classOperatorIntervened = "57"
)

// MapError converts a pgx error into the AppError taxonomy. AppErrors and nil
// pass through unchanged. The original error is always kept as the cause.
func MapError(op string, err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.NewTimeout(op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return apperror.NewConflict("unique constraint violated").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgErr.Code == codeForeignKeyViolation:
			return apperror.NewConflict("referenced by other records").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgErr.Code == codeQueryCanceled:
			return apperror.NewTimeout(op, err)
		case strings.HasPrefix(pgErr.Code, classDataException):
			return apperror.NewValidation("value rejected by the store").
				WithDetail("column", pgErr.ColumnName).
				WithCause(err)
		case strings.HasPrefix(pgErr.Code, classConnection),
			strings.HasPrefix(pgErr.Code, classResources),
			strings.HasPrefix(pgErr.Code, classOperatorIntervened):
			return apperror.NewStoreUnavailable(op, err)
		}
		return apperror.NewInternal(err).WithDetail("operation", op)
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return apperror.NewStoreUnavailable(op, err)
	}

	return apperror.NewInternal(err).WithDetail("operation", op)
}
