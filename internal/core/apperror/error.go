// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Every error the query engine and repositories surface to callers is an AppError.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal         = "INTERNAL_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"

	// Caller input errors (400)
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnknownField       = "UNKNOWN_FIELD"
	CodeDisallowedOperator = "DISALLOWED_OPERATOR"
	CodeTypeMismatch       = "TYPE_MISMATCH"
	CodeInvalidPagination  = "INVALID_PAGINATION"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict = "CONFLICT"
)

// AppError is the standard error type of the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details names the offending field, operator, value, entity...
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Caller input errors ---

// NewValidation creates a generic validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnknownField is returned when a client references a field outside the allow-list.
func NewUnknownField(field string) *AppError {
	return &AppError{
		Code:       CodeUnknownField,
		Message:    fmt.Sprintf("unknown field %q", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// NewDisallowedOperator is returned when an operator is not permitted for a field.
func NewDisallowedOperator(field, operator string) *AppError {
	return &AppError{
		Code:       CodeDisallowedOperator,
		Message:    fmt.Sprintf("operator %q is not allowed for field %q", operator, field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "operator": operator},
	}
}

// NewTypeMismatch is returned when a filter value cannot be coerced to the field type.
func NewTypeMismatch(field string, value any) *AppError {
	return &AppError{
		Code:       CodeTypeMismatch,
		Message:    fmt.Sprintf("value %v does not match the type of field %q", value, field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "value": value},
	}
}

// NewInvalidPagination is returned when page/limit are not non-negative integers.
func NewInvalidPagination(param string, value any) *AppError {
	return &AppError{
		Code:       CodeInvalidPagination,
		Message:    fmt.Sprintf("%s must be a non-negative integer", param),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"param": param, "value": value},
	}
}

// --- Expected outcomes ---

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a conflict error for a unique constraint violation (409)
func NewDuplicate(entity, constraint string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    fmt.Sprintf("%s violates unique constraint", entity),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "constraint": constraint},
	}
}

// --- Infrastructure errors ---

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewTimeout is returned when a store call exceeds the caller deadline.
func NewTimeout(op string, err error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("%s timed out", op),
		HTTPStatus: http.StatusGatewayTimeout,
		Details:    map[string]any{"operation": op},
		Err:        err,
	}
}

// NewStoreUnavailable is returned when the document store cannot be reached.
func NewStoreUnavailable(op string, err error) *AppError {
	return &AppError{
		Code:       CodeStoreUnavailable,
		Message:    "document store unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]any{"operation": op},
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsConflict checks if error is CodeConflict
func IsConflict(err error) bool { return HasCode(err, CodeConflict) }

// IsTimeout checks if error is CodeTimeout
func IsTimeout(err error) bool { return HasCode(err, CodeTimeout) }

// IsStoreUnavailable checks if error is CodeStoreUnavailable
func IsStoreUnavailable(err error) bool { return HasCode(err, CodeStoreUnavailable) }

// IsCallerError reports whether err is a caller-input problem that must never be retried.
func IsCallerError(err error) bool {
	appErr, ok := AsAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case CodeValidation, CodeUnknownField, CodeDisallowedOperator, CodeTypeMismatch, CodeInvalidPagination:
		return true
	}
	return false
}
