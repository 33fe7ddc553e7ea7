package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden access")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("resource conflict") // e.g., username already exists
	ErrValidation   = errors.New("validation failed")
)

// DetailedError pairs one of the sentinel kinds above with the detail
// message that is safe to show to API clients.
type DetailedError struct {
	Kind   error
	Detail string
}

func (e *DetailedError) Error() string { return e.Detail }

func (e *DetailedError) Unwrap() error { return e.Kind }

// NewDetailedError creates a client-facing error of the given kind.
func NewDetailedError(kind error, detail string) *DetailedError {
	return &DetailedError{Kind: kind, Detail: detail}
}

var (
	ErrUsernameTaken         = NewDetailedError(ErrConflict, "Username already exists")
	ErrEmailTaken            = NewDetailedError(ErrConflict, "Email already exists")
	ErrUserNotFound          = NewDetailedError(ErrNotFound, "User not found")
	ErrTaskNotFound          = NewDetailedError(ErrNotFound, "Task not found")
	ErrNotEnoughPermissions  = NewDetailedError(ErrForbidden, "Not enough permissions")
	ErrCredentials           = NewDetailedError(ErrUnauthorized, "Could not validate credentials")
	ErrIncorrectCredentials  = NewDetailedError(ErrBadRequest, "Incorrect email or password")
	ErrInvalidRequestPayload = NewDetailedError(ErrBadRequest, "Invalid request payload")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is returned when request input fails validation.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, strings.Join(f.Loc, ".")+": "+f.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	// Duplicate usernames and emails are reported as plain bad requests.
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrConflict) {
		return http.StatusBadRequest
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == UniqueViolationCode {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// DetailFromError returns the message shown to clients for err. Errors
// without a client-facing detail get a generic message for their status so
// that internal causes never leak.
func DetailFromError(err error) string {
	var detailed *DetailedError
	if errors.As(err, &detailed) {
		return detailed.Detail
	}
	switch HTTPStatusFromError(err) {
	case http.StatusNotFound:
		return "Not found"
	case http.StatusUnauthorized:
		return ErrCredentials.Detail
	case http.StatusForbidden:
		return ErrNotEnoughPermissions.Detail
	case http.StatusBadRequest:
		return "Bad request"
	default:
		return "Internal server error"
	}
}

// UniqueViolationCode is the Postgres SQLSTATE for unique_violation.
const UniqueViolationCode = "23505"

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
