package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error codes rendered to clients.
const (
	CodeValidation     = "VALIDATION_FAILED"
	CodeAuthentication = "AUTHENTICATION_FAILED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidOrExp   = "INVALID_OR_EXPIRED"
	CodeConflict       = "CONFLICT"
	CodeRateLimited    = "RATE_LIMITED"
	CodeEmailDelivery  = "EMAIL_DELIVERY_FAILED"
	CodeMethodNotAllow = "METHOD_NOT_ALLOWED"
	CodeInternal       = "INTERNAL_ERROR"
)

// Postgres SQLSTATE values translated by ToDomainError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewFieldError is a validation error about a single field.
func NewFieldError(field, message string) error {
	return NewValidationError(message, map[string]any{field: message})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewUnknownEmail reports an email with no matching account in the password reset flow.
// It is a client error (400) rather than a missing resource route.
func NewUnknownEmail(message string) error {
	return NewDomainError(CodeNotFound, message, http.StatusBadRequest, map[string]any{"email": message})
}

// NewInvalidOrExpired reports a one-time code that does not match or has lapsed.
func NewInvalidOrExpired() error {
	const msg = "OTP is invalid or expired."
	return NewDomainError(CodeInvalidOrExp, msg, http.StatusBadRequest, map[string]any{"otp": msg})
}

func NewAuthenticationFailed(message string) error {
	return NewDomainError(CodeAuthentication, message, http.StatusUnauthorized, nil)
}

func NewUnauthorized(message string) error {
	return NewAuthenticationFailed(message)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewRateLimited(message string) error {
	return NewDomainError(CodeRateLimited, message, http.StatusTooManyRequests, nil)
}

func NewEmailDeliveryFailed(err error) error {
	return &DomainError{
		Code:       CodeEmailDelivery,
		Message:    "could not deliver email",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewMethodNotAllowed() error {
	return NewDomainError(CodeMethodNotAllow, "Method not allowed.", http.StatusMethodNotAllowed, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if de := fromPgError(pgErr); de != nil {
			return de
		}
	}
	return NewInternalError(err).(*DomainError)
}

func fromPgError(pgErr *pgconn.PgError) *DomainError {
	field := constraintField(pgErr.ConstraintName)
	switch pgErr.Code {
	case pgUniqueViolation:
		msg := "a record with this value already exists"
		if field != "" {
			msg = fmt.Sprintf("a record with this %s already exists", field)
		}
		return &DomainError{
			Code:       CodeConflict,
			Message:    msg,
			HTTPStatus: http.StatusConflict,
			Details:    fieldDetails(field, msg),
			Err:        pgErr,
		}
	case pgForeignKeyViolation:
		msg := "referenced record does not exist"
		return &DomainError{
			Code:       CodeValidation,
			Message:    msg,
			HTTPStatus: http.StatusBadRequest,
			Details:    fieldDetails(field, msg),
			Err:        pgErr,
		}
	case pgCheckViolation:
		msg := "value violates a constraint"
		return &DomainError{
			Code:       CodeValidation,
			Message:    msg,
			HTTPStatus: http.StatusBadRequest,
			Details:    fieldDetails(field, msg),
			Err:        pgErr,
		}
	}
	return nil
}

// constraintField maps constraint names from the migrations to API field names.
func constraintField(constraint string) string {
	switch constraint {
	case "users_email_key":
		return "email"
	case "users_username_key":
		return "username"
	case "bookings_booking_id_key":
		return "booking_id"
	case "bookings_service_type_id_fkey":
		return "service_type"
	case "bookings_duration_check":
		return "duration"
	case "bookings_status_check":
		return "status"
	case "bookings_payment_status_check":
		return "payment_status"
	case "users_role_id_fkey":
		return "roles"
	case "roles_name_key", "service_types_name_key":
		return "name"
	}
	return ""
}

func fieldDetails(field, msg string) map[string]any {
	if field == "" {
		return nil
	}
	return map[string]any{field: msg}
}

// MapError converts err into a DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
