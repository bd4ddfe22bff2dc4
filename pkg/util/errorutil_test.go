package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	orig := NewForbidden("nope")
	wrapped := fmt.Errorf("handler: %w", orig)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeForbidden, de.Code)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Nil(t, ToDomainError(nil))
}

func TestToDomainErrorNoRows(t *testing.T) {
	de := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainErrorPostgres(t *testing.T) {
	cases := []struct {
		name       string
		pgErr      *pgconn.PgError
		wantCode   string
		wantStatus int
		wantField  string
	}{
		{"unique email", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, CodeConflict, http.StatusConflict, "email"},
		{"unique booking id", &pgconn.PgError{Code: "23505", ConstraintName: "bookings_booking_id_key"}, CodeConflict, http.StatusConflict, "booking_id"},
		{"missing service type", &pgconn.PgError{Code: "23503", ConstraintName: "bookings_service_type_id_fkey"}, CodeValidation, http.StatusBadRequest, "service_type"},
		{"missing role", &pgconn.PgError{Code: "23503", ConstraintName: "users_role_id_fkey"}, CodeValidation, http.StatusBadRequest, "roles"},
		{"duration check", &pgconn.PgError{Code: "23514", ConstraintName: "bookings_duration_check"}, CodeValidation, http.StatusBadRequest, "duration"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(fmt.Errorf("insert: %w", tc.pgErr))
			assert.Equal(t, tc.wantCode, de.Code)
			assert.Equal(t, tc.wantStatus, de.HTTPStatus)
			assert.Contains(t, de.Details, tc.wantField)
			assert.ErrorIs(t, de, tc.pgErr)
		})
	}
}

func TestToDomainErrorUnknown(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)

	de = ToDomainError(&pgconn.PgError{Code: "40001"})
	assert.Equal(t, CodeInternal, de.Code)
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewInvalidOrExpired(), CodeInvalidOrExp))
	assert.False(t, HasCode(NewInvalidOrExpired(), CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestUnknownEmailIsClientError(t *testing.T) {
	de := ToDomainError(NewUnknownEmail("Invalid email address."))
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "Invalid email address.", de.Details["email"])
}

func TestEmailDeliveryFailedWrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewEmailDeliveryFailed(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, ToDomainError(err).HTTPStatus)
}
