package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

func detailsOf(t *testing.T, err error) map[string]any {
	t.Helper()
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	require.Equal(t, apperrors.CodeValidation, de.Code)
	return de.Details
}

func TestNullableString(t *testing.T) {
	var req BookingUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"message":null}`), &req))
	assert.True(t, req.Message.Set)
	assert.Nil(t, req.Message.Value)
	assert.False(t, req.ServiceType.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"message":"running late"}`), &req))
	require.NotNil(t, req.Message.Value)
	assert.Equal(t, "running late", *req.Message.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"message":42}`), &req))
}

func TestValidateBookingCreate(t *testing.T) {
	var req BookingCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"phone":"123","duration":0,"start_time":"noon","service_type":"x"}`), &req))

	details := detailsOf(t, Validate(req))
	assert.Equal(t, "This field is required.", details["client_name"])
	assert.Equal(t, "Ensure this value is greater than 0.", details["duration"])
	assert.Contains(t, details, "start_time")
	assert.Equal(t, "Must be a valid UUID.", details["service_type"])
	assert.NotContains(t, details, "phone")
}

func TestValidateBookingCreateMissingDuration(t *testing.T) {
	req := BookingCreateRequest{ClientName: "Ana", Phone: "123"}
	details := detailsOf(t, Validate(req))
	assert.Equal(t, "This field is required.", details["duration"])
}

func TestValidateBookingUpdateRejectsUnknownStatus(t *testing.T) {
	req := BookingUpdateRequest{Status: ptrTo("archived")}
	details := detailsOf(t, Validate(req))
	assert.Contains(t, details["status"], "is not a valid choice.")
}

func TestValidatePasswordReset(t *testing.T) {
	details := detailsOf(t, Validate(PasswordResetChangeRequest{Email: "nope", OTP: "12345"}))
	assert.Equal(t, "Enter a valid email address.", details["email"])
	assert.Equal(t, "Ensure this field has no more than 4 characters.", details["otp"])
	assert.Equal(t, "This field is required.", details["new_password"])

	assert.NoError(t, Validate(PasswordResetVerifyRequest{Email: "a@b.com", OTP: "0427"}))
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("id", "6f1c5f8e-2b7a-4c53-9d0e-3a1b2c4d5e6f"))
	assert.Contains(t, detailsOf(t, ValidateUUID("id", "42")), "id")
}

func ptrTo(s string) *string { return &s }
