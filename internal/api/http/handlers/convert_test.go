package handlers

import (
	"encoding/json"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/domain"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

func TestBookingCreateInputIgnoresServerAssignedFields(t *testing.T) {
	var req dto.BookingCreateRequest
	body := `{"client_name":"Ana","phone":"123","duration":60,"status":"confirmed","payment_status":"completed","booking_id":"APPT-HACKED00"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NoError(t, dto.Validate(req))

	in := bookingCreateInput(req)
	assert.Equal(t, 60, in.Duration)
	assert.Equal(t, "Ana", in.ClientName)
}

func TestBookingPatch(t *testing.T) {
	var req dto.BookingUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"confirmed","service_type":null,"start_time":"10:00"}`), &req))
	require.NoError(t, dto.Validate(req))

	patch, err := bookingPatch(req)
	require.NoError(t, err)
	require.NotNil(t, patch.Status)
	assert.Equal(t, domain.BookingStatusConfirmed, *patch.Status)
	assert.True(t, patch.ServiceTypeID.Set)
	assert.Nil(t, patch.ServiceTypeID.Value)
	assert.False(t, patch.Message.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"service_type":"not-a-uuid"}`), &req))
	_, err = bookingPatch(req)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Contains(t, de.Details, "service_type")
}

func TestBookingFilterSplitsStatusLists(t *testing.T) {
	filter := bookingFilter(dto.BookingListQuery{Status: "pending, confirmed,,", PaymentStatus: "unpaid", Page: 2})

	assert.Equal(t, []domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed}, filter.Statuses)
	assert.Equal(t, []domain.PaymentStatus{domain.PaymentStatusUnpaid}, filter.PaymentStatuses)
	assert.Nil(t, filter.ServiceTypeID)
	assert.Equal(t, 2, filter.Pagination.Page)
}

func TestUserPatchRejectsMalformedRole(t *testing.T) {
	var req dto.UserUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"roles":"nope"}`), &req))

	_, err := userPatch(req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	require.NoError(t, json.Unmarshal([]byte(`{"roles":null}`), &req))
	patch, err := userPatch(req)
	require.NoError(t, err)
	assert.True(t, patch.RoleID.Set)
	assert.Nil(t, patch.RoleID.Value)
}

func TestDTOPackageDoesNotImportService(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "dto", "*.go"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	fset := token.NewFileSet()
	for _, file := range files {
		f, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			assert.NotEqual(t, "github.com/spec-kit/booking-service/internal/service", path, file)
		}
	}
}
