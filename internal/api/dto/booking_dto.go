package dto

import (
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// BookingCreateRequest is a client booking. booking_id, status and
// payment_status are assigned by the server; values sent for them are ignored.
type BookingCreateRequest struct {
	ClientName      string     `json:"client_name" validate:"required,max=255"`
	Phone           string     `json:"phone" validate:"required,max=20"`
	ServiceType     *string    `json:"service_type" validate:"omitempty,uuid"`
	SessionDateTime *time.Time `json:"session_datetime"`
	StartTime       string     `json:"start_time" validate:"omitempty,clock"`
	EndTime         string     `json:"end_time" validate:"omitempty,clock"`
	Duration        *int       `json:"duration" validate:"required,gt=0"`
	Message         *string    `json:"message"`
}

// BookingUpdateRequest is an admin change. booking_id and phone are
// read-only and ignored.
type BookingUpdateRequest struct {
	ClientName      *string        `json:"client_name" validate:"omitempty,min=1,max=255"`
	ServiceType     NullableString `json:"service_type"`
	SessionDateTime *time.Time     `json:"session_datetime"`
	StartTime       *string        `json:"start_time" validate:"omitempty,clock"`
	EndTime         *string        `json:"end_time" validate:"omitempty,clock"`
	Duration        *int           `json:"duration" validate:"omitempty,gt=0"`
	Message         NullableString `json:"message"`
	Status          *string        `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	PaymentStatus   *string        `json:"payment_status" validate:"omitempty,oneof=pending unpaid completed"`
}

// BookingListQuery holds admin list filters. status and payment_status accept
// comma separated values.
type BookingListQuery struct {
	Status        string `query:"status"`
	PaymentStatus string `query:"payment_status"`
	ServiceType   string `query:"service_type" validate:"omitempty,uuid"`
	Search        string `query:"search"`
	Page          int    `query:"page" validate:"omitempty,gte=1"`
	PageSize      int    `query:"page_size" validate:"omitempty,gte=1"`
}

// BookingResponse renders a booking.
type BookingResponse struct {
	ID string `json:"id"`
	BookingView
}

// BookingView is every public booking field except the internal id.
type BookingView struct {
	BookingID       string    `json:"booking_id"`
	SessionDateTime time.Time `json:"session_datetime"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Duration        int       `json:"duration"`
	ClientName      string    `json:"client_name"`
	Message         *string   `json:"message"`
	ServiceType     *string   `json:"service_type"`
	Phone           string    `json:"phone"`
	PaymentStatus   string    `json:"payment_status"`
	Status          string    `json:"status"`
	ServiceTypeName *string   `json:"service_type_name"`
}

func newBookingView(b *domain.Booking) BookingView {
	return BookingView{
		BookingID:       b.BookingID,
		SessionDateTime: b.SessionDateTime,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Duration:        b.Duration,
		ClientName:      b.ClientName,
		Message:         b.Message,
		ServiceType:     b.ServiceTypeID,
		Phone:           b.Phone,
		PaymentStatus:   string(b.PaymentStatus),
		Status:          string(b.Status),
		ServiceTypeName: b.ServiceTypeName,
	}
}

// NewBookingResponse maps a booking.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{ID: b.ID, BookingView: newBookingView(b)}
}

// NewBookingResponses maps a slice of bookings.
func NewBookingResponses(items []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(items))
	for i := range items {
		out = append(out, NewBookingResponse(&items[i]))
	}
	return out
}

// DashboardResponse is the admin overview.
type DashboardResponse struct {
	TotalUsers    int64         `json:"total_users"`
	TotalBookings int64         `json:"total_bookings"`
	DataBookings  []BookingView `json:"data_bookings"`
}

// NewDashboardResponse maps a dashboard.
func NewDashboardResponse(d *domain.Dashboard) DashboardResponse {
	out := DashboardResponse{
		TotalUsers:    d.TotalUsers,
		TotalBookings: d.TotalBookings,
		DataBookings:  make([]BookingView, 0, len(d.Bookings)),
	}
	for i := range d.Bookings {
		out.DataBookings = append(out.DataBookings, newBookingView(&d.Bookings[i]))
	}
	return out
}
