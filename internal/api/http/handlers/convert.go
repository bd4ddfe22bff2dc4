package handlers

import (
	"strings"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/service"
)

// Request to service input conversions. dto stays free of service imports.

func bookingCreateInput(r dto.BookingCreateRequest) service.BookingCreateInput {
	in := service.BookingCreateInput{
		ClientName:      r.ClientName,
		Phone:           r.Phone,
		ServiceTypeID:   r.ServiceType,
		SessionDateTime: r.SessionDateTime,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Message:         r.Message,
	}
	if r.Duration != nil {
		in.Duration = *r.Duration
	}
	return in
}

func bookingPatch(r dto.BookingUpdateRequest) (service.BookingPatch, error) {
	if r.ServiceType.Value != nil {
		if err := dto.ValidateUUID("service_type", *r.ServiceType.Value); err != nil {
			return service.BookingPatch{}, err
		}
	}
	patch := service.BookingPatch{
		ClientName:      r.ClientName,
		ServiceTypeID:   nullable(r.ServiceType),
		SessionDateTime: r.SessionDateTime,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Duration:        r.Duration,
		Message:         nullable(r.Message),
	}
	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		patch.Status = &status
	}
	if r.PaymentStatus != nil {
		ps := domain.PaymentStatus(*r.PaymentStatus)
		patch.PaymentStatus = &ps
	}
	return patch, nil
}

// bookingFilter splits the comma separated status lists.
func bookingFilter(q dto.BookingListQuery) service.BookingListFilter {
	filter := service.BookingListFilter{
		Search:     q.Search,
		Pagination: service.Pagination{Page: q.Page, PageSize: q.PageSize},
	}
	for _, s := range splitList(q.Status) {
		filter.Statuses = append(filter.Statuses, domain.BookingStatus(s))
	}
	for _, s := range splitList(q.PaymentStatus) {
		filter.PaymentStatuses = append(filter.PaymentStatuses, domain.PaymentStatus(s))
	}
	if q.ServiceType != "" {
		id := q.ServiceType
		filter.ServiceTypeID = &id
	}
	return filter
}

func catalogInput(r dto.CatalogRequest) service.CatalogInput {
	return service.CatalogInput{
		Name:        r.Name,
		Description: nullable(r.Description),
	}
}

func userCreateInput(r dto.UserCreateRequest) service.UserCreateInput {
	return service.UserCreateInput{
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
		Phone:    r.Phone,
		RoleID:   r.Roles,
		IsActive: r.IsActive,
		IsStaff:  r.IsStaff,
	}
}

func userPatch(r dto.UserUpdateRequest) (service.UserPatch, error) {
	if r.Roles.Value != nil {
		if err := dto.ValidateUUID("roles", *r.Roles.Value); err != nil {
			return service.UserPatch{}, err
		}
	}
	return service.UserPatch{
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
		Phone:    r.Phone,
		RoleID:   nullable(r.Roles),
		IsActive: r.IsActive,
		IsStaff:  r.IsStaff,
	}, nil
}

func userFilter(q dto.UserListQuery) service.UserListFilter {
	return service.UserListFilter{
		IsActive:   q.IsActive,
		Search:     q.Search,
		Pagination: service.Pagination{Page: q.Page, PageSize: q.PageSize},
	}
}

func nullable(v dto.NullableString) service.Nullable[string] {
	return service.Nullable[string]{Set: v.Set, Value: v.Value}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
