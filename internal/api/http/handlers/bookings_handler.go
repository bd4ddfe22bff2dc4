package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/service"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// BookingsHandler exposes the public booking form and admin booking management.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

// CreateForUser handles POST /booking-for-user.
func (h *BookingsHandler) CreateForUser(c *fiber.Ctx) error {
	var req dto.BookingCreateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	booking, err := h.bookings.Create(c.UserContext(), bookingCreateInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewBookingResponse(booking))
}

// MethodNotAllowed answers the verbs /booking-for-user does not support.
func (h *BookingsHandler) MethodNotAllowed(_ *fiber.Ctx) error {
	return apperrors.NewMethodNotAllowed()
}

// List handles GET /bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	var q dto.BookingListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	bookings, err := h.bookings.List(c.UserContext(), bookingFilter(q))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookingResponses(bookings))
}

// Get handles GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "booking")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookingResponse(booking))
}

// Update handles PUT /bookings/:id.
func (h *BookingsHandler) Update(c *fiber.Ctx) error {
	return h.update(c, true)
}

// Patch handles PATCH /bookings/:id.
func (h *BookingsHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *BookingsHandler) update(c *fiber.Ctx, full bool) error {
	id, err := pathID(c, "booking")
	if err != nil {
		return err
	}
	var req dto.BookingUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	patch, err := bookingPatch(req)
	if err != nil {
		return err
	}
	booking, err := h.bookings.Update(c.UserContext(), callerID(c), id, patch, full)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookingResponse(booking))
}

// Delete handles DELETE /bookings/:id.
func (h *BookingsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "booking")
	if err != nil {
		return err
	}
	if err := h.bookings.Delete(c.UserContext(), callerID(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Dashboard handles GET /admin/dashboard.
func (h *BookingsHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.bookings.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDashboardResponse(dashboard))
}
