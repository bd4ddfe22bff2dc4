package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/service"
)

// PasswordResetHandler exposes the one-time code reset flow.
type PasswordResetHandler struct {
	resets *service.PasswordResetService
}

// NewPasswordResetHandler constructs handler.
func NewPasswordResetHandler(resets *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets}
}

// Request handles POST /password-reset-request.
func (h *PasswordResetHandler) Request(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.resets.RequestReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "OTP sent to email."})
}

// Verify handles POST /password-reset-verify.
func (h *PasswordResetHandler) Verify(c *fiber.Ctx) error {
	var req dto.PasswordResetVerifyRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.resets.VerifyReset(c.UserContext(), req.Email, req.OTP); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "OTP verified successfully."})
}

// Change handles POST /password-reset-change.
func (h *PasswordResetHandler) Change(c *fiber.Ctx) error {
	var req dto.PasswordResetChangeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.resets.CompleteReset(c.UserContext(), req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successfully."})
}
