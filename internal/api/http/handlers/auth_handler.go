package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/service"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// AuthHandler exposes login, token and sign-up endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh handles POST /token/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	access, _, err := h.auth.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(dto.AccessResponse{Access: access})
}

// Verify handles POST /token/verify.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.auth.Verify(c.UserContext(), req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{})
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SignupResponse{
		Message: "User registered successfully.",
		User:    dto.NewUserResponse(user),
	})
}

// Me handles GET /user/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id := callerID(c)
	if id == "" {
		return apperrors.NewAuthenticationFailed("Authentication credentials were not provided.")
	}
	user, err := h.auth.Me(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(user))
}
