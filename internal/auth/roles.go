package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// RequireAdmin ensures the caller is a staff account.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewAuthenticationFailed("Authentication credentials were not provided.")
		}
		if !principal.IsAdmin() {
			return apperrors.NewForbidden("You do not have permission to perform this action.")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures the caller is signed in.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewAuthenticationFailed("Authentication credentials were not provided.")
		}
		return c.Next()
	}
}
