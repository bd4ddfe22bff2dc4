package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/auth"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// bindJSON decodes the request body into out and validates it.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("JSON parse error", map[string]any{"non_field_errors": err.Error()})
	}
	return dto.Validate(out)
}

// bindQuery decodes query parameters into out and validates them.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return apperrors.NewValidationError("invalid query parameters", map[string]any{"non_field_errors": err.Error()})
	}
	return dto.Validate(out)
}

// pathID returns the :id route parameter. Values that are not UUIDs cannot
// name a row and are reported as not found.
func pathID(c *fiber.Ctx, resource string) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewNotFound(resource, nil)
	}
	return id, nil
}

func callerID(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		return principal.User.ID
	}
	return ""
}
