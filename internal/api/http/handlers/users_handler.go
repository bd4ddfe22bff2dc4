package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/service"
)

// UsersHandler exposes admin account management.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /users. The caller is not listed.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	var q dto.UserListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	users, err := h.users.List(c.UserContext(), callerID(c), userFilter(q))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), userCreateInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	return h.update(c, true)
}

// Patch handles PATCH /users/:id.
func (h *UsersHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *UsersHandler) update(c *fiber.Ctx, full bool) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	patch, err := userPatch(req)
	if err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), id, patch, full)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
