package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/service"
)

// ServiceTypesHandler exposes the service catalog.
type ServiceTypesHandler struct {
	catalog *service.ServiceTypeService
}

// NewServiceTypesHandler constructs handler.
func NewServiceTypesHandler(catalog *service.ServiceTypeService) *ServiceTypesHandler {
	return &ServiceTypesHandler{catalog: catalog}
}

func (h *ServiceTypesHandler) List(c *fiber.Ctx) error {
	items, err := h.catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewServiceTypeResponses(items))
}

func (h *ServiceTypesHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "service type")
	if err != nil {
		return err
	}
	item, err := h.catalog.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewServiceTypeResponse(item))
}

func (h *ServiceTypesHandler) Create(c *fiber.Ctx) error {
	var req dto.CatalogRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.catalog.Create(c.UserContext(), catalogInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewServiceTypeResponse(item))
}

func (h *ServiceTypesHandler) Update(c *fiber.Ctx) error { return h.update(c, true) }

func (h *ServiceTypesHandler) Patch(c *fiber.Ctx) error { return h.update(c, false) }

func (h *ServiceTypesHandler) update(c *fiber.Ctx, full bool) error {
	id, err := pathID(c, "service type")
	if err != nil {
		return err
	}
	var req dto.CatalogRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.catalog.Update(c.UserContext(), id, catalogInput(req), full)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewServiceTypeResponse(item))
}

func (h *ServiceTypesHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "service type")
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RolesHandler exposes staff role management.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

func (h *RolesHandler) List(c *fiber.Ctx) error {
	items, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoleResponses(items))
}

func (h *RolesHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "role")
	if err != nil {
		return err
	}
	item, err := h.roles.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoleResponse(item))
}

func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var req dto.CatalogRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.roles.Create(c.UserContext(), catalogInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRoleResponse(item))
}

func (h *RolesHandler) Update(c *fiber.Ctx) error { return h.update(c, true) }

func (h *RolesHandler) Patch(c *fiber.Ctx) error { return h.update(c, false) }

func (h *RolesHandler) update(c *fiber.Ctx, full bool) error {
	id, err := pathID(c, "role")
	if err != nil {
		return err
	}
	var req dto.CatalogRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.roles.Update(c.UserContext(), id, catalogInput(req), full)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoleResponse(item))
}

func (h *RolesHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "role")
	if err != nil {
		return err
	}
	if err := h.roles.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
