package handler

import (
	"go-fabshop/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	service service.RoleService
}

func NewRoleHandler(s service.RoleService) *RoleHandler {
	return &RoleHandler{service: s}
}

func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.service.GetRoles()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(roles)
}

func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.service.GetPrivileges()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(privileges)
}
