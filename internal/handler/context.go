package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull auth context set by the RequireAuth middleware.

func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getTenantID(c *fiber.Ctx) uuid.UUID {
	tenantID := c.Locals("tenant_id")
	if tenantID == nil {
		return uuid.Nil
	}
	return tenantID.(uuid.UUID)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
