package handler

import (
	"go-fabshop/internal/bom"
	"go-fabshop/internal/model"
	"go-fabshop/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BOMHandler struct {
	service service.BOMService
}

func NewBOMHandler(s service.BOMService) *BOMHandler {
	return &BOMHandler{service: s}
}

func (h *BOMHandler) GetTemplates(c *fiber.Ctx) error {
	templates, err := h.service.GetTemplates(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(templates)
}

func (h *BOMHandler) GetTemplate(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	template, err := h.service.GetTemplate(getTenantID(c), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Template not found"})
	}
	return c.JSON(template)
}

func (h *BOMHandler) CreateTemplate(c *fiber.Ctx) error {
	var template model.ServiceBOMTemplate
	if err := c.BodyParser(&template); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateTemplate(getTenantID(c), &template, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Template created", "data": template})
}

func (h *BOMHandler) UpdateTemplate(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var template model.ServiceBOMTemplate
	if err := c.BodyParser(&template); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateTemplate(getTenantID(c), id, &template, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Template updated", "data": updated})
}

func (h *BOMHandler) DeleteTemplate(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	if err := h.service.DeleteTemplate(getTenantID(c), id); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Template deleted"})
}

type previewRequest struct {
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Area      *float64 `json:"area"`
	Perimeter *float64 `json:"perimeter"`
}

// Preview computes the template's requirements for ad-hoc measurements
// without creating reservations.
func (h *BOMHandler) Preview(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var req previewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	requirements, err := h.service.Preview(getTenantID(c), id, bom.Measurements{
		Width:     req.Width,
		Height:    req.Height,
		Area:      req.Area,
		Perimeter: req.Perimeter,
	})
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(requirements)
}
