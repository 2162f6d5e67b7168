package handler

import (
	"go-fabshop/internal/model"
	"go-fabshop/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PipelineHandler struct {
	service service.PipelineService
}

func NewPipelineHandler(s service.PipelineService) *PipelineHandler {
	return &PipelineHandler{service: s}
}

// Leads

func (h *PipelineHandler) GetLeads(c *fiber.Ctx) error {
	leads, err := h.service.GetLeads(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(leads)
}

func (h *PipelineHandler) GetLead(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid lead ID"})
	}
	lead, err := h.service.GetLead(getTenantID(c), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Lead not found"})
	}
	return c.JSON(lead)
}

func (h *PipelineHandler) CreateLead(c *fiber.Ctx) error {
	var lead model.Lead
	if err := c.BodyParser(&lead); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateLead(getTenantID(c), &lead, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Lead created", "data": lead})
}

func (h *PipelineHandler) UpdateLead(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid lead ID"})
	}
	var lead model.Lead
	if err := c.BodyParser(&lead); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	updated, err := h.service.UpdateLead(getTenantID(c), id, &lead, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Lead updated", "data": updated})
}

// Site visits

func (h *PipelineHandler) GetVisits(c *fiber.Ctx) error {
	visits, err := h.service.GetVisits(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(visits)
}

func (h *PipelineHandler) ScheduleVisit(c *fiber.Ctx) error {
	var visit model.SiteVisit
	if err := c.BodyParser(&visit); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.ScheduleVisit(getTenantID(c), &visit, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Visit scheduled", "data": visit})
}

func (h *PipelineHandler) CompleteVisit(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid visit ID"})
	}
	var m service.VisitMeasurements
	if err := c.BodyParser(&m); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	visit, err := h.service.CompleteVisit(getTenantID(c), id, m, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Visit completed", "data": visit})
}

func (h *PipelineHandler) CancelVisit(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid visit ID"})
	}
	if err := h.service.CancelVisit(getTenantID(c), id, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Visit cancelled"})
}

// Quotes

func (h *PipelineHandler) GetQuotes(c *fiber.Ctx) error {
	quotes, err := h.service.GetQuotes(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(quotes)
}

func (h *PipelineHandler) GetQuote(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quote ID"})
	}
	quote, err := h.service.GetQuote(getTenantID(c), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Quote not found"})
	}
	return c.JSON(quote)
}

func (h *PipelineHandler) CreateQuote(c *fiber.Ctx) error {
	var quote model.Quote
	if err := c.BodyParser(&quote); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateQuote(getTenantID(c), &quote, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Quote created", "data": quote})
}

func (h *PipelineHandler) SendQuote(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quote ID"})
	}
	if err := h.service.SendQuote(getTenantID(c), id, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Quote sent"})
}

func (h *PipelineHandler) RejectQuote(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quote ID"})
	}
	if err := h.service.RejectQuote(getTenantID(c), id, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Quote rejected"})
}

// ConvertQuote accepts a quote and creates the order, work order, and (best
// effort) stock reservations.
func (h *PipelineHandler) ConvertQuote(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quote ID"})
	}
	result, err := h.service.ConvertQuote(getTenantID(c), id, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Quote converted to order", "data": result})
}
