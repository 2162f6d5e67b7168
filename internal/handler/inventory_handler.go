package handler

import (
	"go-fabshop/internal/model"
	"go-fabshop/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.GetItems(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid stock item ID"})
	}

	item, err := h.service.GetItem(getTenantID(c), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Stock item not found"})
	}
	return c.JSON(item)
}

func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var item model.StockItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateItem(getTenantID(c), &item, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock item created", "data": item})
}

func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid stock item ID"})
	}

	var item model.StockItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateItem(getTenantID(c), id, &item, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Stock item updated", "data": updated})
}

func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var movement model.StockMovement
	if err := c.BodyParser(&movement); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.RecordMovement(getTenantID(c), &movement, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Movement recorded"})
}

func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.service.GetMovements(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}

func (h *InventoryHandler) GetPurchaseSuggestions(c *fiber.Ctx) error {
	suggestions, err := h.service.GetPurchaseSuggestions(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(suggestions)
}
