package handler

import (
	"go-fabshop/internal/model"
	"go-fabshop/internal/service"

	"github.com/gofiber/fiber/v2"
)

type WorkOrderHandler struct {
	service      service.WorkOrderService
	reservations service.ReservationService
}

func NewWorkOrderHandler(s service.WorkOrderService, reservations service.ReservationService) *WorkOrderHandler {
	return &WorkOrderHandler{service: s, reservations: reservations}
}

func (h *WorkOrderHandler) GetWorkOrders(c *fiber.Ctx) error {
	workOrders, err := h.service.GetWorkOrders(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(workOrders)
}

func (h *WorkOrderHandler) GetWorkOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid work order ID"})
	}
	workOrder, err := h.service.GetWorkOrder(getTenantID(c), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Work order not found"})
	}
	return c.JSON(workOrder)
}

type stageRequest struct {
	Stage model.WorkOrderStage `json:"stage"`
}

func (h *WorkOrderHandler) UpdateStage(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid work order ID"})
	}
	var req stageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	workOrder, err := h.service.UpdateStage(getTenantID(c), id, req.Stage, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Stage updated", "data": workOrder})
}

type teamRequest struct {
	Team string `json:"team"`
}

func (h *WorkOrderHandler) AssignTeam(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid work order ID"})
	}
	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	workOrder, err := h.service.AssignTeam(getTenantID(c), id, req.Team, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Team assigned", "data": workOrder})
}

// Complete consumes the work order's reservations, closes it and its order,
// and issues the warranty.
func (h *WorkOrderHandler) Complete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid work order ID"})
	}
	result, err := h.service.Complete(getTenantID(c), id, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Work order completed", "data": result})
}

func (h *WorkOrderHandler) GetReservations(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid work order ID"})
	}
	reservations, err := h.reservations.ListByWorkOrder(getTenantID(c), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(reservations)
}

// Orders

func (h *WorkOrderHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrders(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *WorkOrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	order, err := h.service.GetOrder(getTenantID(c), id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(order)
}

func (h *WorkOrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	if err := h.service.CancelOrder(getTenantID(c), id, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Order cancelled"})
}

// Warranties

func (h *WorkOrderHandler) GetWarranties(c *fiber.Ctx) error {
	warranties, err := h.service.GetWarranties(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(warranties)
}

func (h *WorkOrderHandler) GetOrderWarranties(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	warranties, err := h.service.GetWarrantiesByOrder(getTenantID(c), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(warranties)
}
