package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"go-fabshop/internal/bom"
	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
	"go-fabshop/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrWorkOrderNotFound  = errors.New("work order not found")
	ErrWorkOrderFinished  = errors.New("work order already finished")
	ErrNothingToConsume   = errors.New("no open reservations for work order")
	ErrOrderNotCancelable = errors.New("order is not in production")
)

// ReservationService is the only writer of StockItem quantity/reserved
// counters. Reserve books soft holds when an order is created, Consume turns
// them into physical stock decrements when the work order finishes, Release
// cancels them when the order is cancelled. Each operation runs in a single
// database transaction.
type ReservationService interface {
	Reserve(tenantID uuid.UUID, workOrder *model.WorkOrder, template *model.ServiceBOMTemplate, m bom.Measurements, userID string) ([]model.StockReservation, error)
	Consume(tenantID, workOrderID uuid.UUID, userID string) (*ConsumeResult, error)
	Release(tenantID, workOrderID uuid.UUID, userID string) error
	ListByWorkOrder(tenantID, workOrderID uuid.UUID) ([]model.StockReservation, error)
}

// ConsumeResult reports everything a completed work order changed.
type ConsumeResult struct {
	WorkOrder    *model.WorkOrder         `json:"work_order"`
	Reservations []model.StockReservation `json:"reservations"`
	Warranty     *model.Warranty          `json:"warranty"`
}

type reservationService struct {
	stockRepo       repository.StockItemRepository
	reservationRepo repository.ReservationRepository
	workOrderRepo   repository.WorkOrderRepository
	orderRepo       repository.OrderRepository
	warrantyRepo    repository.WarrantyRepository
	db              *gorm.DB
	wsHub           *ws.Hub
}

func NewReservationService(
	stockRepo repository.StockItemRepository,
	reservationRepo repository.ReservationRepository,
	workOrderRepo repository.WorkOrderRepository,
	orderRepo repository.OrderRepository,
	warrantyRepo repository.WarrantyRepository,
	db *gorm.DB,
	hub *ws.Hub,
) ReservationService {
	return &reservationService{
		stockRepo:       stockRepo,
		reservationRepo: reservationRepo,
		workOrderRepo:   workOrderRepo,
		orderRepo:       orderRepo,
		warrantyRepo:    warrantyRepo,
		db:              db,
		wsHub:           hub,
	}
}

// Reserve computes the template's requirements for the measurements and books
// one RESERVED reservation per non-zero requirement, incrementing each item's
// reserved counter. One reservation per template line: duplicate stock items
// across lines are booked separately, not merged.
func (s *reservationService) Reserve(tenantID uuid.UUID, workOrder *model.WorkOrder, template *model.ServiceBOMTemplate, m bom.Measurements, userID string) ([]model.StockReservation, error) {
	requirements := bom.Requirements(template, m)

	var created []model.StockReservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, req := range requirements {
			if req.Quantity <= 0 {
				continue
			}

			var item model.StockItem
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&item, "tenant_id = ? AND id = ?", tenantID, req.StockItemID).Error; err != nil {
				return fmt.Errorf("stock item %s: %w", req.StockItemID, err)
			}

			reservation := model.StockReservation{
				WorkOrderID: workOrder.ID,
				StockItemID: item.ID,
				Quantity:    req.Quantity,
				Status:      model.ReservationReserved,
			}
			reservation.TenantID = tenantID
			reservation.CreatedBy = userID
			reservation.UpdatedBy = userID
			if err := s.reservationRepo.Create(tx, &reservation); err != nil {
				return err
			}

			if err := s.stockRepo.UpdateCounters(tx, tenantID, item.ID, item.Quantity, item.Reserved+req.Quantity, userID); err != nil {
				return err
			}

			created = append(created, reservation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		s.wsHub.PublishStockEvent(ws.StockEvent{
			Type:   "stock_update",
			Action: "stock_reserved",
			Payload: map[string]interface{}{
				"work_order_id": workOrder.ID,
				"reservations":  len(created),
			},
			Message: fmt.Sprintf("%d stock reservations booked for work order %s", len(created), workOrder.ID),
		})
	}

	return created, nil
}

// Consume finishes a work order: every reservation still RESERVED has its
// quantity removed from on-hand stock and released from the reserved counter,
// then the reservation is marked CONSUMED, the work order FINISHED, the owning
// order COMPLETED, and a warranty issued. All of it commits or none of it
// does. Selecting on status RESERVED makes a second call a no-op instead of a
// double decrement.
func (s *reservationService) Consume(tenantID, workOrderID uuid.UUID, userID string) (*ConsumeResult, error) {
	var result ConsumeResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var workOrder model.WorkOrder
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&workOrder, "tenant_id = ? AND id = ?", tenantID, workOrderID).Error; err != nil {
			return ErrWorkOrderNotFound
		}
		if workOrder.Stage == model.StageFinished {
			return ErrWorkOrderFinished
		}

		reservations, err := s.reservationRepo.FindOpenByWorkOrder(tx, tenantID, workOrderID)
		if err != nil {
			return err
		}

		for i := range reservations {
			res := &reservations[i]

			var item model.StockItem
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&item, "tenant_id = ? AND id = ?", tenantID, res.StockItemID).Error; err != nil {
				return fmt.Errorf("stock item %s: %w", res.StockItemID, err)
			}

			newQuantity := item.Quantity - res.Quantity
			newReserved := item.Reserved - res.Quantity
			if newQuantity < 0 {
				// Over-consumption is allowed (counts reconcile out of
				// band) but worth flagging.
				log.Printf("Warning: consuming %.2f of %s drives on-hand to %.2f", res.Quantity, item.SKU, newQuantity)
			}
			if err := s.stockRepo.UpdateCounters(tx, tenantID, item.ID, newQuantity, newReserved, userID); err != nil {
				return err
			}

			if err := s.reservationRepo.UpdateStatus(tx, tenantID, res.ID, model.ReservationConsumed, userID); err != nil {
				return err
			}
			res.Status = model.ReservationConsumed
		}

		now := time.Now()
		workOrder.Stage = model.StageFinished
		workOrder.FinishedAt = &now
		workOrder.UpdatedBy = userID
		if err := s.workOrderRepo.Save(tx, &workOrder); err != nil {
			return err
		}

		if err := s.orderRepo.UpdateStatus(tx, tenantID, workOrder.OrderID, model.OrderCompleted, userID); err != nil {
			return err
		}

		warranty := model.Warranty{
			OrderID:   workOrder.OrderID,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, model.WarrantyDays),
		}
		warranty.TenantID = tenantID
		warranty.CreatedBy = userID
		warranty.UpdatedBy = userID
		if err := s.warrantyRepo.Create(tx, &warranty); err != nil {
			return err
		}

		result = ConsumeResult{
			WorkOrder:    &workOrder,
			Reservations: reservations,
			Warranty:     &warranty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.PublishStockEvent(ws.StockEvent{
		Type:   "stock_update",
		Action: "stock_consumed",
		Payload: map[string]interface{}{
			"work_order_id": workOrderID,
			"reservations":  len(result.Reservations),
		},
		Message: fmt.Sprintf("Work order %s finished, %d reservations consumed", workOrderID, len(result.Reservations)),
	})

	return &result, nil
}

// Release cancels the open reservations of a work order, returning their
// quantities to availability. Used when an order is cancelled before the shop
// floor consumed the material.
func (s *reservationService) Release(tenantID, workOrderID uuid.UUID, userID string) error {
	released := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reservations, err := s.reservationRepo.FindOpenByWorkOrder(tx, tenantID, workOrderID)
		if err != nil {
			return err
		}

		for _, res := range reservations {
			var item model.StockItem
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&item, "tenant_id = ? AND id = ?", tenantID, res.StockItemID).Error; err != nil {
				return fmt.Errorf("stock item %s: %w", res.StockItemID, err)
			}

			if err := s.stockRepo.UpdateCounters(tx, tenantID, item.ID, item.Quantity, item.Reserved-res.Quantity, userID); err != nil {
				return err
			}
			if err := s.reservationRepo.UpdateStatus(tx, tenantID, res.ID, model.ReservationCancelled, userID); err != nil {
				return err
			}
			released++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if released > 0 {
		s.wsHub.PublishStockEvent(ws.StockEvent{
			Type:   "stock_update",
			Action: "reservations_released",
			Payload: map[string]interface{}{
				"work_order_id": workOrderID,
				"reservations":  released,
			},
		})
	}
	return nil
}

func (s *reservationService) ListByWorkOrder(tenantID, workOrderID uuid.UUID) ([]model.StockReservation, error) {
	return s.reservationRepo.FindByWorkOrder(tenantID, workOrderID)
}
