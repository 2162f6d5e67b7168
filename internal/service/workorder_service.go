package service

import (
	"errors"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUnknownStage  = errors.New("unknown work order stage")
)

// WorkOrderService exposes shop-floor execution: stage updates, team
// assignment, completion, and order cancellation. Completion and cancellation
// route through the reservation ledger so stock counters stay in its hands.
type WorkOrderService interface {
	GetWorkOrders(tenantID uuid.UUID) ([]model.WorkOrder, error)
	GetWorkOrder(tenantID, id uuid.UUID) (*model.WorkOrder, error)
	// UpdateStage sets any production stage. Transitions are not validated:
	// skipping or regressing stages is allowed. Setting FINISHED goes through
	// Complete so stock is consumed.
	UpdateStage(tenantID, id uuid.UUID, stage model.WorkOrderStage, userID string) (*model.WorkOrder, error)
	AssignTeam(tenantID, id uuid.UUID, team, userID string) (*model.WorkOrder, error)
	Complete(tenantID, id uuid.UUID, userID string) (*ConsumeResult, error)

	GetOrders(tenantID uuid.UUID) ([]model.Order, error)
	GetOrder(tenantID, id uuid.UUID) (*model.Order, error)
	CancelOrder(tenantID, id uuid.UUID, userID string) error

	GetWarranties(tenantID uuid.UUID) ([]model.Warranty, error)
	GetWarrantiesByOrder(tenantID, orderID uuid.UUID) ([]model.Warranty, error)
}

type workOrderService struct {
	workOrderRepo repository.WorkOrderRepository
	orderRepo     repository.OrderRepository
	warrantyRepo  repository.WarrantyRepository
	reservations  ReservationService
	db            *gorm.DB
}

func NewWorkOrderService(
	workOrderRepo repository.WorkOrderRepository,
	orderRepo repository.OrderRepository,
	warrantyRepo repository.WarrantyRepository,
	reservations ReservationService,
	db *gorm.DB,
) WorkOrderService {
	return &workOrderService{
		workOrderRepo: workOrderRepo,
		orderRepo:     orderRepo,
		warrantyRepo:  warrantyRepo,
		reservations:  reservations,
		db:            db,
	}
}

func (s *workOrderService) GetWorkOrders(tenantID uuid.UUID) ([]model.WorkOrder, error) {
	return s.workOrderRepo.FindAll(tenantID)
}

func (s *workOrderService) GetWorkOrder(tenantID, id uuid.UUID) (*model.WorkOrder, error) {
	workOrder, err := s.workOrderRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrWorkOrderNotFound
	}
	return workOrder, nil
}

func validStage(stage model.WorkOrderStage) bool {
	for _, known := range model.WorkOrderStages {
		if stage == known {
			return true
		}
	}
	return false
}

func (s *workOrderService) UpdateStage(tenantID, id uuid.UUID, stage model.WorkOrderStage, userID string) (*model.WorkOrder, error) {
	if !validStage(stage) {
		return nil, ErrUnknownStage
	}
	if stage == model.StageFinished {
		result, err := s.Complete(tenantID, id, userID)
		if err != nil {
			return nil, err
		}
		return result.WorkOrder, nil
	}

	workOrder, err := s.workOrderRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrWorkOrderNotFound
	}
	if workOrder.Stage == model.StageFinished {
		return nil, ErrWorkOrderFinished
	}

	workOrder.Stage = stage
	workOrder.UpdatedBy = userID
	if err := s.workOrderRepo.Update(workOrder); err != nil {
		return nil, err
	}
	return workOrder, nil
}

func (s *workOrderService) AssignTeam(tenantID, id uuid.UUID, team, userID string) (*model.WorkOrder, error) {
	workOrder, err := s.workOrderRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrWorkOrderNotFound
	}
	workOrder.Team = team
	workOrder.UpdatedBy = userID
	if err := s.workOrderRepo.Update(workOrder); err != nil {
		return nil, err
	}
	return workOrder, nil
}

func (s *workOrderService) Complete(tenantID, id uuid.UUID, userID string) (*ConsumeResult, error) {
	return s.reservations.Consume(tenantID, id, userID)
}

func (s *workOrderService) GetOrders(tenantID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.FindAll(tenantID)
}

func (s *workOrderService) GetOrder(tenantID, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder marks the order CANCELLED and releases any open reservations on
// its work orders back to availability.
func (s *workOrderService) CancelOrder(tenantID, id uuid.UUID, userID string) error {
	order, err := s.orderRepo.FindByID(tenantID, id)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.Status != model.OrderInProduction {
		return ErrOrderNotCancelable
	}

	if err := s.orderRepo.UpdateStatus(nil, tenantID, id, model.OrderCancelled, userID); err != nil {
		return err
	}

	workOrders, err := s.workOrderRepo.FindByOrder(tenantID, id)
	if err != nil {
		return err
	}
	for _, workOrder := range workOrders {
		if err := s.reservations.Release(tenantID, workOrder.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (s *workOrderService) GetWarranties(tenantID uuid.UUID) ([]model.Warranty, error) {
	return s.warrantyRepo.FindAll(tenantID)
}

func (s *workOrderService) GetWarrantiesByOrder(tenantID, orderID uuid.UUID) ([]model.Warranty, error) {
	return s.warrantyRepo.FindByOrder(tenantID, orderID)
}
