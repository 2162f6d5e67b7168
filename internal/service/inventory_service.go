package service

import (
	"errors"
	"fmt"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
	"go-fabshop/internal/ws"
	"go-fabshop/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSKUExists         = errors.New("SKU already exists")
	ErrStockItemNotFound = errors.New("stock item not found")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

// StockItemView is a stock item plus its derived display fields.
type StockItemView struct {
	model.StockItem
	Available float64           `json:"available"`
	Health    model.StockHealth `json:"health"`
}

type InventoryService interface {
	CreateItem(tenantID uuid.UUID, req *model.StockItem, userID string) error
	UpdateItem(tenantID, id uuid.UUID, req *model.StockItem, userID string) (*model.StockItem, error)
	GetItems(tenantID uuid.UUID) ([]StockItemView, error)
	GetItem(tenantID, id uuid.UUID) (*StockItemView, error)
	// RecordMovement applies a manual IN/OUT adjustment to on-hand stock and
	// logs it. Reservation bookkeeping never goes through here.
	RecordMovement(tenantID uuid.UUID, req *model.StockMovement, userID string) error
	GetMovements(tenantID uuid.UUID) ([]model.StockMovement, error)
	// GetPurchaseSuggestions proposes replenishment for every active item
	// whose availability fell below its reorder point.
	GetPurchaseSuggestions(tenantID uuid.UUID) ([]model.PurchaseSuggestion, error)
}

type inventoryService struct {
	stockRepo    repository.StockItemRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewInventoryService(stockRepo repository.StockItemRepository, movementRepo repository.StockMovementRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *inventoryService) CreateItem(tenantID uuid.UUID, req *model.StockItem, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.stockRepo.FindBySKU(tenantID, req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	req.TenantID = tenantID
	req.CreatedBy = userID
	req.UpdatedBy = userID
	if err := s.stockRepo.Create(req); err != nil {
		return err
	}

	s.wsHub.PublishStockEvent(ws.StockEvent{
		Type:   "stock_update",
		Action: "item_created",
		Payload: map[string]interface{}{
			"id":   req.ID,
			"sku":  req.SKU,
			"name": req.Name,
		},
	})
	return nil
}

func (s *inventoryService) UpdateItem(tenantID, id uuid.UUID, req *model.StockItem, userID string) (*model.StockItem, error) {
	var updated *model.StockItem

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.StockItem
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&existing, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
			return ErrStockItemNotFound
		}

		existing.SKU = req.SKU
		existing.Name = req.Name
		existing.Category = req.Category
		existing.Unit = req.Unit
		existing.MinLevel = req.MinLevel
		existing.ReorderPoint = req.ReorderPoint
		existing.LeadTimeDays = req.LeadTimeDays
		existing.AvgCost = req.AvgCost
		existing.IsActive = req.IsActive
		existing.UpdatedBy = userID
		// Quantity and Reserved deliberately untouched: the ledger and
		// RecordMovement own the counters.

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.PublishStockEvent(ws.StockEvent{
		Type:   "stock_update",
		Action: "item_updated",
		Payload: map[string]interface{}{
			"id":  updated.ID,
			"sku": updated.SKU,
		},
	})
	return updated, nil
}

func (s *inventoryService) GetItems(tenantID uuid.UUID) ([]StockItemView, error) {
	items, err := s.stockRepo.FindAll(tenantID)
	if err != nil {
		return nil, err
	}
	views := make([]StockItemView, len(items))
	for i, item := range items {
		views[i] = StockItemView{
			StockItem: item,
			Available: item.Available(),
			Health:    item.Health(),
		}
	}
	return views, nil
}

func (s *inventoryService) GetItem(tenantID, id uuid.UUID) (*StockItemView, error) {
	item, err := s.stockRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	return &StockItemView{
		StockItem: *item,
		Available: item.Available(),
		Health:    item.Health(),
	}, nil
}

func (s *inventoryService) RecordMovement(tenantID uuid.UUID, req *model.StockMovement, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var item model.StockItem
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&item, "tenant_id = ? AND id = ?", tenantID, req.StockItemID).Error; err != nil {
			return ErrStockItemNotFound
		}

		newQuantity := item.Quantity
		if req.Type == model.MovementIn {
			newQuantity += req.Quantity
		} else if req.Type == model.MovementOut {
			if item.Quantity < req.Quantity {
				return ErrInsufficientStock
			}
			newQuantity -= req.Quantity
		}

		if err := s.stockRepo.UpdateCounters(tx, tenantID, item.ID, newQuantity, item.Reserved, userID); err != nil {
			return err
		}

		req.TenantID = tenantID
		req.CreatedBy = userID
		req.UpdatedBy = userID
		if err := s.movementRepo.Create(tx, req); err != nil {
			return err
		}

		s.wsHub.PublishStockEvent(ws.StockEvent{
			Type:   "stock_update",
			Action: "movement_recorded",
			Payload: map[string]interface{}{
				"stock_item_id": item.ID,
				"sku":           item.SKU,
				"type":          req.Type,
				"quantity":      req.Quantity,
				"new_quantity":  newQuantity,
			},
			Message: fmt.Sprintf("%s %.2f %s of '%s'", req.Type, req.Quantity, item.Unit, item.Name),
		})
		return nil
	})
}

func (s *inventoryService) GetMovements(tenantID uuid.UUID) ([]model.StockMovement, error) {
	return s.movementRepo.FindAll(tenantID)
}

// GetPurchaseSuggestions applies the doubling heuristic: an item appears if
// and only if available < reorderPoint, and the proposed quantity is
// reorderPoint*2 - available. Stateless; unchanged stock yields the same
// suggestions on every call.
func (s *inventoryService) GetPurchaseSuggestions(tenantID uuid.UUID) ([]model.PurchaseSuggestion, error) {
	items, err := s.stockRepo.FindActive(tenantID)
	if err != nil {
		return nil, err
	}

	suggestions := []model.PurchaseSuggestion{}
	for _, item := range items {
		available := item.Available()
		if available >= item.ReorderPoint {
			continue
		}
		suggestions = append(suggestions, model.PurchaseSuggestion{
			StockItemID:  item.ID,
			SKU:          item.SKU,
			Name:         item.Name,
			Available:    available,
			ReorderPoint: item.ReorderPoint,
			SuggestedQty: item.ReorderPoint*2 - available,
			LeadTimeDays: item.LeadTimeDays,
			Health:       item.Health(),
		})
	}
	return suggestions, nil
}
