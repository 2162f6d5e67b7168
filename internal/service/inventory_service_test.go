package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
)

func newInventoryService(db *gorm.DB) InventoryService {
	return NewInventoryService(repository.NewStockItemRepo(db), repository.NewStockMovementRepo(db), db, nil)
}

func TestCreateItemRejectsDuplicateSKU(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newInventoryService(db)

	item := &model.StockItem{SKU: "TUBE-20", Name: "Square tube 20mm", IsActive: true}
	if err := svc.CreateItem(tenantID, item, "tester"); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	dup := &model.StockItem{SKU: "TUBE-20", Name: "Another tube", IsActive: true}
	if err := svc.CreateItem(tenantID, dup, "tester"); !errors.Is(err, ErrSKUExists) {
		t.Fatalf("duplicate CreateItem err = %v, want ErrSKUExists", err)
	}

	// Same SKU under a different tenant is fine.
	other := &model.StockItem{SKU: "TUBE-20", Name: "Other tenant tube", IsActive: true}
	if err := svc.CreateItem(uuid.New(), other, "tester"); err != nil {
		t.Fatalf("CreateItem other tenant: %v", err)
	}
}

func TestUpdateItemLeavesCountersAlone(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newInventoryService(db)

	item := seedStockItem(t, db, tenantID, "TUBE-20", 30, 5, 10, 0)

	req := &model.StockItem{
		SKU:      "TUBE-20",
		Name:     "Renamed tube",
		Quantity: 999, // must be ignored
		Reserved: 999, // must be ignored
		MinLevel: 15,
		IsActive: true,
	}
	updated, err := svc.UpdateItem(tenantID, item.ID, req, "tester")
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Name != "Renamed tube" || updated.MinLevel != 15 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Quantity != 30 || updated.Reserved != 5 {
		t.Errorf("counters changed to %v/%v, want 30/5", updated.Quantity, updated.Reserved)
	}
}

func TestRecordMovement(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newInventoryService(db)

	item := seedStockItem(t, db, tenantID, "TUBE-20", 30, 0, 10, 0)

	in := &model.StockMovement{StockItemID: item.ID, Type: model.MovementIn, Quantity: 20}
	if err := svc.RecordMovement(tenantID, in, "tester"); err != nil {
		t.Fatalf("RecordMovement IN: %v", err)
	}
	if got := reloadStockItem(t, db, item.ID).Quantity; got != 50 {
		t.Errorf("quantity after IN = %v, want 50", got)
	}

	out := &model.StockMovement{StockItemID: item.ID, Type: model.MovementOut, Quantity: 15}
	if err := svc.RecordMovement(tenantID, out, "tester"); err != nil {
		t.Fatalf("RecordMovement OUT: %v", err)
	}
	if got := reloadStockItem(t, db, item.ID).Quantity; got != 35 {
		t.Errorf("quantity after OUT = %v, want 35", got)
	}

	movements, err := svc.GetMovements(tenantID)
	if err != nil {
		t.Fatalf("GetMovements: %v", err)
	}
	if len(movements) != 2 {
		t.Errorf("got %d movements, want 2", len(movements))
	}
}

func TestRecordMovementInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newInventoryService(db)

	item := seedStockItem(t, db, tenantID, "TUBE-20", 10, 0, 0, 0)

	out := &model.StockMovement{StockItemID: item.ID, Type: model.MovementOut, Quantity: 11}
	if err := svc.RecordMovement(tenantID, out, "tester"); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := reloadStockItem(t, db, item.ID).Quantity; got != 10 {
		t.Errorf("quantity = %v, want 10 (failed movement must not apply)", got)
	}
}

func TestGetPurchaseSuggestions(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newInventoryService(db)

	// available 35 >= reorder point 20: no suggestion.
	seedStockItem(t, db, tenantID, "OK-01", 45, 10, 5, 20)
	// available 4 < reorder point 20: suggested 20*2 - 4 = 36.
	low := seedStockItem(t, db, tenantID, "LOW-01", 9, 5, 10, 20)
	// available exactly at reorder point: no suggestion.
	seedStockItem(t, db, tenantID, "EDGE-01", 20, 0, 5, 20)
	// inactive items are skipped even when short.
	inactive := seedStockItem(t, db, tenantID, "GONE-01", 0, 0, 5, 20)
	db.Model(inactive).Update("is_active", false)

	suggestions, err := svc.GetPurchaseSuggestions(tenantID)
	if err != nil {
		t.Fatalf("GetPurchaseSuggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1: %+v", len(suggestions), suggestions)
	}
	s := suggestions[0]
	if s.StockItemID != low.ID || s.SKU != "LOW-01" {
		t.Errorf("suggested item = %s, want LOW-01", s.SKU)
	}
	if s.SuggestedQty != 36 {
		t.Errorf("suggested qty = %v, want 36", s.SuggestedQty)
	}

	// Stateless: a second call with unchanged stock yields the same output.
	again, err := svc.GetPurchaseSuggestions(tenantID)
	if err != nil {
		t.Fatalf("GetPurchaseSuggestions again: %v", err)
	}
	if len(again) != 1 || again[0].SuggestedQty != 36 {
		t.Errorf("second call = %+v, want same single suggestion", again)
	}
}

func TestGetItemsIncludesDerivedFields(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newInventoryService(db)

	seedStockItem(t, db, tenantID, "CRIT-01", 5, 5, 10, 0)

	views, err := svc.GetItems(tenantID)
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d items, want 1", len(views))
	}
	if views[0].Available != 0 || views[0].Health != model.HealthCritical {
		t.Errorf("view = available %v health %v, want 0 CRITICAL", views[0].Available, views[0].Health)
	}
}
