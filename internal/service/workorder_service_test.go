package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-fabshop/internal/bom"
	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
)

func newWorkOrderService(db *gorm.DB) WorkOrderService {
	return NewWorkOrderService(
		repository.NewWorkOrderRepo(db),
		repository.NewOrderRepo(db),
		repository.NewWarrantyRepo(db),
		newReservationService(db),
		db,
	)
}

func TestUpdateStageMovesWorkOrder(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newWorkOrderService(db)

	_, workOrder := seedOrderWithWorkOrder(t, db, tenantID)

	updated, err := svc.UpdateStage(tenantID, workOrder.ID, model.StageWelding, "tester")
	if err != nil {
		t.Fatalf("UpdateStage: %v", err)
	}
	if updated.Stage != model.StageWelding {
		t.Errorf("stage = %v, want WELDING", updated.Stage)
	}

	// Regressing a stage is allowed.
	updated, err = svc.UpdateStage(tenantID, workOrder.ID, model.StageCutting, "tester")
	if err != nil {
		t.Fatalf("UpdateStage regress: %v", err)
	}
	if updated.Stage != model.StageCutting {
		t.Errorf("stage = %v, want CUTTING", updated.Stage)
	}
}

func TestUpdateStageRejectsUnknown(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newWorkOrderService(db)

	_, workOrder := seedOrderWithWorkOrder(t, db, tenantID)

	if _, err := svc.UpdateStage(tenantID, workOrder.ID, "SANDBLASTING", "tester"); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("err = %v, want ErrUnknownStage", err)
	}
}

func TestUpdateStageToFinishedConsumes(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newWorkOrderService(db)
	reservations := newReservationService(db)

	sheet := seedStockItem(t, db, tenantID, "SHEET-01", 45, 10, 5, 0)
	order, workOrder := seedOrderWithWorkOrder(t, db, tenantID)

	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: sheet.ID, QuantityFormula: "fixed: 12"}},
	}
	if _, err := reservations.Reserve(tenantID, workOrder, template, bom.Measurements{}, "tester"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	updated, err := svc.UpdateStage(tenantID, workOrder.ID, model.StageFinished, "tester")
	if err != nil {
		t.Fatalf("UpdateStage to FINISHED: %v", err)
	}
	if updated.Stage != model.StageFinished {
		t.Errorf("stage = %v, want FINISHED", updated.Stage)
	}

	sheet = reloadStockItem(t, db, sheet.ID)
	if sheet.Quantity != 33 || sheet.Reserved != 10 {
		t.Errorf("stock = %v/%v, want 33/10 (finish must consume)", sheet.Quantity, sheet.Reserved)
	}

	// Finished work orders take no further updates.
	if _, err := svc.UpdateStage(tenantID, workOrder.ID, model.StageWelding, "tester"); !errors.Is(err, ErrWorkOrderFinished) {
		t.Fatalf("update after finish err = %v, want ErrWorkOrderFinished", err)
	}

	warranties, err := svc.GetWarrantiesByOrder(tenantID, order.ID)
	if err != nil {
		t.Fatalf("GetWarrantiesByOrder: %v", err)
	}
	if len(warranties) != 1 {
		t.Errorf("got %d warranties, want 1", len(warranties))
	}
}

func TestAssignTeam(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newWorkOrderService(db)

	_, workOrder := seedOrderWithWorkOrder(t, db, tenantID)

	updated, err := svc.AssignTeam(tenantID, workOrder.ID, "Equipe A", "tester")
	if err != nil {
		t.Fatalf("AssignTeam: %v", err)
	}
	if updated.Team != "Equipe A" {
		t.Errorf("team = %q, want Equipe A", updated.Team)
	}
}

func TestCancelOrderReleasesReservations(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newWorkOrderService(db)
	reservations := newReservationService(db)

	sheet := seedStockItem(t, db, tenantID, "SHEET-01", 45, 0, 5, 0)
	order, workOrder := seedOrderWithWorkOrder(t, db, tenantID)

	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: sheet.ID, QuantityFormula: "fixed: 12"}},
	}
	if _, err := reservations.Reserve(tenantID, workOrder, template, bom.Measurements{}, "tester"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if err := svc.CancelOrder(tenantID, order.ID, "tester"); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}

	cancelled, err := svc.GetOrder(tenantID, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if cancelled.Status != model.OrderCancelled {
		t.Errorf("order status = %v, want CANCELLED", cancelled.Status)
	}

	sheet = reloadStockItem(t, db, sheet.ID)
	if sheet.Quantity != 45 || sheet.Reserved != 0 {
		t.Errorf("stock = %v/%v, want 45/0", sheet.Quantity, sheet.Reserved)
	}

	// Only IN_PRODUCTION orders can be cancelled.
	if err := svc.CancelOrder(tenantID, order.ID, "tester"); !errors.Is(err, ErrOrderNotCancelable) {
		t.Fatalf("double cancel err = %v, want ErrOrderNotCancelable", err)
	}
}
