package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
)

// setupTestDB opens a per-test in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.Tenant{},
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.StockItem{},
		&model.StockMovement{},
		&model.ServiceBOMTemplate{},
		&model.BOMLineItem{},
		&model.Lead{},
		&model.SiteVisit{},
		&model.Quote{},
		&model.QuoteItem{},
		&model.Order{},
		&model.WorkOrder{},
		&model.StockReservation{},
		&model.Warranty{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedStockItem(t *testing.T, db *gorm.DB, tenantID uuid.UUID, sku string, quantity, reserved, minLevel, reorderPoint float64) *model.StockItem {
	t.Helper()
	item := &model.StockItem{
		SKU:          sku,
		Name:         "Item " + sku,
		Unit:         "m",
		Quantity:     quantity,
		Reserved:     reserved,
		MinLevel:     minLevel,
		ReorderPoint: reorderPoint,
		AvgCost:      decimal.NewFromInt(10),
		IsActive:     true,
	}
	item.TenantID = tenantID
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed stock item %s: %v", sku, err)
	}
	return item
}

func seedOrderWithWorkOrder(t *testing.T, db *gorm.DB, tenantID uuid.UUID) (*model.Order, *model.WorkOrder) {
	t.Helper()
	order := &model.Order{
		QuoteID:      uuid.New(),
		CustomerName: "Acme Gates",
		Total:        decimal.NewFromInt(1000),
		Status:       model.OrderInProduction,
	}
	order.TenantID = tenantID
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	workOrder := &model.WorkOrder{
		OrderID:     order.ID,
		ServiceType: "gate",
		Stage:       model.StageCutting,
	}
	workOrder.TenantID = tenantID
	if err := db.Create(workOrder).Error; err != nil {
		t.Fatalf("seed work order: %v", err)
	}
	return order, workOrder
}

func reloadStockItem(t *testing.T, db *gorm.DB, id uuid.UUID) *model.StockItem {
	t.Helper()
	var item model.StockItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		t.Fatalf("reload stock item: %v", err)
	}
	return &item
}

func newReservationService(db *gorm.DB) ReservationService {
	return NewReservationService(
		repository.NewStockItemRepo(db),
		repository.NewReservationRepo(db),
		repository.NewWorkOrderRepo(db),
		repository.NewOrderRepo(db),
		repository.NewWarrantyRepo(db),
		db,
		nil,
	)
}
