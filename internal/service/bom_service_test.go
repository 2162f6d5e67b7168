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

func newBOMService(db *gorm.DB) BOMService {
	return NewBOMService(repository.NewTemplateRepo(db), repository.NewStockItemRepo(db))
}

func TestCreateTemplateRejectsMalformedFormula(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newBOMService(db)

	item := seedStockItem(t, db, tenantID, "SHEET-01", 10, 0, 0, 0)

	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines: []model.BOMLineItem{
			{StockItemID: item.ID, QuantityFormula: "volume * 2"},
		},
	}
	err := svc.CreateTemplate(tenantID, template, "tester")
	if err == nil {
		t.Fatal("CreateTemplate accepted an unparseable formula")
	}

	templates, _ := svc.GetTemplates(tenantID)
	if len(templates) != 0 {
		t.Errorf("rejected template was persisted: %+v", templates)
	}
}

func TestCreateTemplateRejectsUnknownStockItem(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newBOMService(db)

	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines: []model.BOMLineItem{
			{StockItemID: uuid.New(), QuantityFormula: "fixed: 2"},
		},
	}
	if err := svc.CreateTemplate(tenantID, template, "tester"); err == nil {
		t.Fatal("CreateTemplate accepted a line referencing a missing stock item")
	}
}

func TestCreateTemplateUniquePerServiceType(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newBOMService(db)

	item := seedStockItem(t, db, tenantID, "SHEET-01", 10, 0, 0, 0)

	first := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: item.ID, QuantityFormula: "area * 1.1"}},
	}
	if err := svc.CreateTemplate(tenantID, first, "tester"); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	second := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: item.ID, QuantityFormula: "fixed: 1"}},
	}
	if err := svc.CreateTemplate(tenantID, second, "tester"); !errors.Is(err, ErrTemplateExists) {
		t.Fatalf("err = %v, want ErrTemplateExists", err)
	}
}

func TestUpdateTemplateReplacesLines(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newBOMService(db)

	sheet := seedStockItem(t, db, tenantID, "SHEET-01", 10, 0, 0, 0)
	hinge := seedStockItem(t, db, tenantID, "HINGE-01", 10, 0, 0, 0)

	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: sheet.ID, QuantityFormula: "area * 1.1"}},
	}
	if err := svc.CreateTemplate(tenantID, template, "tester"); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	req := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Name:        "Gate v2",
		Lines: []model.BOMLineItem{
			{StockItemID: hinge.ID, QuantityFormula: "fixed: 4"},
			{StockItemID: sheet.ID, QuantityFormula: "perimeter * 1"},
		},
	}
	updated, err := svc.UpdateTemplate(tenantID, template.ID, req, "tester")
	if err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}
	if updated.Name != "Gate v2" {
		t.Errorf("name = %q, want Gate v2", updated.Name)
	}
	if len(updated.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(updated.Lines))
	}
	if updated.Lines[0].StockItemID != hinge.ID {
		t.Errorf("line order not preserved: %+v", updated.Lines)
	}
}

func TestPreviewComputesRequirements(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newBOMService(db)

	item := seedStockItem(t, db, tenantID, "SHEET-01", 10, 0, 0, 0)

	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: item.ID, QuantityFormula: "area * 1.1"}},
	}
	if err := svc.CreateTemplate(tenantID, template, "tester"); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	reqs, err := svc.Preview(tenantID, template.ID, bom.Measurements{Width: 3.5, Height: 2.4})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Quantity != 9.24 {
		t.Fatalf("Preview = %+v, want one requirement of 9.24", reqs)
	}

	// Preview must not touch stock.
	if got := reloadStockItem(t, db, item.ID); got.Quantity != 10 || got.Reserved != 0 {
		t.Errorf("stock changed by preview: %v/%v", got.Quantity, got.Reserved)
	}
}

func TestGetTemplateTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	tenantA := uuid.New()
	svc := newBOMService(db)

	item := seedStockItem(t, db, tenantA, "SHEET-01", 10, 0, 0, 0)
	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: item.ID, QuantityFormula: "fixed: 1"}},
	}
	if err := svc.CreateTemplate(tenantA, template, "tester"); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	if _, err := svc.GetTemplate(uuid.New(), template.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("cross-tenant GetTemplate err = %v, want ErrTemplateNotFound", err)
	}
}
