package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
)

func newPipelineService(db *gorm.DB) PipelineService {
	return NewPipelineService(
		repository.NewLeadRepo(db),
		repository.NewVisitRepo(db),
		repository.NewQuoteRepo(db),
		repository.NewOrderRepo(db),
		repository.NewWorkOrderRepo(db),
		repository.NewTemplateRepo(db),
		newReservationService(db),
		db,
	)
}

func seedLead(t *testing.T, db *gorm.DB, svc PipelineService, tenantID uuid.UUID) *model.Lead {
	t.Helper()
	lead := &model.Lead{CustomerName: "Maria Souza", ServiceType: "gate", Phone: "11-5555"}
	if err := svc.CreateLead(tenantID, lead, "tester"); err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	return lead
}

func completeVisitFor(t *testing.T, svc PipelineService, tenantID uuid.UUID, lead *model.Lead, width, height float64) *model.SiteVisit {
	t.Helper()
	visit := &model.SiteVisit{LeadID: lead.ID, ScheduledAt: time.Now()}
	if err := svc.ScheduleVisit(tenantID, visit, "tester"); err != nil {
		t.Fatalf("ScheduleVisit: %v", err)
	}
	completed, err := svc.CompleteVisit(tenantID, visit.ID, VisitMeasurements{Width: &width, Height: &height}, "tester")
	if err != nil {
		t.Fatalf("CompleteVisit: %v", err)
	}
	return completed
}

func draftQuote(t *testing.T, svc PipelineService, tenantID uuid.UUID, lead *model.Lead) *model.Quote {
	t.Helper()
	quote := &model.Quote{
		LeadID: lead.ID,
		Items: []model.QuoteItem{
			{Description: "Sliding gate 3.5x2.4", Quantity: 1, UnitPrice: decimal.NewFromInt(4200)},
			{Description: "Installation", Quantity: 2, UnitPrice: decimal.NewFromInt(150)},
		},
	}
	if err := svc.CreateQuote(tenantID, quote, "tester"); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	return quote
}

func TestLeadLifecycleStages(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)

	lead := seedLead(t, db, svc, tenantID)
	if lead.Stage != model.LeadNew {
		t.Errorf("new lead stage = %v, want NEW", lead.Stage)
	}

	visit := &model.SiteVisit{LeadID: lead.ID, ScheduledAt: time.Now()}
	if err := svc.ScheduleVisit(tenantID, visit, "tester"); err != nil {
		t.Fatalf("ScheduleVisit: %v", err)
	}
	if got, _ := svc.GetLead(tenantID, lead.ID); got.Stage != model.LeadVisitScheduled {
		t.Errorf("stage after visit = %v, want VISIT_SCHEDULED", got.Stage)
	}

	draftQuote(t, svc, tenantID, lead)
	if got, _ := svc.GetLead(tenantID, lead.ID); got.Stage != model.LeadQuoted {
		t.Errorf("stage after quote = %v, want QUOTED", got.Stage)
	}
}

func TestCreateQuoteComputesTotal(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)

	lead := seedLead(t, db, svc, tenantID)
	quote := draftQuote(t, svc, tenantID, lead)

	// 1*4200 + 2*150 = 4500
	if !quote.Total.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("quote total = %s, want 4500", quote.Total)
	}
	if quote.Status != model.QuoteDraft {
		t.Errorf("quote status = %v, want DRAFT", quote.Status)
	}
}

func TestCreateQuoteRequiresLineItem(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)

	lead := seedLead(t, db, svc, tenantID)
	quote := &model.Quote{LeadID: lead.ID}
	if err := svc.CreateQuote(tenantID, quote, "tester"); !errors.Is(err, ErrQuoteWithoutLineItem) {
		t.Fatalf("err = %v, want ErrQuoteWithoutLineItem", err)
	}
}

func TestCompleteVisitRequiresScheduled(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)

	lead := seedLead(t, db, svc, tenantID)
	visit := completeVisitFor(t, svc, tenantID, lead, 3.5, 2.4)

	if _, err := svc.CompleteVisit(tenantID, visit.ID, VisitMeasurements{}, "tester"); !errors.Is(err, ErrVisitNotOpen) {
		t.Fatalf("double complete err = %v, want ErrVisitNotOpen", err)
	}
	if err := svc.CancelVisit(tenantID, visit.ID, "tester"); !errors.Is(err, ErrVisitNotOpen) {
		t.Fatalf("cancel completed err = %v, want ErrVisitNotOpen", err)
	}
}

func TestConvertQuoteCreatesOrderAndReserves(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)
	bomSvc := newBOMService(db)

	sheet := seedStockItem(t, db, tenantID, "SHEET-01", 45, 10, 5, 0)
	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: sheet.ID, QuantityFormula: "area * 1.1"}},
	}
	if err := bomSvc.CreateTemplate(tenantID, template, "tester"); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	lead := seedLead(t, db, svc, tenantID)
	completeVisitFor(t, svc, tenantID, lead, 3.5, 2.4)
	quote := draftQuote(t, svc, tenantID, lead)

	result, err := svc.ConvertQuote(tenantID, quote.ID, "tester")
	if err != nil {
		t.Fatalf("ConvertQuote: %v", err)
	}

	if result.Order.Status != model.OrderInProduction {
		t.Errorf("order status = %v, want IN_PRODUCTION", result.Order.Status)
	}
	if !result.Order.Total.Equal(quote.Total) {
		t.Errorf("order total = %s, want %s", result.Order.Total, quote.Total)
	}
	if result.WorkOrder.Stage != model.StageCutting {
		t.Errorf("work order stage = %v, want CUTTING", result.WorkOrder.Stage)
	}
	if result.WorkOrder.StartedAt == nil {
		t.Error("work order StartedAt not set")
	}
	if result.WorkOrder.ServiceType != "gate" {
		t.Errorf("work order service type = %q, want gate", result.WorkOrder.ServiceType)
	}

	if len(result.Reservations) != 1 || result.Reservations[0].Quantity != 9.24 {
		t.Fatalf("reservations = %+v, want one of 9.24", result.Reservations)
	}

	if got, _ := svc.GetQuote(tenantID, quote.ID); got.Status != model.QuoteAccepted {
		t.Errorf("quote status = %v, want ACCEPTED", got.Status)
	}
	if got, _ := svc.GetLead(tenantID, lead.ID); got.Stage != model.LeadWon {
		t.Errorf("lead stage = %v, want WON", got.Stage)
	}
}

func TestConvertQuoteWithoutTemplateSkipsReservations(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)

	lead := seedLead(t, db, svc, tenantID)
	completeVisitFor(t, svc, tenantID, lead, 3.5, 2.4)
	quote := draftQuote(t, svc, tenantID, lead)

	result, err := svc.ConvertQuote(tenantID, quote.ID, "tester")
	if err != nil {
		t.Fatalf("ConvertQuote: %v", err)
	}
	if result.Order == nil || result.WorkOrder == nil {
		t.Fatal("conversion did not create order and work order")
	}
	if len(result.Reservations) != 0 {
		t.Errorf("reservations = %+v, want none without a template", result.Reservations)
	}
}

func TestConvertQuoteWithoutMeasurementsSkipsReservations(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)
	bomSvc := newBOMService(db)

	sheet := seedStockItem(t, db, tenantID, "SHEET-01", 45, 0, 5, 0)
	template := &model.ServiceBOMTemplate{
		ServiceType: "gate",
		Lines:       []model.BOMLineItem{{StockItemID: sheet.ID, QuantityFormula: "area * 1.1"}},
	}
	if err := bomSvc.CreateTemplate(tenantID, template, "tester"); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	// Quote without any completed visit.
	lead := seedLead(t, db, svc, tenantID)
	quote := draftQuote(t, svc, tenantID, lead)

	result, err := svc.ConvertQuote(tenantID, quote.ID, "tester")
	if err != nil {
		t.Fatalf("ConvertQuote: %v", err)
	}
	if len(result.Reservations) != 0 {
		t.Errorf("reservations = %+v, want none without measurements", result.Reservations)
	}
	if got := reloadStockItem(t, db, sheet.ID); got.Reserved != 0 {
		t.Errorf("reserved = %v, want 0", got.Reserved)
	}
}

func TestConvertQuoteTwiceFails(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)

	lead := seedLead(t, db, svc, tenantID)
	quote := draftQuote(t, svc, tenantID, lead)

	if _, err := svc.ConvertQuote(tenantID, quote.ID, "tester"); err != nil {
		t.Fatalf("first ConvertQuote: %v", err)
	}
	if _, err := svc.ConvertQuote(tenantID, quote.ID, "tester"); !errors.Is(err, ErrQuoteAlreadyDecided) {
		t.Fatalf("second ConvertQuote err = %v, want ErrQuoteAlreadyDecided", err)
	}
}

func TestRejectQuoteMarksLeadLost(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newPipelineService(db)

	lead := seedLead(t, db, svc, tenantID)
	quote := draftQuote(t, svc, tenantID, lead)

	if err := svc.SendQuote(tenantID, quote.ID, "tester"); err != nil {
		t.Fatalf("SendQuote: %v", err)
	}
	if err := svc.RejectQuote(tenantID, quote.ID, "tester"); err != nil {
		t.Fatalf("RejectQuote: %v", err)
	}
	if got, _ := svc.GetLead(tenantID, lead.ID); got.Stage != model.LeadLost {
		t.Errorf("lead stage = %v, want LOST", got.Stage)
	}
	if err := svc.RejectQuote(tenantID, quote.ID, "tester"); !errors.Is(err, ErrQuoteAlreadyDecided) {
		t.Fatalf("double reject err = %v, want ErrQuoteAlreadyDecided", err)
	}
}
