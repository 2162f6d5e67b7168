package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"go-fabshop/internal/bom"
	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
	"go-fabshop/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrVisitNotFound        = errors.New("site visit not found")
	ErrVisitNotOpen         = errors.New("site visit is not open")
	ErrQuoteNotFound        = errors.New("quote not found")
	ErrQuoteAlreadyDecided  = errors.New("quote has already been accepted or rejected")
	ErrQuoteWithoutLineItem = errors.New("quote needs at least one line item")
)

// VisitMeasurements is the payload a technician submits on completion.
type VisitMeasurements struct {
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
	Area      *float64 `json:"area"`
	Perimeter *float64 `json:"perimeter"`
	Notes     string   `json:"notes"`
}

// PipelineService drives a lead from first contact to a won order: visits,
// quotes, and the quote-to-order conversion that kicks off production and
// stock reservation.
type PipelineService interface {
	CreateLead(tenantID uuid.UUID, req *model.Lead, userID string) error
	UpdateLead(tenantID, id uuid.UUID, req *model.Lead, userID string) (*model.Lead, error)
	GetLeads(tenantID uuid.UUID) ([]model.Lead, error)
	GetLead(tenantID, id uuid.UUID) (*model.Lead, error)

	ScheduleVisit(tenantID uuid.UUID, req *model.SiteVisit, userID string) error
	CompleteVisit(tenantID, visitID uuid.UUID, m VisitMeasurements, userID string) (*model.SiteVisit, error)
	CancelVisit(tenantID, visitID uuid.UUID, userID string) error
	GetVisits(tenantID uuid.UUID) ([]model.SiteVisit, error)

	CreateQuote(tenantID uuid.UUID, req *model.Quote, userID string) error
	GetQuotes(tenantID uuid.UUID) ([]model.Quote, error)
	GetQuote(tenantID, id uuid.UUID) (*model.Quote, error)
	SendQuote(tenantID, id uuid.UUID, userID string) error
	RejectQuote(tenantID, id uuid.UUID, userID string) error
	// ConvertQuote accepts a quote, creates the order and its work order, and
	// books stock reservations as a best-effort side effect: a missing BOM
	// template or missing measurements skips reservation without failing the
	// conversion.
	ConvertQuote(tenantID, quoteID uuid.UUID, userID string) (*ConversionResult, error)
}

// ConversionResult is what a quote acceptance produced.
type ConversionResult struct {
	Order        *model.Order             `json:"order"`
	WorkOrder    *model.WorkOrder         `json:"work_order"`
	Reservations []model.StockReservation `json:"reservations"`
}

type pipelineService struct {
	leadRepo      repository.LeadRepository
	visitRepo     repository.VisitRepository
	quoteRepo     repository.QuoteRepository
	orderRepo     repository.OrderRepository
	workOrderRepo repository.WorkOrderRepository
	templateRepo  repository.TemplateRepository
	reservations  ReservationService
	db            *gorm.DB
}

func NewPipelineService(
	leadRepo repository.LeadRepository,
	visitRepo repository.VisitRepository,
	quoteRepo repository.QuoteRepository,
	orderRepo repository.OrderRepository,
	workOrderRepo repository.WorkOrderRepository,
	templateRepo repository.TemplateRepository,
	reservations ReservationService,
	db *gorm.DB,
) PipelineService {
	return &pipelineService{
		leadRepo:      leadRepo,
		visitRepo:     visitRepo,
		quoteRepo:     quoteRepo,
		orderRepo:     orderRepo,
		workOrderRepo: workOrderRepo,
		templateRepo:  templateRepo,
		reservations:  reservations,
		db:            db,
	}
}

func (s *pipelineService) CreateLead(tenantID uuid.UUID, req *model.Lead, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	req.TenantID = tenantID
	req.Stage = model.LeadNew
	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.leadRepo.Create(req)
}

func (s *pipelineService) UpdateLead(tenantID, id uuid.UUID, req *model.Lead, userID string) (*model.Lead, error) {
	existing, err := s.leadRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrLeadNotFound
	}
	existing.CustomerName = req.CustomerName
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.ServiceType = req.ServiceType
	existing.Notes = req.Notes
	if req.Stage != "" {
		existing.Stage = req.Stage
	}
	existing.UpdatedBy = userID
	if err := s.leadRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *pipelineService) GetLeads(tenantID uuid.UUID) ([]model.Lead, error) {
	return s.leadRepo.FindAll(tenantID)
}

func (s *pipelineService) GetLead(tenantID, id uuid.UUID) (*model.Lead, error) {
	lead, err := s.leadRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

func (s *pipelineService) ScheduleVisit(tenantID uuid.UUID, req *model.SiteVisit, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if _, err := s.leadRepo.FindByID(tenantID, req.LeadID); err != nil {
		return ErrLeadNotFound
	}

	req.TenantID = tenantID
	req.Status = model.VisitScheduled
	req.CreatedBy = userID
	req.UpdatedBy = userID
	if err := s.visitRepo.Create(req); err != nil {
		return err
	}
	return s.leadRepo.UpdateStage(nil, tenantID, req.LeadID, model.LeadVisitScheduled, userID)
}

func (s *pipelineService) CompleteVisit(tenantID, visitID uuid.UUID, m VisitMeasurements, userID string) (*model.SiteVisit, error) {
	visit, err := s.visitRepo.FindByID(tenantID, visitID)
	if err != nil {
		return nil, ErrVisitNotFound
	}
	if visit.Status != model.VisitScheduled {
		return nil, ErrVisitNotOpen
	}

	visit.Status = model.VisitCompleted
	visit.Width = m.Width
	visit.Height = m.Height
	visit.Area = m.Area
	visit.Perimeter = m.Perimeter
	if m.Notes != "" {
		visit.Notes = m.Notes
	}
	visit.UpdatedBy = userID
	if err := s.visitRepo.Update(visit); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *pipelineService) CancelVisit(tenantID, visitID uuid.UUID, userID string) error {
	visit, err := s.visitRepo.FindByID(tenantID, visitID)
	if err != nil {
		return ErrVisitNotFound
	}
	if visit.Status != model.VisitScheduled {
		return ErrVisitNotOpen
	}
	visit.Status = model.VisitCancelled
	visit.UpdatedBy = userID
	return s.visitRepo.Update(visit)
}

func (s *pipelineService) GetVisits(tenantID uuid.UUID) ([]model.SiteVisit, error) {
	return s.visitRepo.FindAll(tenantID)
}

func (s *pipelineService) CreateQuote(tenantID uuid.UUID, req *model.Quote, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if len(req.Items) == 0 {
		return ErrQuoteWithoutLineItem
	}
	if _, err := s.leadRepo.FindByID(tenantID, req.LeadID); err != nil {
		return ErrLeadNotFound
	}

	total := decimal.Zero
	for i := range req.Items {
		req.Items[i].TenantID = tenantID
		req.Items[i].CreatedBy = userID
		req.Items[i].UpdatedBy = userID
		total = total.Add(req.Items[i].LineTotal())
	}
	req.Total = total

	req.TenantID = tenantID
	req.Status = model.QuoteDraft
	req.CreatedBy = userID
	req.UpdatedBy = userID
	if err := s.quoteRepo.Create(req); err != nil {
		return err
	}
	return s.leadRepo.UpdateStage(nil, tenantID, req.LeadID, model.LeadQuoted, userID)
}

func (s *pipelineService) GetQuotes(tenantID uuid.UUID) ([]model.Quote, error) {
	return s.quoteRepo.FindAll(tenantID)
}

func (s *pipelineService) GetQuote(tenantID, id uuid.UUID) (*model.Quote, error) {
	quote, err := s.quoteRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrQuoteNotFound
	}
	return quote, nil
}

func (s *pipelineService) SendQuote(tenantID, id uuid.UUID, userID string) error {
	quote, err := s.quoteRepo.FindByID(tenantID, id)
	if err != nil {
		return ErrQuoteNotFound
	}
	if quote.Status != model.QuoteDraft {
		return ErrQuoteAlreadyDecided
	}
	return s.quoteRepo.UpdateStatus(nil, tenantID, id, model.QuoteSent, userID)
}

func (s *pipelineService) RejectQuote(tenantID, id uuid.UUID, userID string) error {
	quote, err := s.quoteRepo.FindByID(tenantID, id)
	if err != nil {
		return ErrQuoteNotFound
	}
	if quote.Status == model.QuoteAccepted || quote.Status == model.QuoteRejected {
		return ErrQuoteAlreadyDecided
	}
	if err := s.quoteRepo.UpdateStatus(nil, tenantID, id, model.QuoteRejected, userID); err != nil {
		return err
	}
	return s.leadRepo.UpdateStage(nil, tenantID, quote.LeadID, model.LeadLost, userID)
}

func (s *pipelineService) ConvertQuote(tenantID, quoteID uuid.UUID, userID string) (*ConversionResult, error) {
	quote, err := s.quoteRepo.FindByID(tenantID, quoteID)
	if err != nil {
		return nil, ErrQuoteNotFound
	}
	if quote.Status == model.QuoteAccepted || quote.Status == model.QuoteRejected {
		return nil, ErrQuoteAlreadyDecided
	}
	lead, err := s.leadRepo.FindByID(tenantID, quote.LeadID)
	if err != nil {
		return nil, ErrLeadNotFound
	}

	now := time.Now()
	order := model.Order{
		QuoteID:      quote.ID,
		CustomerName: lead.CustomerName,
		Total:        quote.Total,
		Status:       model.OrderInProduction,
	}
	order.TenantID = tenantID
	order.CreatedBy = userID
	order.UpdatedBy = userID

	workOrder := model.WorkOrder{
		ServiceType: lead.ServiceType,
		Stage:       model.StageCutting,
		StartedAt:   &now,
	}
	workOrder.TenantID = tenantID
	workOrder.CreatedBy = userID
	workOrder.UpdatedBy = userID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(tx, &order); err != nil {
			return err
		}
		workOrder.OrderID = order.ID
		if err := s.workOrderRepo.Create(tx, &workOrder); err != nil {
			return err
		}
		if err := s.quoteRepo.UpdateStatus(tx, tenantID, quote.ID, model.QuoteAccepted, userID); err != nil {
			return err
		}
		return s.leadRepo.UpdateStage(tx, tenantID, lead.ID, model.LeadWon, userID)
	})
	if err != nil {
		return nil, err
	}

	result := &ConversionResult{Order: &order, WorkOrder: &workOrder}
	result.Reservations = s.reserveForWorkOrder(tenantID, lead, quote, &workOrder, userID)
	return result, nil
}

// reserveForWorkOrder is the best-effort reservation side effect of order
// creation. No template or no recorded measurements means the work order
// simply starts with nothing reserved.
func (s *pipelineService) reserveForWorkOrder(tenantID uuid.UUID, lead *model.Lead, quote *model.Quote, workOrder *model.WorkOrder, userID string) []model.StockReservation {
	template, err := s.templateRepo.FindByServiceType(tenantID, lead.ServiceType)
	if err != nil {
		log.Printf("No BOM template for service type %q, skipping reservations", lead.ServiceType)
		return nil
	}

	visit := s.visitForQuote(tenantID, lead, quote)
	if visit == nil || !visit.HasMeasurements() {
		log.Printf("No measurements recorded for lead %s, skipping reservations", lead.ID)
		return nil
	}

	reservations, err := s.reservations.Reserve(tenantID, workOrder, template, bom.FromVisit(visit), userID)
	if err != nil {
		log.Printf("Warning: failed to reserve stock for work order %s: %v", workOrder.ID, err)
		return nil
	}
	return reservations
}

func (s *pipelineService) visitForQuote(tenantID uuid.UUID, lead *model.Lead, quote *model.Quote) *model.SiteVisit {
	if quote.VisitID != nil {
		if visit, err := s.visitRepo.FindByID(tenantID, *quote.VisitID); err == nil {
			return visit
		}
	}
	visit, err := s.visitRepo.FindLatestCompletedByLead(tenantID, lead.ID)
	if err != nil {
		return nil
	}
	return visit
}
