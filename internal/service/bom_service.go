package service

import (
	"errors"
	"fmt"

	"go-fabshop/internal/bom"
	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
	"go-fabshop/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrTemplateNotFound = errors.New("BOM template not found")
	ErrTemplateExists   = errors.New("a BOM template already exists for this service type")
)

// BOMService manages per-service BOM templates. Formulas are validated by
// parsing at save time, so a malformed rule is rejected at data entry instead
// of silently computing zero later.
type BOMService interface {
	CreateTemplate(tenantID uuid.UUID, req *model.ServiceBOMTemplate, userID string) error
	UpdateTemplate(tenantID, id uuid.UUID, req *model.ServiceBOMTemplate, userID string) (*model.ServiceBOMTemplate, error)
	DeleteTemplate(tenantID, id uuid.UUID) error
	GetTemplates(tenantID uuid.UUID) ([]model.ServiceBOMTemplate, error)
	GetTemplate(tenantID, id uuid.UUID) (*model.ServiceBOMTemplate, error)
	// Preview computes requirements for ad-hoc measurements without touching
	// stock, for quoting and sanity checks.
	Preview(tenantID, id uuid.UUID, m bom.Measurements) ([]bom.Requirement, error)
}

type bomService struct {
	templateRepo repository.TemplateRepository
	stockRepo    repository.StockItemRepository
}

func NewBOMService(templateRepo repository.TemplateRepository, stockRepo repository.StockItemRepository) BOMService {
	return &bomService{templateRepo: templateRepo, stockRepo: stockRepo}
}

func (s *bomService) validate(tenantID uuid.UUID, req *model.ServiceBOMTemplate) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	// Each referenced stock item must exist within the tenant.
	for _, line := range req.Lines {
		if _, err := s.stockRepo.FindByID(tenantID, line.StockItemID); err != nil {
			return fmt.Errorf("line references unknown stock item %s", line.StockItemID)
		}
	}
	return nil
}

func (s *bomService) CreateTemplate(tenantID uuid.UUID, req *model.ServiceBOMTemplate, userID string) error {
	if err := s.validate(tenantID, req); err != nil {
		return err
	}

	existing, _ := s.templateRepo.FindByServiceType(tenantID, req.ServiceType)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrTemplateExists
	}

	req.TenantID = tenantID
	req.CreatedBy = userID
	req.UpdatedBy = userID
	for i := range req.Lines {
		req.Lines[i].TenantID = tenantID
		req.Lines[i].CreatedBy = userID
		req.Lines[i].UpdatedBy = userID
		if req.Lines[i].SortOrder == 0 {
			req.Lines[i].SortOrder = i
		}
	}
	return s.templateRepo.Create(req)
}

func (s *bomService) UpdateTemplate(tenantID, id uuid.UUID, req *model.ServiceBOMTemplate, userID string) (*model.ServiceBOMTemplate, error) {
	existing, err := s.templateRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	if err := s.validate(tenantID, req); err != nil {
		return nil, err
	}

	existing.ServiceType = req.ServiceType
	existing.Name = req.Name
	existing.UpdatedBy = userID

	lines := make([]model.BOMLineItem, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = line
		lines[i].ID = uuid.Nil
		lines[i].TemplateID = existing.ID
		lines[i].TenantID = tenantID
		lines[i].CreatedBy = userID
		lines[i].UpdatedBy = userID
		if lines[i].SortOrder == 0 {
			lines[i].SortOrder = i
		}
	}
	existing.Lines = nil

	if err := s.templateRepo.Update(existing); err != nil {
		return nil, err
	}
	if err := s.templateRepo.ReplaceLines(existing.ID, lines); err != nil {
		return nil, err
	}
	return s.templateRepo.FindByID(tenantID, id)
}

func (s *bomService) DeleteTemplate(tenantID, id uuid.UUID) error {
	if _, err := s.templateRepo.FindByID(tenantID, id); err != nil {
		return ErrTemplateNotFound
	}
	return s.templateRepo.Delete(tenantID, id)
}

func (s *bomService) GetTemplates(tenantID uuid.UUID) ([]model.ServiceBOMTemplate, error) {
	return s.templateRepo.FindAll(tenantID)
}

func (s *bomService) GetTemplate(tenantID, id uuid.UUID) (*model.ServiceBOMTemplate, error) {
	template, err := s.templateRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

func (s *bomService) Preview(tenantID, id uuid.UUID, m bom.Measurements) ([]bom.Requirement, error) {
	template, err := s.templateRepo.FindByID(tenantID, id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	return bom.Requirements(template, m), nil
}
