package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitRepository interface {
	Create(visit *model.SiteVisit) error
	FindAll(tenantID uuid.UUID) ([]model.SiteVisit, error)
	FindByID(tenantID, id uuid.UUID) (*model.SiteVisit, error)
	FindByLead(tenantID, leadID uuid.UUID) ([]model.SiteVisit, error)
	// FindLatestCompletedByLead returns the most recent COMPLETED visit for a
	// lead; its measurements feed BOM requirement calculation.
	FindLatestCompletedByLead(tenantID, leadID uuid.UUID) (*model.SiteVisit, error)
	Update(visit *model.SiteVisit) error
}

type visitRepo struct {
	db *gorm.DB
}

func NewVisitRepo(db *gorm.DB) VisitRepository {
	return &visitRepo{db}
}

func (r *visitRepo) Create(visit *model.SiteVisit) error {
	return r.db.Create(visit).Error
}

func (r *visitRepo) FindAll(tenantID uuid.UUID) ([]model.SiteVisit, error) {
	var visits []model.SiteVisit
	err := r.db.Preload("Lead").
		Where("tenant_id = ?", tenantID).
		Order("scheduled_at DESC").
		Find(&visits).Error
	return visits, err
}

func (r *visitRepo) FindByID(tenantID, id uuid.UUID) (*model.SiteVisit, error) {
	var visit model.SiteVisit
	err := r.db.Preload("Lead").First(&visit, "tenant_id = ? AND id = ?", tenantID, id).Error
	return &visit, err
}

func (r *visitRepo) FindByLead(tenantID, leadID uuid.UUID) ([]model.SiteVisit, error) {
	var visits []model.SiteVisit
	err := r.db.Where("tenant_id = ? AND lead_id = ?", tenantID, leadID).
		Order("scheduled_at DESC").
		Find(&visits).Error
	return visits, err
}

func (r *visitRepo) FindLatestCompletedByLead(tenantID, leadID uuid.UUID) (*model.SiteVisit, error) {
	var visit model.SiteVisit
	err := r.db.Where("tenant_id = ? AND lead_id = ? AND status = ?", tenantID, leadID, model.VisitCompleted).
		Order("scheduled_at DESC").
		First(&visit).Error
	return &visit, err
}

func (r *visitRepo) Update(visit *model.SiteVisit) error {
	return r.db.Save(visit).Error
}
