package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteRepository interface {
	Create(quote *model.Quote) error
	FindAll(tenantID uuid.UUID) ([]model.Quote, error)
	FindByID(tenantID, id uuid.UUID) (*model.Quote, error)
	FindByLead(tenantID, leadID uuid.UUID) ([]model.Quote, error)
	Update(quote *model.Quote) error
	UpdateStatus(tx *gorm.DB, tenantID, id uuid.UUID, status model.QuoteStatus, updatedBy string) error
}

type quoteRepo struct {
	db *gorm.DB
}

func NewQuoteRepo(db *gorm.DB) QuoteRepository {
	return &quoteRepo{db}
}

func (r *quoteRepo) Create(quote *model.Quote) error {
	return r.db.Create(quote).Error
}

func (r *quoteRepo) FindAll(tenantID uuid.UUID) ([]model.Quote, error) {
	var quotes []model.Quote
	err := r.db.Preload("Items").Preload("Lead").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepo) FindByID(tenantID, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.Preload("Items").Preload("Lead").Preload("Visit").
		First(&quote, "tenant_id = ? AND id = ?", tenantID, id).Error
	return &quote, err
}

func (r *quoteRepo) FindByLead(tenantID, leadID uuid.UUID) ([]model.Quote, error) {
	var quotes []model.Quote
	err := r.db.Preload("Items").
		Where("tenant_id = ? AND lead_id = ?", tenantID, leadID).
		Order("created_at DESC").
		Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepo) Update(quote *model.Quote) error {
	return r.db.Save(quote).Error
}

func (r *quoteRepo) UpdateStatus(tx *gorm.DB, tenantID, id uuid.UUID, status model.QuoteStatus, updatedBy string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Quote{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}
