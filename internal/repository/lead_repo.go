package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadRepository interface {
	Create(lead *model.Lead) error
	FindAll(tenantID uuid.UUID) ([]model.Lead, error)
	FindByID(tenantID, id uuid.UUID) (*model.Lead, error)
	FindByStage(tenantID uuid.UUID, stage model.LeadStage) ([]model.Lead, error)
	Update(lead *model.Lead) error
	UpdateStage(tx *gorm.DB, tenantID, id uuid.UUID, stage model.LeadStage, updatedBy string) error
	Delete(tenantID, id uuid.UUID) error
}

type leadRepo struct {
	db *gorm.DB
}

func NewLeadRepo(db *gorm.DB) LeadRepository {
	return &leadRepo{db}
}

func (r *leadRepo) Create(lead *model.Lead) error {
	return r.db.Create(lead).Error
}

func (r *leadRepo) FindAll(tenantID uuid.UUID) ([]model.Lead, error) {
	var leads []model.Lead
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *leadRepo) FindByID(tenantID, id uuid.UUID) (*model.Lead, error) {
	var lead model.Lead
	err := r.db.First(&lead, "tenant_id = ? AND id = ?", tenantID, id).Error
	return &lead, err
}

func (r *leadRepo) FindByStage(tenantID uuid.UUID, stage model.LeadStage) ([]model.Lead, error) {
	var leads []model.Lead
	err := r.db.Where("tenant_id = ? AND stage = ?", tenantID, stage).Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *leadRepo) Update(lead *model.Lead) error {
	return r.db.Save(lead).Error
}

func (r *leadRepo) UpdateStage(tx *gorm.DB, tenantID, id uuid.UUID, stage model.LeadStage, updatedBy string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Lead{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"stage":      stage,
			"updated_by": updatedBy,
		}).Error
}

func (r *leadRepo) Delete(tenantID, id uuid.UUID) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&model.Lead{}, "id = ?", id).Error
}
