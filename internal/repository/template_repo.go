package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(template *model.ServiceBOMTemplate) error
	FindAll(tenantID uuid.UUID) ([]model.ServiceBOMTemplate, error)
	FindByID(tenantID, id uuid.UUID) (*model.ServiceBOMTemplate, error)
	FindByServiceType(tenantID uuid.UUID, serviceType string) (*model.ServiceBOMTemplate, error)
	Update(template *model.ServiceBOMTemplate) error
	ReplaceLines(templateID uuid.UUID, lines []model.BOMLineItem) error
	Delete(tenantID, id uuid.UUID) error
}

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db}
}

func (r *templateRepo) Create(template *model.ServiceBOMTemplate) error {
	return r.db.Create(template).Error
}

func (r *templateRepo) FindAll(tenantID uuid.UUID) ([]model.ServiceBOMTemplate, error) {
	var templates []model.ServiceBOMTemplate
	err := r.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("Lines.StockItem").
		Where("tenant_id = ?", tenantID).
		Order("service_type ASC").
		Find(&templates).Error
	return templates, err
}

func (r *templateRepo) FindByID(tenantID, id uuid.UUID) (*model.ServiceBOMTemplate, error) {
	var template model.ServiceBOMTemplate
	err := r.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("Lines.StockItem").
		First(&template, "tenant_id = ? AND id = ?", tenantID, id).Error
	return &template, err
}

func (r *templateRepo) FindByServiceType(tenantID uuid.UUID, serviceType string) (*model.ServiceBOMTemplate, error) {
	var template model.ServiceBOMTemplate
	err := r.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).
		First(&template, "tenant_id = ? AND service_type = ?", tenantID, serviceType).Error
	return &template, err
}

func (r *templateRepo) Update(template *model.ServiceBOMTemplate) error {
	return r.db.Save(template).Error
}

func (r *templateRepo) ReplaceLines(templateID uuid.UUID, lines []model.BOMLineItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("template_id = ?", templateID).Delete(&model.BOMLineItem{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

func (r *templateRepo) Delete(tenantID, id uuid.UUID) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&model.ServiceBOMTemplate{}, "id = ?", id).Error
}
