package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarrantyRepository interface {
	Create(tx *gorm.DB, warranty *model.Warranty) error
	FindAll(tenantID uuid.UUID) ([]model.Warranty, error)
	FindByOrder(tenantID, orderID uuid.UUID) ([]model.Warranty, error)
}

type warrantyRepo struct {
	db *gorm.DB
}

func NewWarrantyRepo(db *gorm.DB) WarrantyRepository {
	return &warrantyRepo{db}
}

func (r *warrantyRepo) Create(tx *gorm.DB, warranty *model.Warranty) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(warranty).Error
}

func (r *warrantyRepo) FindAll(tenantID uuid.UUID) ([]model.Warranty, error) {
	var warranties []model.Warranty
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&warranties).Error
	return warranties, err
}

func (r *warrantyRepo) FindByOrder(tenantID, orderID uuid.UUID) ([]model.Warranty, error) {
	var warranties []model.Warranty
	err := r.db.Where("tenant_id = ? AND order_id = ?", tenantID, orderID).Find(&warranties).Error
	return warranties, err
}
