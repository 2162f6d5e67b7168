package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockItemRepository interface {
	Create(item *model.StockItem) error
	FindAll(tenantID uuid.UUID) ([]model.StockItem, error)
	FindActive(tenantID uuid.UUID) ([]model.StockItem, error)
	FindByID(tenantID, id uuid.UUID) (*model.StockItem, error)
	FindBySKU(tenantID uuid.UUID, sku string) (*model.StockItem, error)
	Update(item *model.StockItem) error
	// UpdateCounters runs inside a caller transaction so counter math stays
	// atomic with the reservation rows that justify it.
	UpdateCounters(tx *gorm.DB, tenantID, id uuid.UUID, quantity, reserved float64, updatedBy string) error
}

type stockItemRepo struct {
	db *gorm.DB
}

func NewStockItemRepo(db *gorm.DB) StockItemRepository {
	return &stockItemRepo{db}
}

func (r *stockItemRepo) Create(item *model.StockItem) error {
	return r.db.Create(item).Error
}

func (r *stockItemRepo) FindAll(tenantID uuid.UUID) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.Where("tenant_id = ?", tenantID).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *stockItemRepo) FindActive(tenantID uuid.UUID) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.Where("tenant_id = ? AND is_active = ?", tenantID, true).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *stockItemRepo) FindByID(tenantID, id uuid.UUID) (*model.StockItem, error) {
	var item model.StockItem
	err := r.db.First(&item, "tenant_id = ? AND id = ?", tenantID, id).Error
	return &item, err
}

func (r *stockItemRepo) FindBySKU(tenantID uuid.UUID, sku string) (*model.StockItem, error) {
	var item model.StockItem
	err := r.db.First(&item, "tenant_id = ? AND sku = ?", tenantID, sku).Error
	return &item, err
}

func (r *stockItemRepo) Update(item *model.StockItem) error {
	return r.db.Save(item).Error
}

func (r *stockItemRepo) UpdateCounters(tx *gorm.DB, tenantID, id uuid.UUID, quantity, reserved float64, updatedBy string) error {
	return tx.Model(&model.StockItem{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"reserved":   reserved,
			"updated_by": updatedBy,
		}).Error
}
