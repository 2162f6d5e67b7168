package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindAll(tenantID uuid.UUID) ([]model.Order, error)
	FindByID(tenantID, id uuid.UUID) (*model.Order, error)
	UpdateStatus(tx *gorm.DB, tenantID, id uuid.UUID, status model.OrderStatus, updatedBy string) error
	SumCompletedTotals(tenantID uuid.UUID) (string, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(order).Error
}

func (r *orderRepo) FindAll(tenantID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Quote").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(tenantID, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Quote").Preload("Quote.Items").
		First(&order, "tenant_id = ? AND id = ?", tenantID, id).Error
	return &order, err
}

func (r *orderRepo) UpdateStatus(tx *gorm.DB, tenantID, id uuid.UUID, status model.OrderStatus, updatedBy string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Order{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}

// SumCompletedTotals returns the summed totals of COMPLETED orders as a
// decimal string so the caller can parse it without float drift.
func (r *orderRepo) SumCompletedTotals(tenantID uuid.UUID) (string, error) {
	var total string
	err := r.db.Model(&model.Order{}).
		Where("tenant_id = ? AND status = ?", tenantID, model.OrderCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}
