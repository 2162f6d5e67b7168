package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkOrderRepository interface {
	Create(tx *gorm.DB, workOrder *model.WorkOrder) error
	FindAll(tenantID uuid.UUID) ([]model.WorkOrder, error)
	FindByID(tenantID, id uuid.UUID) (*model.WorkOrder, error)
	FindByOrder(tenantID, orderID uuid.UUID) ([]model.WorkOrder, error)
	Update(workOrder *model.WorkOrder) error
	Save(tx *gorm.DB, workOrder *model.WorkOrder) error
}

type workOrderRepo struct {
	db *gorm.DB
}

func NewWorkOrderRepo(db *gorm.DB) WorkOrderRepository {
	return &workOrderRepo{db}
}

func (r *workOrderRepo) Create(tx *gorm.DB, workOrder *model.WorkOrder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(workOrder).Error
}

func (r *workOrderRepo) FindAll(tenantID uuid.UUID) ([]model.WorkOrder, error) {
	var workOrders []model.WorkOrder
	err := r.db.Preload("Order").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&workOrders).Error
	return workOrders, err
}

func (r *workOrderRepo) FindByID(tenantID, id uuid.UUID) (*model.WorkOrder, error) {
	var workOrder model.WorkOrder
	err := r.db.Preload("Order").Preload("Reservations").
		First(&workOrder, "tenant_id = ? AND id = ?", tenantID, id).Error
	return &workOrder, err
}

func (r *workOrderRepo) FindByOrder(tenantID, orderID uuid.UUID) ([]model.WorkOrder, error) {
	var workOrders []model.WorkOrder
	err := r.db.Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&workOrders).Error
	return workOrders, err
}

func (r *workOrderRepo) Update(workOrder *model.WorkOrder) error {
	return r.db.Save(workOrder).Error
}

func (r *workOrderRepo) Save(tx *gorm.DB, workOrder *model.WorkOrder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(workOrder).Error
}
