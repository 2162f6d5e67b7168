package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(tx *gorm.DB, reservation *model.StockReservation) error
	FindByWorkOrder(tenantID, workOrderID uuid.UUID) ([]model.StockReservation, error)
	// FindOpenByWorkOrder returns only RESERVED rows, locked for update when
	// run inside a transaction. The status filter is the idempotence guard
	// for consumption: already CONSUMED rows are never selected again.
	FindOpenByWorkOrder(tx *gorm.DB, tenantID, workOrderID uuid.UUID) ([]model.StockReservation, error)
	UpdateStatus(tx *gorm.DB, tenantID, id uuid.UUID, status model.ReservationStatus, updatedBy string) error
}

type reservationRepo struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db}
}

func (r *reservationRepo) Create(tx *gorm.DB, reservation *model.StockReservation) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(reservation).Error
}

func (r *reservationRepo) FindByWorkOrder(tenantID, workOrderID uuid.UUID) ([]model.StockReservation, error) {
	var reservations []model.StockReservation
	err := r.db.Preload("StockItem").
		Where("tenant_id = ? AND work_order_id = ?", tenantID, workOrderID).
		Order("created_at ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) FindOpenByWorkOrder(tx *gorm.DB, tenantID, workOrderID uuid.UUID) ([]model.StockReservation, error) {
	if tx == nil {
		tx = r.db
	}
	var reservations []model.StockReservation
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Where("tenant_id = ? AND work_order_id = ? AND status = ?", tenantID, workOrderID, model.ReservationReserved).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) UpdateStatus(tx *gorm.DB, tenantID, id uuid.UUID, status model.ReservationStatus, updatedBy string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.StockReservation{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}
