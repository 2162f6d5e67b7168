package repository

import (
	"time"

	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(tenantID uuid.UUID) ([]model.StockMovement, error)
	FindByStockItem(tenantID, stockItemID uuid.UUID) ([]model.StockMovement, error)
	GetMovementSeries(tenantID uuid.UUID, startDate, endDate time.Time) ([]MovementSeriesPoint, error)
}

// MovementSeriesPoint is one day of aggregated in/out movement for charts.
type MovementSeriesPoint struct {
	Date     string  `json:"date"`
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(movement).Error
}

func (r *stockMovementRepo) FindAll(tenantID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Preload("StockItem").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindByStockItem(tenantID, stockItemID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Where("tenant_id = ? AND stock_item_id = ?", tenantID, stockItemID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) GetMovementSeries(tenantID uuid.UUID, startDate, endDate time.Time) ([]MovementSeriesPoint, error) {
	var results []MovementSeriesPoint

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("tenant_id = ? AND created_at BETWEEN ? AND ?", tenantID, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p MovementSeriesPoint
		if err := rows.Scan(&p.Date, &p.Inbound, &p.Outbound); err != nil {
			return nil, err
		}
		results = append(results, p)
	}

	return results, nil
}
