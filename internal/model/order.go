package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the state of a customer order.
type OrderStatus string

const (
	OrderInProduction OrderStatus = "IN_PRODUCTION"
	OrderCompleted    OrderStatus = "COMPLETED"
	OrderCancelled    OrderStatus = "CANCELLED"
)

// Order is a won job: created when a quote is accepted and converted.
type Order struct {
	TenantModel
	QuoteID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"quote_id"`
	Quote        *Quote          `gorm:"foreignKey:QuoteID" json:"quote,omitempty" validate:"-"`
	CustomerName string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	Total        decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total"`
	Status       OrderStatus     `gorm:"type:varchar(20);not null;default:IN_PRODUCTION" json:"status"`
}

// WorkOrderStage is the shop-floor production stage.
type WorkOrderStage string

const (
	StageCutting      WorkOrderStage = "CUTTING"
	StageWelding      WorkOrderStage = "WELDING"
	StageFinishing    WorkOrderStage = "FINISHING"
	StagePintura      WorkOrderStage = "PINTURA"
	StageInstallation WorkOrderStage = "INSTALLATION"
	StageTesting      WorkOrderStage = "TESTING"
	StageFinished     WorkOrderStage = "FINISHED"
)

// WorkOrderStages lists the stages in shop-floor order. Stage updates do not
// validate transitions; skipping or regressing stages is allowed.
var WorkOrderStages = []WorkOrderStage{
	StageCutting, StageWelding, StageFinishing, StagePintura,
	StageInstallation, StageTesting, StageFinished,
}

// WorkOrder is the shop-floor execution record for an order's service.
type WorkOrder struct {
	TenantModel
	OrderID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	Order        *Order             `gorm:"foreignKey:OrderID" json:"order,omitempty" validate:"-"`
	ServiceType  string             `gorm:"type:varchar(100);not null" json:"service_type"`
	Stage        WorkOrderStage     `gorm:"type:varchar(20);not null;default:CUTTING" json:"stage"`
	Team         string             `gorm:"type:varchar(100)" json:"team"`
	StartedAt    *time.Time         `json:"started_at,omitempty"`
	FinishedAt   *time.Time         `json:"finished_at,omitempty"`
	Reservations []StockReservation `gorm:"foreignKey:WorkOrderID" json:"reservations,omitempty" validate:"-"`
}

// WarrantyDays is the standard warranty window issued on completion.
const WarrantyDays = 365

// Warranty is issued when a work order completes.
type Warranty struct {
	TenantModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Terms     string    `gorm:"type:text" json:"terms"`
}
