package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockHealth is the three-level display classification of an item's stock.
type StockHealth string

const (
	HealthOK       StockHealth = "OK"
	HealthLow      StockHealth = "LOW"
	HealthCritical StockHealth = "CRITICAL"
)

// StockItem is one material in the shop's inventory. Quantity and Reserved
// are mutated only by the reservation service and stock adjustments; nothing
// enforces reserved <= quantity, so Available can go negative (backorder).
type StockItem struct {
	TenantModel
	SKU          string          `gorm:"type:varchar(50);index;not null" json:"sku" validate:"required"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category     string          `gorm:"type:varchar(100)" json:"category"`
	Unit         string          `gorm:"type:varchar(20)" json:"unit"`
	Quantity     float64         `gorm:"default:0" json:"quantity"` // on hand
	Reserved     float64         `gorm:"default:0" json:"reserved"`
	MinLevel     float64         `gorm:"default:0" json:"min_level"`
	ReorderPoint float64         `gorm:"default:0" json:"reorder_point"`
	LeadTimeDays int             `gorm:"default:0" json:"lead_time_days"`
	AvgCost      decimal.Decimal `gorm:"type:decimal(14,4);default:0" json:"avg_cost"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
}

// Available is the on-hand quantity not held by open reservations.
func (s *StockItem) Available() float64 {
	return s.Quantity - s.Reserved
}

// Health classifies the item for display. Monotonic in Available: lowering
// availability only ever moves the status toward CRITICAL.
func (s *StockItem) Health() StockHealth {
	available := s.Available()
	switch {
	case available <= 0:
		return HealthCritical
	case available <= s.MinLevel:
		return HealthLow
	default:
		return HealthOK
	}
}

// ReservationStatus is the lifecycle state of a stock reservation.
type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "RESERVED"
	ReservationConsumed  ReservationStatus = "CONSUMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// StockReservation is a soft hold on stock created when a quote converts into
// an order. RESERVED -> CONSUMED on work order completion, RESERVED ->
// CANCELLED on order cancellation.
type StockReservation struct {
	TenantModel
	WorkOrderID uuid.UUID         `gorm:"type:uuid;not null;index" json:"work_order_id" validate:"uuid_required"`
	StockItemID uuid.UUID         `gorm:"type:uuid;not null;index" json:"stock_item_id" validate:"uuid_required"`
	StockItem   *StockItem        `gorm:"foreignKey:StockItemID" json:"stock_item,omitempty" validate:"-"`
	Quantity    float64           `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Status      ReservationStatus `gorm:"type:varchar(10);not null;default:RESERVED" json:"status"`
}

// MovementType marks the direction of a manual stock adjustment.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockMovement is the audit log of manual stock adjustments (receipts,
// corrections, waste). Reservation and consumption bookkeeping is tracked on
// StockReservation instead.
type StockMovement struct {
	TenantModel
	StockItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"stock_item_id" validate:"uuid_required"`
	StockItem   *StockItem      `gorm:"foreignKey:StockItemID" json:"stock_item,omitempty" validate:"-"`
	Type        MovementType    `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity    float64         `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(14,4);default:0" json:"unit_cost"`
	Note        string          `json:"note"`
}

// PurchaseSuggestion is a derived replenishment proposal, never persisted.
// Suggested quantity follows the doubling heuristic: reorderPoint*2 - available.
type PurchaseSuggestion struct {
	StockItemID  uuid.UUID   `json:"stock_item_id"`
	SKU          string      `json:"sku"`
	Name         string      `json:"name"`
	Available    float64     `json:"available"`
	ReorderPoint float64     `json:"reorder_point"`
	SuggestedQty float64     `json:"suggested_qty"`
	LeadTimeDays int         `json:"lead_time_days"`
	Health       StockHealth `json:"health"`
}
