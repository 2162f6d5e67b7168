package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadStage is the sales pipeline stage of a lead.
type LeadStage string

const (
	LeadNew            LeadStage = "NEW"
	LeadContacted      LeadStage = "CONTACTED"
	LeadVisitScheduled LeadStage = "VISIT_SCHEDULED"
	LeadQuoted         LeadStage = "QUOTED"
	LeadWon            LeadStage = "WON"
	LeadLost           LeadStage = "LOST"
)

// Lead is a prospective customer opportunity.
type Lead struct {
	TenantModel
	CustomerName string    `gorm:"type:varchar(255);not null" json:"customer_name" validate:"required"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone"`
	Email        string    `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Address      string    `gorm:"type:text" json:"address"`
	ServiceType  string    `gorm:"type:varchar(100);not null" json:"service_type" validate:"required"`
	Stage        LeadStage `gorm:"type:varchar(20);not null;default:NEW" json:"stage"`
	Notes        string    `gorm:"type:text" json:"notes"`
}

// VisitStatus is the state of a scheduled site visit.
type VisitStatus string

const (
	VisitScheduled VisitStatus = "SCHEDULED"
	VisitCompleted VisitStatus = "COMPLETED"
	VisitCancelled VisitStatus = "CANCELLED"
)

// SiteVisit is an on-site measurement appointment for a lead. Width/Height are
// recorded by the technician; Area/Perimeter are optional overrides, derived
// from width and height when absent.
type SiteVisit struct {
	TenantModel
	LeadID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"lead_id" validate:"uuid_required"`
	Lead         *Lead       `gorm:"foreignKey:LeadID" json:"lead,omitempty" validate:"-"`
	ScheduledAt  time.Time   `gorm:"not null" json:"scheduled_at" validate:"required"`
	TechnicianID *uuid.UUID  `gorm:"type:uuid" json:"technician_id,omitempty"`
	Status       VisitStatus `gorm:"type:varchar(10);not null;default:SCHEDULED" json:"status"`
	Width        *float64    `json:"width,omitempty"`
	Height       *float64    `json:"height,omitempty"`
	Area         *float64    `json:"area,omitempty"`
	Perimeter    *float64    `json:"perimeter,omitempty"`
	Notes        string      `gorm:"type:text" json:"notes"`
}

// HasMeasurements reports whether the visit recorded anything a BOM formula
// could evaluate against.
func (v *SiteVisit) HasMeasurements() bool {
	return v.Width != nil || v.Height != nil || v.Area != nil || v.Perimeter != nil
}

// QuoteStatus is the state of a quote.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "DRAFT"
	QuoteSent     QuoteStatus = "SENT"
	QuoteAccepted QuoteStatus = "ACCEPTED"
	QuoteRejected QuoteStatus = "REJECTED"
)

// Quote is a priced proposal prepared from a completed site visit.
type Quote struct {
	TenantModel
	LeadID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"lead_id" validate:"uuid_required"`
	Lead       *Lead           `gorm:"foreignKey:LeadID" json:"lead,omitempty" validate:"-"`
	VisitID    *uuid.UUID      `gorm:"type:uuid" json:"visit_id,omitempty"`
	Visit      *SiteVisit      `gorm:"foreignKey:VisitID" json:"visit,omitempty" validate:"-"`
	Status     QuoteStatus     `gorm:"type:varchar(10);not null;default:DRAFT" json:"status"`
	Total      decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	Items      []QuoteItem     `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items" validate:"dive"`
}

// QuoteItem is one priced line on a quote.
type QuoteItem struct {
	TenantModel
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"quote_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description" validate:"required"`
	Quantity    float64         `gorm:"not null;default:1" json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
}

// LineTotal is quantity times unit price.
func (i *QuoteItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromFloat(i.Quantity))
}
