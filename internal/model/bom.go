package model

import "github.com/google/uuid"

// ServiceBOMTemplate is the bill of materials for one service type: which
// stock items a job needs and how each quantity is computed from the site
// visit's measurements. One template per service type per tenant.
type ServiceBOMTemplate struct {
	TenantModel
	ServiceType string        `gorm:"type:varchar(100);not null;index" json:"service_type" validate:"required"`
	Name        string        `gorm:"type:varchar(255)" json:"name"`
	Lines       []BOMLineItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"lines" validate:"dive"`
}

// BOMLineItem is one template line. QuantityFormula is free text ("area * 1.2",
// "fixed: 3") validated by parsing at save time; it stays textual in storage so
// legacy rows remain readable.
type BOMLineItem struct {
	TenantModel
	TemplateID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"template_id"`
	StockItemID     uuid.UUID  `gorm:"type:uuid;not null" json:"stock_item_id" validate:"uuid_required"`
	StockItem       *StockItem `gorm:"foreignKey:StockItemID" json:"stock_item,omitempty" validate:"-"`
	QuantityFormula string     `gorm:"type:varchar(100);not null" json:"quantity_formula" validate:"required,bom_formula"`
	SortOrder       int        `gorm:"default:0" json:"sort_order"`
}
