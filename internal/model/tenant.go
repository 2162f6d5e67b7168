package model

// Tenant is one customer organization (a fabrication shop). All business rows
// reference a tenant; tenants themselves are global.
type Tenant struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Slug     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug" validate:"required,lowercase"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
