package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "stock:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Stock Item"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Stock management
	{Code: "stock:view", Name: "View Stock"},
	{Code: "stock:create", Name: "Create Stock Item"},
	{Code: "stock:update", Name: "Update Stock Item"},
	{Code: "stock:adjust", Name: "Adjust Stock"},
	// BOM templates
	{Code: "bom:view", Name: "View BOM Template"},
	{Code: "bom:manage", Name: "Manage BOM Templates"},
	// Sales pipeline
	{Code: "lead:view", Name: "View Lead"},
	{Code: "lead:manage", Name: "Manage Leads"},
	{Code: "visit:manage", Name: "Manage Site Visits"},
	{Code: "quote:manage", Name: "Manage Quotes"},
	// Orders and shop floor
	{Code: "order:view", Name: "View Order"},
	{Code: "order:manage", Name: "Manage Orders"},
	{Code: "workorder:update", Name: "Update Work Order"},
	{Code: "workorder:complete", Name: "Complete Work Order"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
