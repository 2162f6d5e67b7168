package repository

import (
	"go-fabshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRepository interface {
	Create(tx *gorm.DB, tenant *model.Tenant) error
	FindByID(id uuid.UUID) (*model.Tenant, error)
	FindBySlug(slug string) (*model.Tenant, error)
}

type tenantRepo struct {
	db *gorm.DB
}

func NewTenantRepo(db *gorm.DB) TenantRepository {
	return &tenantRepo{db}
}

func (r *tenantRepo) Create(tx *gorm.DB, tenant *model.Tenant) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(tenant).Error
}

func (r *tenantRepo) FindByID(id uuid.UUID) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.First(&tenant, "id = ?", id).Error
	return &tenant, err
}

func (r *tenantRepo) FindBySlug(slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.First(&tenant, "slug = ?", slug).Error
	return &tenant, err
}
