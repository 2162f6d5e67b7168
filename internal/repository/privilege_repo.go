package repository

import (
	"errors"

	"go-fabshop/internal/model"

	"gorm.io/gorm"
)

type PrivilegeRepository interface {
	FindAll() ([]model.Privilege, error)
	FindByCodes(codes []string) ([]model.Privilege, error)
	SeedDefaults() error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

func (r *privilegeRepo) FindAll() ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := r.db.Order("code ASC").Find(&privileges).Error
	return privileges, err
}

func (r *privilegeRepo) FindByCodes(codes []string) ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := r.db.Where("code IN ?", codes).Find(&privileges).Error
	return privileges, err
}

// SeedDefaults inserts the default privileges if missing.
func (r *privilegeRepo) SeedDefaults() error {
	for _, privilege := range model.DefaultPrivileges {
		var existing model.Privilege
		if err := r.db.First(&existing, "code = ?", privilege.Code).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.Create(&privilege).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
