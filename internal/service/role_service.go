package service

import (
	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
)

type RoleService interface {
	GetRoles() ([]model.Role, error)
	GetPrivileges() ([]model.Privilege, error)
}

type roleService struct {
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
}

func NewRoleService(roleRepo repository.RoleRepository, privilegeRepo repository.PrivilegeRepository) RoleService {
	return &roleService{roleRepo: roleRepo, privilegeRepo: privilegeRepo}
}

func (s *roleService) GetRoles() ([]model.Role, error) {
	return s.roleRepo.FindAll()
}

func (s *roleService) GetPrivileges() ([]model.Privilege, error) {
	return s.privilegeRepo.FindAll()
}
