package service

import (
	"fmt"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
	"go-fabshop/pkg/validator"

	"github.com/google/uuid"
)

type UserService interface {
	GetUsers(tenantID uuid.UUID) ([]model.UserResponse, error)
	GetUser(tenantID, id uuid.UUID) (*model.UserResponse, error)
	CreateUser(tenantID uuid.UUID, req *CreateUserRequest, actorID string) (*model.UserResponse, error)
	UpdateUser(tenantID, id uuid.UUID, req *UpdateUserRequest, actorID string) (*model.UserResponse, error)
	DeleteUser(tenantID, id uuid.UUID) error
	UpdateUserPrivileges(tenantID, id uuid.UUID, privilegeCodes []string) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	RoleCode    string `json:"role_code" validate:"required"`
}

type UpdateUserRequest struct {
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	RoleCode    string  `json:"role_code"`
	IsActive    *bool   `json:"is_active"`
	Password    *string `json:"password"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

func (s *userService) GetUsers(tenantID uuid.UUID) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

// findInTenant rejects lookups that cross the tenant boundary.
func (s *userService) findInTenant(tenantID, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.TenantID != tenantID {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetUser(tenantID, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.findInTenant(tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) CreateUser(tenantID uuid.UUID, req *CreateUserRequest, actorID string) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailTaken
	}

	role, err := s.roleRepo.FindByCode(req.RoleCode)
	if err != nil {
		return nil, fmt.Errorf("unknown role %q", req.RoleCode)
	}

	user := model.User{
		TenantID:    tenantID,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &role.ID,
		IsActive:    true,
		Privileges:  role.Privileges,
	}
	user.CreatedBy = actorID
	user.UpdatedBy = actorID
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(&user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(tenantID, id uuid.UUID, req *UpdateUserRequest, actorID string) (*model.UserResponse, error) {
	user, err := s.findInTenant(tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.RoleCode != "" {
		role, err := s.roleRepo.FindByCode(req.RoleCode)
		if err != nil {
			return nil, fmt.Errorf("unknown role %q", req.RoleCode)
		}
		user.RoleID = &role.ID
		user.Role = role
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}
	user.UpdatedBy = actorID

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(tenantID, id uuid.UUID) error {
	if _, err := s.findInTenant(tenantID, id); err != nil {
		return err
	}
	return s.userRepo.Delete(tenantID, id)
}

func (s *userService) UpdateUserPrivileges(tenantID, id uuid.UUID, privilegeCodes []string) (*model.UserResponse, error) {
	user, err := s.findInTenant(tenantID, id)
	if err != nil {
		return nil, err
	}

	privileges, err := s.privilegeRepo.FindByCodes(privilegeCodes)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePrivileges(user.ID, privileges); err != nil {
		return nil, err
	}

	user, err = s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
