package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
	"go-fabshop/internal/ws"
	"go-fabshop/pkg/jwt"
	"go-fabshop/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSlugTaken          = errors.New("workspace slug already taken")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	// Signup provisions a new tenant together with its MASTER_ADMIN user.
	Signup(req *SignupRequest) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type SignupRequest struct {
	TenantName string `json:"tenant_name" validate:"required"`
	TenantSlug string `json:"tenant_slug" validate:"required,lowercase,alphanum"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"full_name" validate:"required"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo      repository.UserRepository
	tenantRepo    repository.TenantRepository
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	roleRepo repository.RoleRepository,
	privilegeRepo repository.PrivilegeRepository,
	db *gorm.DB,
	hub *ws.Hub,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		tenantRepo:    tenantRepo,
		roleRepo:      roleRepo,
		privilegeRepo: privilegeRepo,
		db:            db,
		wsHub:         hub,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Profile auto-provisioning: a user row created without a role (e.g.
	// imported or provisioned externally) gets the operator defaults on
	// first login.
	if user.RoleID == nil {
		if err := s.provisionProfile(user); err != nil {
			log.Printf("Warning: failed to auto-provision profile for %s: %v", user.Email, err)
		}
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	// Single session: a fresh token version invalidates older tokens.
	newTokenVersion := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, newTokenVersion); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.TenantID, user.Email, user.FullName, roleCode, user.GetPrivilegeCodes(), newTokenVersion)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

// provisionProfile assigns the OPERATOR role and its privilege defaults to a
// user that has none.
func (s *authService) provisionProfile(user *model.User) error {
	role, err := s.roleRepo.FindByCode(model.RoleOperator)
	if err != nil {
		return err
	}
	user.RoleID = &role.ID
	user.Role = role
	user.Privileges = role.Privileges
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	return s.userRepo.UpdatePrivileges(user.ID, role.Privileges)
}

func (s *authService) Signup(req *SignupRequest) (*LoginResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, _ := s.tenantRepo.FindBySlug(req.TenantSlug); existing != nil && existing.ID != uuid.Nil {
		return nil, ErrSlugTaken
	}

	masterRole, err := s.roleRepo.FindByCode(model.RoleMasterAdmin)
	if err != nil {
		return nil, err
	}

	tenant := model.Tenant{Name: req.TenantName, Slug: req.TenantSlug, IsActive: true}
	tenant.CreatedBy = "signup"
	tenant.UpdatedBy = "signup"

	user := model.User{
		Email:      req.Email,
		FullName:   req.FullName,
		RoleID:     &masterRole.ID,
		IsActive:   true,
		Privileges: masterRole.Privileges,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.tenantRepo.Create(tx, &tenant); err != nil {
			return err
		}
		user.TenantID = tenant.ID
		user.CreatedBy = "signup"
		user.UpdatedBy = "signup"
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Tenant %q provisioned with admin %s", tenant.Slug, user.Email)
	return s.Login(req.Email, req.Password)
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, jwt.ErrInvalidToken
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	return s.userRepo.UpdateLastSeen(userID)
}
