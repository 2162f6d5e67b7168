package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
)

func newUserService(t *testing.T, db *gorm.DB) UserService {
	t.Helper()
	if err := repository.NewPrivilegeRepo(db).SeedDefaults(); err != nil {
		t.Fatalf("seed privileges: %v", err)
	}
	if err := repository.NewRoleRepo(db).SeedDefaults(); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return NewUserService(
		repository.NewUserRepo(db),
		repository.NewPrivilegeRepo(db),
		repository.NewRoleRepo(db),
	)
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newUserService(t, db)

	resp, err := svc.CreateUser(tenantID, &CreateUserRequest{
		Email:    "welder@example.com",
		Password: "secret-pass-123",
		FullName: "Welder One",
		RoleCode: model.RoleOperator,
	}, "admin")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if resp.TenantID != tenantID {
		t.Errorf("tenant = %s, want %s", resp.TenantID, tenantID)
	}
	if resp.RoleID == nil {
		t.Error("role not assigned")
	}

	// Duplicate email is rejected even across tenants.
	_, err = svc.CreateUser(uuid.New(), &CreateUserRequest{
		Email:    "welder@example.com",
		Password: "secret-pass-123",
		FullName: "Other Welder",
		RoleCode: model.RoleOperator,
	}, "admin")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}

	// Unknown role is rejected.
	_, err = svc.CreateUser(tenantID, &CreateUserRequest{
		Email:    "welder2@example.com",
		Password: "secret-pass-123",
		FullName: "Welder Two",
		RoleCode: "SUPERVISOR",
	}, "admin")
	if err == nil {
		t.Fatal("CreateUser accepted an unknown role")
	}
}

func TestGetUserRejectsCrossTenant(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newUserService(t, db)

	created, err := svc.CreateUser(tenantID, &CreateUserRequest{
		Email:    "welder@example.com",
		Password: "secret-pass-123",
		FullName: "Welder One",
		RoleCode: model.RoleOperator,
	}, "admin")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := svc.GetUser(tenantID, created.ID); err != nil {
		t.Fatalf("GetUser same tenant: %v", err)
	}
	if _, err := svc.GetUser(uuid.New(), created.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("cross-tenant GetUser err = %v, want ErrUserNotFound", err)
	}
	if err := svc.DeleteUser(uuid.New(), created.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("cross-tenant DeleteUser err = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newUserService(t, db)

	created, err := svc.CreateUser(tenantID, &CreateUserRequest{
		Email:    "welder@example.com",
		Password: "secret-pass-123",
		FullName: "Welder One",
		RoleCode: model.RoleOperator,
	}, "admin")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	inactive := false
	updated, err := svc.UpdateUser(tenantID, created.ID, &UpdateUserRequest{
		FullName: "Welder Renamed",
		RoleCode: model.RoleAdmin,
		IsActive: &inactive,
	}, "admin")
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.FullName != "Welder Renamed" {
		t.Errorf("full name = %q, want Welder Renamed", updated.FullName)
	}
	if updated.Role == nil || updated.Role.Code != model.RoleAdmin {
		t.Errorf("role = %+v, want ADMIN", updated.Role)
	}
	if updated.IsActive {
		t.Error("user still active")
	}
}

func TestUpdateUserPrivileges(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()
	svc := newUserService(t, db)

	created, err := svc.CreateUser(tenantID, &CreateUserRequest{
		Email:    "welder@example.com",
		Password: "secret-pass-123",
		FullName: "Welder One",
		RoleCode: model.RoleOperator,
	}, "admin")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	updated, err := svc.UpdateUserPrivileges(tenantID, created.ID, []string{"stock:view", "workorder:update"})
	if err != nil {
		t.Fatalf("UpdateUserPrivileges: %v", err)
	}
	if len(updated.Privileges) != 2 {
		t.Fatalf("got %d privileges, want 2: %+v", len(updated.Privileges), updated.Privileges)
	}
	codes := map[string]bool{}
	for _, p := range updated.Privileges {
		codes[p.Code] = true
	}
	if !codes["stock:view"] || !codes["workorder:update"] {
		t.Errorf("privileges = %v, want stock:view and workorder:update", codes)
	}
}
