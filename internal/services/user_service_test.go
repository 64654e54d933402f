package services

import (
	"context"
	"testing"
	"time"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepository(db), "test-secret", time.Hour, newTestLogger())
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Jamie",
		LastName:  "Doe",
		Email:     "Jamie.Doe@Example.com",
		Password:  "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "jamie.doe@example.com" {
		t.Errorf("expected lowercased email, got %s", user.Email)
	}
	if user.Role != string(models.RoleCustomer) {
		t.Errorf("expected default customer role, got %s", user.Role)
	}
	if user.Password == "s3cret-pass" {
		t.Error("password stored in plaintext")
	}

	result, err := svc.Login(context.Background(), "jamie.doe@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Error("expected expiry in the future")
	}

	if _, err := svc.Login(context.Background(), "jamie.doe@example.com", "wrong"); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error for wrong password, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	input := RegisterInput{FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "longenough"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "nope", Password: "longenough"}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "longenough", Role: "janitor"}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
}

func TestPermissionsFallBackToDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	perms, err := svc.Permissions(context.Background(), string(models.RoleSales))
	if err != nil {
		t.Fatalf("Permissions: %v", err)
	}
	if !perms.Allows(models.ResourceOrders, models.ActionCreate) {
		t.Error("expected sales to create orders by default")
	}
	if perms.Allows(models.ResourceUsers, models.ActionDelete) {
		t.Error("did not expect sales to delete users")
	}
}

func TestPermissionsStoredOverrideDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	stored := &models.RolePermission{
		Role: string(models.RoleSales),
		Permissions: models.PermissionMap{
			models.ResourceCars: {models.ActionRead: true},
		},
	}
	if err := db.Create(stored).Error; err != nil {
		t.Fatalf("store permissions: %v", err)
	}

	perms, err := svc.Permissions(context.Background(), string(models.RoleSales))
	if err != nil {
		t.Fatalf("Permissions: %v", err)
	}
	if perms.Allows(models.ResourceOrders, models.ActionCreate) {
		t.Error("stored map should replace defaults entirely")
	}
	if !perms.Allows(models.ResourceCars, models.ActionRead) {
		t.Error("expected stored read permission on cars")
	}
}
