package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/auth"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	// Permissions resolves the structured permission map for a role,
	// falling back to the built-in defaults when none is stored.
	Permissions(ctx context.Context, role string) (models.PermissionMap, error)
}

type RegisterInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type LoginResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
	logger    *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string, jwtTTL time.Duration, logger *logrus.Logger) UserService {
	return &userService{userRepo: userRepo, jwtSecret: jwtSecret, jwtTTL: jwtTTL, logger: logger}
}

func validRole(role string) bool {
	switch models.UserRole(role) {
	case models.RoleAdmin, models.RoleManager, models.RoleSales, models.RoleTechnician, models.RoleCustomer:
		return true
	}
	return false
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.Validation("email", "a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.Validation("password", "password must be at least 8 characters")
	}
	role := input.Role
	if role == "" {
		role = string(models.RoleCustomer)
	}
	if !validRole(role) {
		return nil, apperrors.Validation("role", fmt.Sprintf("unknown role %q", role))
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       email,
		Password:    hash,
		PhoneNumber: input.PhoneNumber,
		Role:        role,
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, conflictOr(err, fmt.Sprintf("user with email %s already exists", email))
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("email", "invalid email or password")
		}
		return nil, apperrors.Internal(err)
	}
	if !user.IsActive {
		return nil, apperrors.InvalidState("account is deactivated")
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.Validation("email", "invalid email or password")
	}

	token, expiresAt, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Email, user.Role, s.jwtTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return user, nil
}

func (s *userService) GetUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *userService) Permissions(ctx context.Context, role string) (models.PermissionMap, error) {
	rp, err := s.userRepo.GetRolePermissions(ctx, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultPermissions(models.UserRole(role)), nil
		}
		return nil, apperrors.Internal(err)
	}
	if err := rp.Permissions.Validate(); err != nil {
		return nil, apperrors.Internal(err)
	}
	return rp.Permissions, nil
}
