package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/pkg/auth"
)

// AuthServiceImpl implements AuthService.
type AuthServiceImpl struct {
	adminRepo repository.AdminUserRepository
}

// NewAuthService creates an AuthService over adminRepo.
func NewAuthService(adminRepo repository.AdminUserRepository) AuthService {
	return &AuthServiceImpl{adminRepo: adminRepo}
}

// Authenticate checks email and password against the stored bcrypt hash.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, email, password string) (*model.AdminUser, error) {
	u, err := s.adminRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// keep timing close to the wrong-password path
			auth.ComparePassword("", password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !auth.ComparePassword(u.PasswordHash, password) {
		slog.Debug("password mismatch", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// FindAdmin returns the admin with the given ID.
func (s *AuthServiceImpl) FindAdmin(ctx context.Context, id string) (*model.AdminUser, error) {
	return s.adminRepo.FindByID(ctx, id)
}

// CreateAdmin stores a new admin with a normalized email.
func (s *AuthServiceImpl) CreateAdmin(ctx context.Context, email, password string) (*model.AdminUser, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	}
	if err := s.adminRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	slog.Info("admin created", "user_id", u.ID, "email", u.Email)
	return u, nil
}
