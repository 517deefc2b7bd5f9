package service

import (
	"context"

	"github.com/portfolio/backend/internal/model"
)

// AuthService covers admin accounts and credential checks.
type AuthService interface {
	// Authenticate returns the admin for email if password matches.
	// ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*model.AdminUser, error)
	// FindAdmin returns the admin with the given ID.
	FindAdmin(ctx context.Context, id string) (*model.AdminUser, error)
	// CreateAdmin registers an admin with a bcrypt-hashed password.
	CreateAdmin(ctx context.Context, email, password string) (*model.AdminUser, error)
}
