package service

import (
	"context"
	"errors"
	"testing"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/pkg/auth"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return h
}

func TestAuthService_Authenticate_OK(t *testing.T) {
	hash := hashed(t, "s3cret")
	repo := &mockAdminUserRepository{
		findByEmailFunc: func(_ context.Context, email string) (*model.AdminUser, error) {
			if email != "admin@example.com" {
				t.Errorf("expected trimmed email, got %q", email)
			}
			return &model.AdminUser{ID: "a1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo)

	u, err := svc.Authenticate(context.Background(), "  admin@example.com ", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "a1" {
		t.Errorf("expected a1, got %q", u.ID)
	}
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	hash := hashed(t, "s3cret")
	repo := &mockAdminUserRepository{
		findByEmailFunc: func(context.Context, string) (*model.AdminUser, error) {
			return &model.AdminUser{ID: "a1", PasswordHash: hash}, nil
		},
	}
	_, err := NewAuthService(repo).Authenticate(context.Background(), "admin@example.com", "nope")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownEmail(t *testing.T) {
	_, err := NewAuthService(&mockAdminUserRepository{}).Authenticate(context.Background(), "who@example.com", "x")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_RepositoryError(t *testing.T) {
	repo := &mockAdminUserRepository{
		findByEmailFunc: func(context.Context, string) (*model.AdminUser, error) {
			return nil, errors.New("db down")
		},
	}
	_, err := NewAuthService(repo).Authenticate(context.Background(), "a@example.com", "x")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected infrastructure error, got %v", err)
	}
}

func TestAuthService_CreateAdmin_HashesAndNormalizes(t *testing.T) {
	var created *model.AdminUser
	repo := &mockAdminUserRepository{
		createFunc: func(_ context.Context, u *model.AdminUser) error {
			u.ID = "new"
			created = u
			return nil
		},
	}
	u, err := NewAuthService(repo).CreateAdmin(context.Background(), " Admin@Example.COM", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Email != "admin@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.PasswordHash == "pw" || !auth.ComparePassword(created.PasswordHash, "pw") {
		t.Error("expected bcrypt hash of the password")
	}
	if u.ID != "new" {
		t.Errorf("expected id from repository, got %q", u.ID)
	}
}

func TestAuthService_CreateAdmin_Duplicate(t *testing.T) {
	repo := &mockAdminUserRepository{
		createFunc: func(context.Context, *model.AdminUser) error { return repository.ErrAlreadyExists },
	}
	_, err := NewAuthService(repo).CreateAdmin(context.Background(), "a@example.com", "pw")
	if !errors.Is(err, repository.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}
