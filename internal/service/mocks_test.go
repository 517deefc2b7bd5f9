package service

import (
	"context"
	"errors"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// mockMessageRepository: in-memory stub for testing
// ---------------------------------------------------------------------------

type mockMessageRepository struct {
	saveFunc   func(ctx context.Context, msg *model.Message) error
	listFunc   func(ctx context.Context) ([]model.Message, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockMessageRepository) Save(ctx context.Context, msg *model.Message) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepository) List(ctx context.Context) ([]model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockMessageRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockSessionRepository
// ---------------------------------------------------------------------------

type mockSessionRepository struct {
	createFunc        func(ctx context.Context, s *model.Session) error
	findByTokenFunc   func(ctx context.Context, token string) (*model.Session, error)
	deleteByTokenFunc func(ctx context.Context, token string) error
	deleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, s *model.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if m.findByTokenFunc != nil {
		return m.findByTokenFunc(ctx, token)
	}
	return nil, repository.ErrNotFound
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFunc != nil {
		return m.deleteByTokenFunc(ctx, token)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// mockAdminUserRepository
// ---------------------------------------------------------------------------

type mockAdminUserRepository struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.AdminUser, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.AdminUser, error)
	createFunc      func(ctx context.Context, u *model.AdminUser) error
}

func (m *mockAdminUserRepository) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockAdminUserRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockAdminUserRepository) Create(ctx context.Context, u *model.AdminUser) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	return errors.New("create not stubbed")
}
