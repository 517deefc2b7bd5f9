package repository

import (
	"context"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// DB reports whether the database is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// MessageRepository persists contact-form messages.
type MessageRepository interface {
	// Save inserts msg and fills in ID and CreatedAt.
	Save(ctx context.Context, msg *model.Message) error
	// List returns every message, newest first.
	List(ctx context.Context) ([]model.Message, error)
	// Delete removes the message with the given id. ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// AdminUserRepository persists admin accounts.
type AdminUserRepository interface {
	FindByID(ctx context.Context, id string) (*model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	Create(ctx context.Context, u *model.AdminUser) error
}

// SessionRepository handles persistence for admin sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
