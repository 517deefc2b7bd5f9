package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/pkg/auth"
)

// SessionService manages DB-backed admin sessions.
type SessionService struct {
	repo repository.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionService creates a SessionService. A non-positive ttl falls back
// to auth.SessionDuration.
func NewSessionService(repo repository.SessionRepository, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = auth.SessionDuration
	}
	return &SessionService{repo: repo, ttl: ttl, now: time.Now}
}

// TTL returns the lifetime given to new sessions.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// CreateSession generates a new opaque token, stores it in DB, and returns the session.
func (s *SessionService) CreateSession(ctx context.Context, userID string) (*model.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	now := s.now()
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	slog.Debug("session created", "user_id", userID, "expires_at", session.ExpiresAt)
	return session, nil
}

// ValidateSession validates a session token and returns the user ID.
// Expired sessions are deleted on sight.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSession
	}
	session, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidSession
		}
		return "", fmt.Errorf("find session: %w", err)
	}
	if session.Expired(s.now()) {
		_ = s.repo.DeleteByToken(ctx, token)
		return "", ErrSessionExpired
	}
	return session.UserID, nil
}

// DeleteSession removes a session (logout).
func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	return s.repo.DeleteByToken(ctx, token)
}

// PurgeExpired deletes every expired session and returns how many went.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
