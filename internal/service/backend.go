package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/portfolio/backend/internal/inbox"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
)

// invalidCredentialsReason is the operator-facing sign-in failure text.
const invalidCredentialsReason = "Invalid login credentials"

// Backend is the message store the admin inbox runs against. It gates every
// message operation on a valid session, the way row-level security would.
type Backend struct {
	auth     AuthService
	sessions *SessionService
	messages MessageService
	logger   *slog.Logger
}

var _ inbox.Store = (*Backend)(nil)

// NewBackend wires the three services into an inbox.Store.
func NewBackend(authSvc AuthService, sessions *SessionService, messages MessageService) *Backend {
	return &Backend{
		auth:     authSvc,
		sessions: sessions,
		messages: messages,
		logger:   slog.Default().With("component", "backend"),
	}
}

// CurrentUser resolves sess to its admin, or nil when the session is absent,
// unknown, expired, or its admin no longer exists.
func (b *Backend) CurrentUser(ctx context.Context, sess inbox.Session) (*inbox.User, error) {
	if !sess.Valid() {
		return nil, nil
	}
	userID, err := b.sessions.ValidateSession(ctx, sess.Token)
	if err != nil {
		if isSessionRejection(err) {
			return nil, nil
		}
		return nil, err
	}
	u, err := b.auth.FindAdmin(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &inbox.User{ID: u.ID, Email: u.Email}, nil
}

// SignIn checks credentials and opens a session.
func (b *Backend) SignIn(ctx context.Context, email, password string) (inbox.Session, error) {
	u, err := b.auth.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return inbox.Session{}, &inbox.AuthError{Reason: invalidCredentialsReason}
		}
		return inbox.Session{}, err
	}
	s, err := b.sessions.CreateSession(ctx, u.ID)
	if err != nil {
		return inbox.Session{}, err
	}
	b.logger.Info("admin signed in", "user_id", u.ID)
	return inbox.Session{Token: s.Token}, nil
}

// SignOut deletes the session. Signing out without a session is a no-op.
func (b *Backend) SignOut(ctx context.Context, sess inbox.Session) error {
	if !sess.Valid() {
		return nil
	}
	return b.sessions.DeleteSession(ctx, sess.Token)
}

// ListMessages returns every message, newest first.
func (b *Backend) ListMessages(ctx context.Context, sess inbox.Session) ([]model.Message, error) {
	if err := b.authorize(ctx, sess); err != nil {
		return nil, err
	}
	return b.messages.List(ctx)
}

// DeleteMessage removes one message.
func (b *Backend) DeleteMessage(ctx context.Context, sess inbox.Session, id string) error {
	if err := b.authorize(ctx, sess); err != nil {
		return err
	}
	return b.messages.Delete(ctx, id)
}

func (b *Backend) authorize(ctx context.Context, sess inbox.Session) error {
	if !sess.Valid() {
		return ErrUnauthenticated
	}
	if _, err := b.sessions.ValidateSession(ctx, sess.Token); err != nil {
		if isSessionRejection(err) {
			return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		return err
	}
	return nil
}

func isSessionRejection(err error) bool {
	return errors.Is(err, ErrInvalidSession) || errors.Is(err, ErrSessionExpired)
}
