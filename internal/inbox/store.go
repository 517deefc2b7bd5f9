package inbox

import (
	"context"
	"fmt"

	"github.com/portfolio/backend/internal/model"
)

// Paths the admin surface navigates between.
const (
	AdminPath = "/admin"
	LoginPath = "/admin/login"
)

// Session identifies an authenticated admin. The zero value means no session.
type Session struct {
	Token string
}

// Valid reports whether s carries a token at all. It says nothing about
// whether the store still accepts it.
func (s Session) Valid() bool { return s.Token != "" }

// User is the identity the store reports for a session.
type User struct {
	ID    string
	Email string
}

// Store is the message store and authentication backend the inbox runs against.
type Store interface {
	// CurrentUser returns the user owning sess, or nil when the session is
	// absent, unknown or expired.
	CurrentUser(ctx context.Context, sess Session) (*User, error)
	// SignIn establishes a session. Bad credentials are reported as *AuthError.
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, sess Session) error
	// ListMessages returns a full snapshot ordered by created_at descending.
	ListMessages(ctx context.Context, sess Session) ([]model.Message, error)
	DeleteMessage(ctx context.Context, sess Session, id string) error
}

// AuthError is a sign-in failure with a reason fit to show the operator.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication failed"
	}
	return e.Reason
}

// FetchError wraps a failed ListMessages.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch messages: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// DeleteError wraps a failed DeleteMessage.
type DeleteError struct {
	ID  string
	Err error
}

func (e *DeleteError) Error() string { return fmt.Sprintf("delete message %s: %v", e.ID, e.Err) }
func (e *DeleteError) Unwrap() error { return e.Err }
