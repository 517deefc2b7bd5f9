package inbox

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Access is the outcome of a session check.
type Access int

const (
	Unauthenticated Access = iota
	Authenticated
)

func (a Access) String() string {
	if a == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Guard gates the admin surface on an authenticated session.
type Guard struct {
	store  Store
	logger *slog.Logger
}

// NewGuard creates a Guard backed by store.
func NewGuard(store Store) *Guard {
	return &Guard{store: store, logger: slog.Default().With("component", "inbox.guard")}
}

// CheckAccess asks the store for the session's user. A failed lookup counts
// as Unauthenticated and is not retried.
func (g *Guard) CheckAccess(ctx context.Context, sess Session) Access {
	if !sess.Valid() {
		return Unauthenticated
	}
	user, err := g.store.CurrentUser(ctx, sess)
	if err != nil {
		g.logger.Warn("session check failed", "error", err)
		return Unauthenticated
	}
	if user == nil {
		return Unauthenticated
	}
	return Authenticated
}

var errDenied = errors.New("access denied")

// Enter is the admin-surface entry point. It runs the access check and the
// first Load concurrently; neither waits on the other. When access is denied
// the controller is discarded and nil is returned, so nothing it fetched can
// be rendered.
func Enter(ctx context.Context, store Store, sess Session) (*Controller, Access) {
	c := NewController(store, sess)
	guard := NewGuard(store)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if guard.CheckAccess(gctx, sess) != Authenticated {
			return errDenied
		}
		return nil
	})
	eg.Go(func() error {
		_ = c.Load(gctx)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, Unauthenticated
	}
	return c, Authenticated
}
