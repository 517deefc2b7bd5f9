package inbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// LoginState is a state of the login flow.
type LoginState int

const (
	LoginIdle LoginState = iota
	LoginSubmitting
	LoginSuccess
	LoginFailed
)

func (s LoginState) String() string {
	switch s {
	case LoginSubmitting:
		return "submitting"
	case LoginSuccess:
		return "success"
	case LoginFailed:
		return "failed"
	default:
		return "idle"
	}
}

// DefaultLoginFailure is shown when the store gives no usable reason.
const DefaultLoginFailure = "Login failed"

// LoginResult is the outcome of one Submit call.
type LoginResult struct {
	// State is LoginSuccess, LoginFailed, or LoginSubmitting when the call
	// was dropped because another submission was still in flight.
	State   LoginState
	Session Session
	Reason  string
}

// Ignored reports whether the submission never reached the store.
func (r LoginResult) Ignored() bool { return r.State == LoginSubmitting }

// LoginController submits credentials to the store, at most one at a time.
type LoginController struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	state  LoginState
	reason string
}

// NewLoginController creates an idle LoginController.
func NewLoginController(store Store) *LoginController {
	return &LoginController{
		store:  store,
		logger: slog.Default().With("component", "inbox.login"),
	}
}

// State returns the current state. After a failure the controller is back
// in LoginIdle and Reason holds the failure text.
func (c *LoginController) State() LoginState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reason returns the reason for the most recent failure, or "".
func (c *LoginController) Reason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Submit signs in with email and password. Empty credentials are expected to
// be rejected by the form before reaching here. A call made while another
// is in flight returns immediately without calling the store.
func (c *LoginController) Submit(ctx context.Context, email, password string) LoginResult {
	c.mu.Lock()
	if c.state == LoginSubmitting {
		c.mu.Unlock()
		return LoginResult{State: LoginSubmitting}
	}
	c.state = LoginSubmitting
	c.reason = ""
	c.mu.Unlock()

	sess, err := c.store.SignIn(ctx, email, password)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil && !sess.Valid() {
		err = errors.New("store returned an empty session")
	}
	if err != nil {
		c.reason = failureReason(err)
		c.state = LoginIdle
		c.logger.Info("sign-in failed", "email", email, "error", err)
		return LoginResult{State: LoginFailed, Reason: c.reason}
	}
	c.state = LoginSuccess
	c.logger.Info("sign-in succeeded", "email", email)
	return LoginResult{State: LoginSuccess, Session: sess}
}

// failureReason shows *AuthError reasons verbatim. Anything else is an
// infrastructure failure and gets the generic text.
func failureReason(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) && ae.Reason != "" {
		return ae.Reason
	}
	return DefaultLoginFailure
}
