package service

import "errors"

var (
	// ErrUnauthenticated is returned when an operation needs a valid admin session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidSession means the token is unknown.
	ErrInvalidSession = errors.New("invalid_session")
	// ErrSessionExpired means the token is known but past its expiry.
	ErrSessionExpired = errors.New("session_expired")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
