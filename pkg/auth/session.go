package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

const sessionCookieName = "portfolio_admin_session"
const csrfCookieName = "portfolio_admin_csrf"

// SessionDuration is the default lifetime of an admin session.
const SessionDuration = 7 * 24 * time.Hour

// tokenBytes yields 64 hex characters.
const tokenBytes = 32

// SessionCookieName is the admin session cookie name.
func SessionCookieName() string {
	return sessionCookieName
}

// CSRFCookieName is the double-submit CSRF cookie name.
func CSRFCookieName() string {
	return csrfCookieName
}

// GenerateSessionToken returns a random opaque token encoded as hex.
func GenerateSessionToken() (string, error) {
	return randomHex(tokenBytes)
}

// GenerateCSRFToken returns a random token for the CSRF cookie.
func GenerateCSRFToken() (string, error) {
	return randomHex(tokenBytes)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
