package auth

import "net/http"

// cookiePath scopes both admin cookies to the admin surface.
const cookiePath = "/admin"

// SessionToken returns the raw session cookie value, or "" when absent.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName())
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie writes the session cookie under /admin. secure should be
// true whenever the browser reaches the site over HTTPS, including through a
// TLS-terminating proxy.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName(),
		Value:    token,
		Path:     cookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName(),
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CSRFToken returns the CSRF cookie value, or "" when absent.
func CSRFToken(r *http.Request) string {
	cookie, err := r.Cookie(CSRFCookieName())
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCSRFCookie writes the double-submit CSRF cookie.
func SetCSRFCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName(),
		Value:    token,
		Path:     cookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
