package handler

import (
	"bytes"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/portfolio/backend/internal/inbox"
	"github.com/portfolio/backend/pkg/auth"
)

// inboxPath renders the current workspace without reloading it.
const inboxPath = "/admin/inbox"

// AdminConfig holds configuration for the AdminHandler.
type AdminConfig struct {
	// SessionTTL is the session cookie lifetime; it should match the
	// session service TTL.
	SessionTTL time.Duration
	// SecureCookies marks the session and CSRF cookies Secure. TLS usually
	// ends at the proxy, so this cannot be read off the request.
	SecureCookies bool
}

// AdminHandler serves the admin inbox pages.
//
// Each GET /admin builds a fresh inbox.Controller (the workspace) keyed by
// session token. Select, delete and notice routes act on that workspace, so
// a selection or a pending delete survives the redirect that follows a POST.
// Login controllers are keyed by the CSRF cookie so a double-submitted form
// reaches the store once.
type AdminHandler struct {
	store  inbox.Store
	guard  *inbox.Guard
	pages  *pages
	cfg    AdminConfig
	logger *slog.Logger

	now        func() time.Time
	mu         sync.Mutex
	workspaces map[string]workspaceEntry
	logins     map[string]*inbox.LoginController
}

type workspaceEntry struct {
	c      *inbox.Controller
	opened time.Time
}

// NewAdminHandler parses the admin templates and returns a handler backed by store.
func NewAdminHandler(store inbox.Store, cfg AdminConfig) (*AdminHandler, error) {
	p, err := parsePages()
	if err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = auth.SessionDuration
	}
	return &AdminHandler{
		store:      store,
		guard:      inbox.NewGuard(store),
		pages:      p,
		cfg:        cfg,
		logger:     slog.Default().With("component", "admin"),
		now:        time.Now,
		workspaces: make(map[string]workspaceEntry),
		logins:     make(map[string]*inbox.LoginController),
	}, nil
}

// Register mounts the admin routes on mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin", h.Dashboard)
	mux.HandleFunc("GET /admin/inbox", h.Inbox)
	mux.HandleFunc("GET /admin/messages/{id}", h.ShowMessage)
	mux.HandleFunc("POST /admin/messages/{id}/delete", h.RequestDelete)
	mux.HandleFunc("POST /admin/delete/confirm", h.ConfirmDelete)
	mux.HandleFunc("POST /admin/delete/cancel", h.CancelDelete)
	mux.HandleFunc("POST /admin/notice/dismiss", h.DismissNotice)
	mux.HandleFunc("GET /admin/login", h.LoginPage)
	mux.HandleFunc("POST /admin/login", h.Login)
	mux.HandleFunc("POST /admin/logout", h.Logout)
	mux.Handle("GET /admin/static/", http.StripPrefix("/admin", http.FileServerFS(staticFS)))
}

// Dashboard handles GET /admin. The session check and the first load run
// together; an unauthenticated visitor is redirected before anything renders.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.Valid() {
		http.Redirect(w, r, inbox.LoginPath, http.StatusSeeOther)
		return
	}

	c, access := inbox.Enter(r.Context(), h.store, sess)
	if access != inbox.Authenticated {
		h.dropWorkspace(sess.Token)
		auth.ClearSessionCookie(w, h.cfg.SecureCookies)
		http.Redirect(w, r, inbox.LoginPath, http.StatusSeeOther)
		return
	}

	h.openWorkspace(sess.Token, c)
	h.renderDashboard(w, r, http.StatusOK, c)
}

// Inbox handles GET /admin/inbox.
func (h *AdminHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	c, ok := h.workspace(w, r)
	if !ok {
		return
	}
	h.renderDashboard(w, r, http.StatusOK, c)
}

// ShowMessage handles GET /admin/messages/{id}.
func (h *AdminHandler) ShowMessage(w http.ResponseWriter, r *http.Request) {
	c, ok := h.workspace(w, r)
	if !ok {
		return
	}
	status := http.StatusOK
	if !c.SelectByID(r.PathValue("id")) {
		status = http.StatusNotFound
	}
	h.renderDashboard(w, r, status, c)
}

// RequestDelete handles POST /admin/messages/{id}/delete. Nothing is deleted
// until the confirmation is posted.
func (h *AdminHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.mutation(w, r)
	if !ok {
		return
	}
	c.RequestDelete(r.PathValue("id"))
	http.Redirect(w, r, inboxPath, http.StatusSeeOther)
}

// ConfirmDelete handles POST /admin/delete/confirm.
func (h *AdminHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.mutation(w, r)
	if !ok {
		return
	}
	// a failure is raised as the workspace notice
	_ = c.Confirm(r.Context())
	http.Redirect(w, r, inboxPath, http.StatusSeeOther)
}

// CancelDelete handles POST /admin/delete/cancel.
func (h *AdminHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.mutation(w, r)
	if !ok {
		return
	}
	c.Cancel()
	http.Redirect(w, r, inboxPath, http.StatusSeeOther)
}

// DismissNotice handles POST /admin/notice/dismiss.
func (h *AdminHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	c, ok := h.mutation(w, r)
	if !ok {
		return
	}
	c.DismissNotice()
	http.Redirect(w, r, inboxPath, http.StatusSeeOther)
}

// LoginPage handles GET /admin/login.
func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.guard.CheckAccess(r.Context(), sessionFrom(r)) == inbox.Authenticated {
		http.Redirect(w, r, inbox.AdminPath, http.StatusSeeOther)
		return
	}

	csrf := h.ensureCSRF(w, r)
	data := loginData{CSRFToken: csrf}
	h.mu.Lock()
	if lc := h.logins[csrf]; lc != nil {
		data.Submitting = lc.State() == inbox.LoginSubmitting
	}
	h.mu.Unlock()
	h.renderLogin(w, http.StatusOK, data)
}

type loginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, loginData{Error: "Invalid form data", CSRFToken: h.ensureCSRF(w, r)})
		return
	}
	if !validCSRF(r) {
		h.renderLogin(w, http.StatusForbidden, loginData{Error: "Invalid request, please try again", CSRFToken: h.ensureCSRF(w, r)})
		return
	}
	csrf := auth.CSRFToken(r)

	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		h.renderLogin(w, http.StatusBadRequest, loginData{Error: "Email and password are required", Email: form.Email, CSRFToken: csrf})
		return
	}

	lc := h.loginController(csrf)
	res := lc.Submit(r.Context(), form.Email, form.Password)
	if res.Ignored() {
		h.renderLogin(w, http.StatusConflict, loginData{Email: form.Email, Submitting: true, CSRFToken: csrf})
		return
	}
	h.settleLogin(csrf, lc)

	if res.State != inbox.LoginSuccess {
		h.renderLogin(w, http.StatusUnauthorized, loginData{Error: res.Reason, Email: form.Email, CSRFToken: csrf})
		return
	}
	auth.SetSessionCookie(w, res.Session.Token, int(h.cfg.SessionTTL/time.Second), h.cfg.SecureCookies)
	http.Redirect(w, r, inbox.AdminPath, http.StatusSeeOther)
}

// Logout handles POST /admin/logout. The cookie is cleared and the browser
// is sent to the login page even when the store fails to sign out.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !validCSRF(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	sess := sessionFrom(r)

	h.mu.Lock()
	c := h.workspaces[sess.Token].c
	delete(h.workspaces, sess.Token)
	h.mu.Unlock()
	if c == nil {
		c = inbox.NewController(h.store, sess)
	}

	target := c.Logout(r.Context())
	auth.ClearSessionCookie(w, h.cfg.SecureCookies)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// workspace returns the caller's controller after re-checking the session.
// It redirects to the login page when the session is gone, and to /admin
// when no workspace has been opened yet.
func (h *AdminHandler) workspace(w http.ResponseWriter, r *http.Request) (*inbox.Controller, bool) {
	sess := sessionFrom(r)
	if h.guard.CheckAccess(r.Context(), sess) != inbox.Authenticated {
		h.dropWorkspace(sess.Token)
		http.Redirect(w, r, inbox.LoginPath, http.StatusSeeOther)
		return nil, false
	}

	h.mu.Lock()
	c := h.workspaces[sess.Token].c
	h.mu.Unlock()
	if c == nil {
		http.Redirect(w, r, inbox.AdminPath, http.StatusSeeOther)
		return nil, false
	}
	return c, true
}

// mutation is workspace for POST routes, which also need a CSRF token.
func (h *AdminHandler) mutation(w http.ResponseWriter, r *http.Request) (*inbox.Controller, bool) {
	if !validCSRF(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return h.workspace(w, r)
}

// openWorkspace replaces the workspace for token. Workspaces older than the
// session lifetime are dropped on the way, since their sessions have expired.
func (h *AdminHandler) openWorkspace(token string, c *inbox.Controller) {
	now := h.now()
	h.mu.Lock()
	defer h.mu.Unlock()
	for t, ws := range h.workspaces {
		if now.Sub(ws.opened) > h.cfg.SessionTTL {
			delete(h.workspaces, t)
		}
	}
	h.workspaces[token] = workspaceEntry{c: c, opened: now}
}

func (h *AdminHandler) dropWorkspace(token string) {
	if token == "" {
		return
	}
	h.mu.Lock()
	delete(h.workspaces, token)
	h.mu.Unlock()
}

func (h *AdminHandler) loginController(csrf string) *inbox.LoginController {
	h.mu.Lock()
	defer h.mu.Unlock()
	lc, ok := h.logins[csrf]
	if !ok {
		lc = inbox.NewLoginController(h.store)
		h.logins[csrf] = lc
	}
	return lc
}

// settleLogin forgets lc once its submission has finished.
func (h *AdminHandler) settleLogin(csrf string, lc *inbox.LoginController) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.logins[csrf] == lc {
		delete(h.logins, csrf)
	}
}

func (h *AdminHandler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, c *inbox.Controller) {
	data := dashboardData{View: c.View(), CSRFToken: h.ensureCSRF(w, r)}
	var buf bytes.Buffer
	if err := h.pages.renderDashboard(&buf, data); err != nil {
		h.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func (h *AdminHandler) renderLogin(w http.ResponseWriter, status int, data loginData) {
	var buf bytes.Buffer
	if err := h.pages.renderLogin(&buf, data); err != nil {
		h.logger.Error("failed to render login page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func sessionFrom(r *http.Request) inbox.Session {
	return inbox.Session{Token: auth.SessionToken(r)}
}

// ensureCSRF returns the CSRF cookie value, issuing a new cookie if needed.
func (h *AdminHandler) ensureCSRF(w http.ResponseWriter, r *http.Request) string {
	if token := auth.CSRFToken(r); token != "" {
		return token
	}
	token, err := auth.GenerateCSRFToken()
	if err != nil {
		// the form will fail validation rather than crash the page
		h.logger.Error("failed to generate CSRF token", "error", err)
		return ""
	}
	auth.SetCSRFCookie(w, token, h.cfg.SecureCookies)
	return token
}

// validCSRF checks the form token against the cookie (double submit).
func validCSRF(r *http.Request) bool {
	cookie := auth.CSRFToken(r)
	form := r.PostFormValue("csrf_token")
	if cookie == "" || form == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie), []byte(form)) == 1
}
