package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/handler"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
)

// repos groups the repositories for the selected store driver.
type repos struct {
	db       repository.DB
	messages repository.MessageRepository
	admins   repository.AdminUserRepository
	sessions repository.SessionRepository
	close    func()
}

func openRepos(ctx context.Context, cfg config.Config) (*repos, error) {
	if cfg.StoreDriver == config.DriverMemory {
		mem := repository.NewMemory()
		slog.Warn("using in-memory store; data is lost on restart")
		return &repos{db: mem, messages: mem, admins: mem, sessions: mem.Sessions(), close: func() {}}, nil
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &repos{
		db:       pool,
		messages: repository.NewPgMessageRepository(pool),
		admins:   repository.NewPgAdminUserRepository(pool),
		sessions: repository.NewPgSessionRepository(pool),
		close:    pool.Close,
	}, nil
}

// seedAdmin creates the ADMIN_EMAIL account for the memory driver, which has
// no other way to get one.
func seedAdmin(ctx context.Context, cfg config.Config, authService service.AuthService) {
	if cfg.StoreDriver != config.DriverMemory || cfg.AdminEmail == "" {
		return
	}
	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_EMAIL set without ADMIN_PASSWORD; no admin seeded")
		return
	}
	_, err := authService.CreateAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
	case err != nil:
		logging.Fatal("failed to seed admin", "error", err)
	default:
		slog.Info("admin seeded", "email", cfg.AdminEmail)
	}
}

// purgeSessions deletes expired sessions until ctx is done.
func purgeSessions(ctx context.Context, sessions *service.SessionService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("session purge failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions purged", "count", n)
			}
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := openRepos(ctx, cfg)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer r.close()

	authService := service.NewAuthService(r.admins)
	sessionService := service.NewSessionService(r.sessions, cfg.SessionTTL)
	messageService := service.NewMessageService(r.messages)
	backend := service.NewBackend(authService, sessionService, messageService)
	seedAdmin(ctx, cfg, authService)
	go purgeSessions(ctx, sessionService, time.Hour)

	h := handler.New(r.db, cfg.FrontendURL)
	contactHandler := handler.NewContactHandler(messageService)
	legalHandler := handler.NewLegalHandler(handler.LegalConfig{DocsDir: cfg.LegalDocsDir})
	adminHandler, err := handler.NewAdminHandler(backend, handler.AdminConfig{
		SessionTTL:    sessionService.TTL(),
		SecureCookies: cfg.Production(),
	})
	if err != nil {
		logging.Fatal("failed to load admin templates", "error", err)
	}
	contactLimiter := handler.NewRateLimiter(cfg.ContactRateLimit, cfg.TrustedProxyCount)
	defer contactLimiter.Stop()

	mux := http.NewServeMux()

	// public API; CORS for the frontend only
	mux.Handle("GET /api/health", h.CORS(http.HandlerFunc(h.Health)))
	mux.Handle("GET /api/legal/{type}", h.CORS(http.HandlerFunc(legalHandler.Legal)))
	mux.Handle("OPTIONS /api/contact", h.CORS(http.NotFoundHandler()))
	mux.Handle("POST /api/contact", h.CORS(contactLimiter.Middleware(http.HandlerFunc(contactHandler.Submit))))

	// admin pages, same origin only
	adminHandler.Register(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
