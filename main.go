package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/event-registry/internal/config"
	"github.com/msomdec/event-registry/internal/handler"
	"github.com/msomdec/event-registry/internal/repository/sqlite"
	"github.com/msomdec/event-registry/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	signer := service.NewJWTSigner(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(db.Users(), hasher, signer)
	eventService := service.NewEventService(db.Events())
	registrationService := service.NewRegistrationService(db.Registrations(), db.Events(), db.Users())
	loginLimiter := service.NewLoginLimiter(cfg.LoginRateMax, cfg.LoginRateWindow)

	// Bootstrap admin account (idempotent).
	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("failed to ensure admin account", "error", err)
			os.Exit(1)
		}
		slog.Info("admin account ensured", "email", cfg.AdminEmail)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, eventService, registrationService, loginLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(handler.RequestLogger(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
