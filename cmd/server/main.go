package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactboard/backend/internal/config"
	"github.com/contactboard/backend/internal/handler"
	"github.com/contactboard/backend/internal/logging"
	"github.com/contactboard/backend/internal/realtime"
	"github.com/contactboard/backend/internal/repository"
	"github.com/contactboard/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	logging.Setup()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}

	if cfg.AutoMigrate {
		n, err := repository.Migrate(context.Background(), pool)
		if err != nil {
			pool.Close()
			logging.Fatal("migration failed", "error", err)
		}
		slog.Info("migrations applied", "count", n)
	}

	userRepo := repository.NewPgUserRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	probe := repository.NewPgProbe(pool)

	messageService := service.NewMessageService(messageRepo)
	hub := realtime.NewHub(messageService)
	contactService := service.NewContactService(userRepo, messageRepo, hub)

	var limiter *handler.RateLimiter
	if cfg.ContactRateLimit > 0 {
		limiter = handler.NewRateLimiter(cfg.ContactRateLimit)
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: handler.NewRouter(handler.RouterConfig{
			DB:             probe,
			Contacts:       contactService,
			Messages:       messageService,
			Subscribe:      http.HandlerFunc(hub.ServeWS),
			ContactLimiter: limiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		// WriteTimeout stays zero: hijacked WebSocket connections manage their own deadlines.
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	hub.Close()
	if limiter != nil {
		limiter.Close()
	}
	pool.Close()
	slog.Info("server stopped")
}
