// Command server runs the lost & found API service.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lostfound/lostfound/internal/api"
	"github.com/lostfound/lostfound/internal/config"
	"github.com/lostfound/lostfound/internal/db"
	"github.com/lostfound/lostfound/internal/store"
)

// requestsPerMinute is the per-client-IP budget applied to all endpoints.
const requestsPerMinute = 10

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR
// goes to stderr.
func setupLogger() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	handler := &levelRouter{
		stdout: slog.NewTextHandler(io.Writer(os.Stdout), opts),
		stderr: slog.NewTextHandler(io.Writer(os.Stderr), opts),
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	setupLogger()
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("migrating database", "error", err)
		os.Exit(1)
	}

	// Prefer the configured signing secret; otherwise use (or create) the one
	// persisted in the settings table so tokens survive restarts.
	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			slog.Error("loading jwt secret", "error", err)
			os.Exit(1)
		}
		slog.Info("using persisted jwt secret")
	}

	if cfg.AdminMail == "" || cfg.AdminPass == "" {
		slog.Warn("admin credentials not configured, admin login disabled")
	}

	limiter := api.NewRateLimiter(requestsPerMinute)
	handler := api.LoggingMiddleware(api.NewRouter(database, cfg, secret, limiter))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("api listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
