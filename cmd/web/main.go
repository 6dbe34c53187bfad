// Command web runs the lost & found frontend, serving server-rendered pages
// backed by the API service.
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

	"github.com/lostfound/lostfound/internal/api"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/config"
	"github.com/lostfound/lostfound/internal/web"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	cfg := config.Load()

	router, err := web.NewRouter(client.New(cfg.APIURL))
	if err != nil {
		slog.Error("setting up web router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("frontend listening", "addr", cfg.WebAddr, "api", cfg.APIURL)
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
