// Command jukectl-server boots the jukebox engine: it loads configuration,
// constructs the connection pool and shared state, starts the scheduler and
// background precompute loop, and serves the HTTP surface. Adapted from
// main.go's slog JSON handler + context/signal graceful-shutdown idiom.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dancemore/jukectl/internal/config"
	"github.com/dancemore/jukectl/internal/daemon"
	"github.com/dancemore/jukectl/internal/httpapi"
	"github.com/dancemore/jukectl/internal/pool"
	"github.com/dancemore/jukectl/internal/scheduler"
	"github.com/dancemore/jukectl/internal/state"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	slog.Info("starting jukectl",
		"mpd_host", cfg.MPDHost,
		"mpd_port", cfg.MPDPort,
		"max_connections", cfg.MPDMaxConnections,
		"http_addr", cfg.HTTPAddr,
	)

	connPool, err := pool.New(cfg.MPDHost, cfg.MPDPort, cfg.MPDMaxConnections, daemon.Dial)
	if err != nil {
		slog.Error("failed to construct connection pool", "error", err)
		os.Exit(1)
	}

	legacyClient, err := daemon.Dial(cfg.MPDHost, cfg.MPDPort)
	if err != nil {
		slog.Error("failed to open legacy daemon connection", "error", err)
		os.Exit(1)
	}

	shared := state.New(connPool, legacyClient)
	sched := scheduler.New(shared)
	server := httpapi.NewServer(shared, cfg.AdminToken)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutdown signal received")
		cancel()
	}()

	go sched.Start(ctx)
	go sched.StartPrecompute(ctx)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown error", "error", err)
		}
	}()

	slog.Info("http surface listening", "addr", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server error", "error", err)
		os.Exit(1)
	}

	slog.Info("jukectl stopped")
}
