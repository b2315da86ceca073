// Package main serves a generated dungeon over websocket. Clients receive the
// layout and the agent's state on connect, then a snapshot whenever the agent
// changes, and walk the agent by sending Select messages.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/samdwyer/bspwalk/internal/agent"
	"github.com/samdwyer/bspwalk/internal/config"
	"github.com/samdwyer/bspwalk/internal/game"
	"github.com/samdwyer/bspwalk/internal/logging"
	"github.com/samdwyer/bspwalk/internal/navgraph"
	"github.com/samdwyer/bspwalk/internal/presets"
	"github.com/samdwyer/bspwalk/internal/telemetry"
	"github.com/samdwyer/bspwalk/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load(presets.MustLoadRegistry())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := logging.New(os.Stderr, cfg.LogVerbosity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:          cfg.Telemetry,
		Logger:           logger.WithName("otel"),
		HoneycombAPIKey:  cfg.HoneycombAPIKey,
		HoneycombDataset: cfg.HoneycombDataset,
	})
	if err != nil {
		logger.Error(err, "telemetry setup failed, running without traces")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error(err, "telemetry shutdown failed")
			}
		}()
	}

	hub := ws.NewHub(logger.WithName("hub"))
	feed := ws.NewAgentFeed(hub, logger.WithName("feed"))

	w, err := game.NewWorld(ctx, cfg, logger, agent.WithUpdateHook(feed.Update))
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	feed.Update(w.Agent)

	selections := make(chan navgraph.NodeID, 16)
	srv, err := ws.NewServer(hub, ws.NewLayout(w.Dungeon, w.Graph, cfg.Scale), selections, logger.WithName("ws"),
		ws.WithAgentFeed(feed))
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	httpServer := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()
	go func() {
		if err := w.Agent.Run(ctx, selections, ticker.C); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(err, "agent loop stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Addr, "dungeon", w.Dungeon.ID)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
