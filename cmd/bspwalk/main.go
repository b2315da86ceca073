// Package main is the terminal entry point for bspwalk.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/bspwalk/internal/config"
	"github.com/samdwyer/bspwalk/internal/game"
	"github.com/samdwyer/bspwalk/internal/logging"
	"github.com/samdwyer/bspwalk/internal/presets"
	"github.com/samdwyer/bspwalk/internal/telemetry"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load(presets.MustLoadRegistry())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// The screen owns the terminal, so logs go to a file
	logger, closeLog, err := logging.NewFile(cfg.LogFile, cfg.LogVerbosity)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:          cfg.Telemetry,
		Logger:           logger.WithName("otel"),
		HoneycombAPIKey:  cfg.HoneycombAPIKey,
		HoneycombDataset: cfg.HoneycombDataset,
	})
	if err != nil {
		// Continue without traces - the viewer still works
		logger.Error(err, "telemetry setup failed, running without traces")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error(err, "telemetry shutdown failed")
			}
		}()
	}

	g, err := game.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := g.Run(ctx); err != nil {
		logger.Error(err, "viewer stopped")
		os.Exit(1)
	}
}
