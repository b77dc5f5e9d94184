// Package main is the entry point for skirmish.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/skirmish/internal/game"
	"github.com/samdwyer/skirmish/internal/telemetry"
	"github.com/samdwyer/skirmish/internal/ui"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	cfg, err := game.ParseConfig(flag.NewFlagSet(os.Args[0], flag.ExitOnError), os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closeLog.Close()

	ctx := context.Background()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx, telemetry.Options{Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		logger.WithError(err).Warn("telemetry setup failed, running without traces")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.WithError(err).Warn("telemetry shutdown")
			}
		}()
	}

	screen, err := ui.NewScreen()
	if err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	defer screen.Close()

	app, err := ui.NewApp(ctx, screen, cfg, logrus.NewEntry(logger))
	if err != nil {
		screen.Close()
		log.Fatalf("Failed to start match: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.WithError(err).Error("game loop")
	}
}

// newLogger builds the logrus logger. The terminal belongs to the UI, so
// logs go to cfg.LogFile, or nowhere when it is empty.
func newLogger(cfg game.Config) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	if cfg.LogFile == "" {
		logger.SetOutput(io.Discard)
		return logger, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(f)
	return logger, f, nil
}

// setupOTelEnv maps a Honeycomb API key onto the standard OTLP header
// variable read by the exporter.
func setupOTelEnv() {
	apiKey := os.Getenv("SKIRMISH_HONEYCOMB_API_KEY")
	if apiKey == "" || os.Getenv("OTEL_EXPORTER_OTLP_HEADERS") != "" {
		return
	}
	dataset := os.Getenv("SKIRMISH_HONEYCOMB_DATASET")
	if dataset == "" {
		dataset = "skirmish"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	if os.Getenv("SKIRMISH_OTLP_ENDPOINT") == "" {
		os.Setenv("SKIRMISH_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
}
