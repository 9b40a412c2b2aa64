package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/maxviazov/shelf-trivia-service/internal/app"
	"github.com/maxviazov/shelf-trivia-service/internal/config"
	"github.com/maxviazov/shelf-trivia-service/internal/logger"
)

func main() {
	path := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to the YAML config file")
	flag.Parse()

	// Load application config
	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatalf("Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("Startup failed")
	}
	defer a.Close()

	appLogger.Info().Str("driver", cfg.Storage.Driver).Msg("Service started")
	if err := a.Run(ctx); err != nil {
		appLogger.Error().Err(err).Msg("Server stopped with error")
		return
	}
	appLogger.Info().Msg("Service stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
