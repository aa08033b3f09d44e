package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"atscheck/internal/cli"
	"atscheck/internal/config"
	"atscheck/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Failed to load secrets from Vault")
		os.Exit(1)
	}
	if err := cfg.Semantic.Validate(); err != nil {
		logger.LogError(err, "Invalid semantic configuration")
		os.Exit(1)
	}

	// Log startup
	logger.Debug("Starting atscheck",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"semantic_enabled", cfg.Semantic.Enabled,
		"semantic_provider", cfg.Semantic.Provider)

	// Execute command with cancellable context
	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Application execution failed")
		os.Exit(1)
	}
}
