// Package main implements the entry point for the presentation pipeline
// server, which turns uploaded slide decks into narrated videos through
// a set of external media services.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Aniket17200/presentpal/internal/config"
	"github.com/Aniket17200/presentpal/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging and wires all
// application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_endpoint", cfg.Storage.Endpoint)

	return newApplication(cfg, appLogger)
}
