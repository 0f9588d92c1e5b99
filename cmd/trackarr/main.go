package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"trackarr/internal/api"
	"trackarr/internal/config"
	"trackarr/internal/dialogue"
	"trackarr/internal/scheduler"
	"trackarr/internal/services/tmdb"
	"trackarr/internal/store"
	"trackarr/internal/store/boltstore"
	"trackarr/internal/store/jsonstore"
	"trackarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg)
	logger.Info("Starting Trackarr")
	logger.WithField("config_dir", filepath.Dir(cfg.DataFile)).Info("Configuration loaded")

	// 3. Initialize store
	var st store.Store
	switch cfg.StoreBackend {
	case "bolt":
		st, err = boltstore.Open(cfg.DatabaseFile, logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
	default:
		st = jsonstore.Open(cfg.DataFile, logger)
	}
	defer st.Close()
	logger.WithField("backend", cfg.StoreBackend).Info("Store initialized")

	// 4. Initialize TMDB client
	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	// 5. Initialize dialogue engine
	engine := dialogue.NewEngine(st, tmdbClient, cfg.ReminderWindowDays, logger)
	logger.Info("Dialogue engine initialized")

	// 6. Initialize scheduler
	notifier := scheduler.LogNotifier{Logger: logger}
	sched := scheduler.NewScheduler(st, notifier, cfg.ReminderCron, cfg.ReminderWindowDays, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, st, engine, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Trackarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Trackarr stopped")
	return nil
}
