package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.LoadOrDefault()

	// Parse flags
	port := flag.String("port", cfg.Server.Port, "Server port")
	projectPath := flag.String("project", "", "Project file to restore at startup")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Logging.Development = *dev

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	if *projectPath != "" {
		session, err := srv.Restore(context.Background(), *projectPath)
		if err != nil {
			logger.Fatal("Failed to restore project", zap.String("path", *projectPath), zap.Error(err))
		}
		logger.Info("Restoring project", zap.String("session", session.ID.String()))
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down gracefully", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	}
}
