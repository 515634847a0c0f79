package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shiine-academy-backend/internal/app"
	"shiine-academy-backend/internal/config"
	"shiine-academy-backend/pkg/logger"
	"shiine-academy-backend/pkg/validator"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// .env is optional; production deployments use real env vars.
		logger.Debug("No .env file found", nil)
	}

	logger.Init()
	validator.Init()

	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error(err, "Failed to initialise application", nil)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Server stopped unexpectedly", nil)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "Graceful shutdown failed", nil)
		os.Exit(1)
	}

	logger.Info("Server stopped", nil)
}
