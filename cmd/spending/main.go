// Command spending serves the monthly spending pages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"spending/internal/cli"
	apphttp "spending/internal/http"
	"spending/internal/log"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		log.New(log.DefaultConfig()).Warn("Ignoring .env file", log.FieldError, err)
	}
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	backend, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to open purchase store", err)
	}
	if backend.Cleanup != nil {
		defer func() {
			if err := backend.Cleanup(); err != nil {
				logger.Error("Store cleanup failed", log.FieldError, err)
			}
		}()
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, backend.Store, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to create HTTP server", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting spending server", "port", cfg.Port, "backend", cfg.DataBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
			return
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", log.FieldError, err)
	}
	logger.Info("Server stopped gracefully")
}
