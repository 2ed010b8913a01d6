// Command spending-worker mirrors imported purchases to Google Sheets.
package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"spending/internal/amqp"
	"spending/internal/cli"
	"spending/internal/log"
	gsheet "spending/internal/sheets/google"
	"spending/internal/worker"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		log.New(log.DefaultConfig()).Warn("Ignoring .env file", log.FieldError, err)
	}
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}
	if err := cfg.ValidateSheets(); err != nil {
		cli.Fatal(logger, "Sheets configuration invalid", err)
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	backend, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to open purchase store", err)
	}
	if backend.Cleanup != nil {
		defer backend.Cleanup()
	}

	sheets, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(backend.Store, sheets, cfg.SyncBatchSize)

	logger.Info("Performing startup sync check")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumePurchaseSync(gctx, syncWorker.HandleSyncMessage)
	})
	g.Go(func() error {
		return syncWorker.Run(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", log.FieldError, err)
		return
	}
	logger.Info("Worker shutdown complete")
}
