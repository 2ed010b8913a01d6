// Command spending-importer polls Sbanken for new card purchases and sends
// the daily spending report.
package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"spending/internal/amqp"
	"spending/internal/cli"
	"spending/internal/log"
	"spending/internal/notify"
	"spending/internal/sbanken"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		log.New(log.DefaultConfig()).Warn("Ignoring .env file", log.FieldError, err)
	}
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentImporter)

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}
	if err := cfg.ValidateImporter(); err != nil {
		cli.Fatal(logger, "Importer configuration invalid", err)
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

	// A nil publisher disables the sheets mirror.
	var publisher sbanken.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			cli.Fatal(logger, "Failed to connect to AMQP", err)
		}
		defer client.Close()
		publisher = client
		logger.Info("Publishing new purchases", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	bank := sbanken.NewClient(ctx, sbanken.Config{
		ClientID:     cfg.SbankenClientID,
		ClientSecret: cfg.SbankenClientSecret,
		CustomerID:   cfg.SbankenCustomerID,
		APIURL:       cfg.SbankenAPIURL,
		TokenURL:     cfg.SbankenTokenURL,
	})
	importer := sbanken.NewImporter(bank, backend.Store, publisher, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return importer.Loop(gctx, cfg.ImportInterval)
	})

	if cfg.NotifierEnabled() {
		notifier, err := notify.New(notify.Config{
			User:       cfg.PushoverUser,
			Token:      cfg.PushoverToken,
			APIURL:     cfg.PushoverAPIURL,
			NotifyHour: cfg.NotifyHour,
			Categories: cfg.ReportCategories,
			PublicURL:  cfg.PublicURL,
		}, backend.Store, logger.WithComponent(log.ComponentNotifier))
		if err != nil {
			cli.Fatal(logger, "Failed to configure notifier", err)
		}
		g.Go(func() error {
			return notifier.Run(gctx)
		})
	} else {
		logger.Info("Daily report disabled - no Pushover credentials")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Importer stopped", log.FieldError, err)
		return
	}
	logger.Info("Importer stopped gracefully")
}
