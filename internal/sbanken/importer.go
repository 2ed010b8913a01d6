package sbanken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spending/internal/core"
	applog "spending/internal/log"
	"spending/internal/ports"
)

// Source is the part of the bank API the importer reads.
type Source interface {
	Accounts(ctx context.Context) ([]Account, error)
	Transactions(ctx context.Context, accountID string) ([]CardDetails, error)
}

// Publisher announces newly stored purchases.
type Publisher interface {
	PublishPurchaseSync(ctx context.Context, id string) error
}

// Store is what the importer needs from the repository.
type Store interface {
	ports.PurchaseWriter
	ports.PurchaseReader
}

// Importer copies card purchases from every account into the store.
type Importer struct {
	source    Source
	store     Store
	publisher Publisher
	logger    *applog.Logger
}

// NewImporter creates an importer. publisher may be nil.
func NewImporter(source Source, store Store, publisher Publisher, logger *applog.Logger) *Importer {
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentImporter})
	}
	return &Importer{source: source, store: store, publisher: publisher, logger: logger}
}

// ImportOnce runs one import pass and returns the number of new purchases.
// Failures on a single account are logged and the account is skipped.
func (im *Importer) ImportOnce(ctx context.Context) (int, error) {
	accounts, err := im.source.Accounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting accounts: %w", err)
	}

	total := 0
	for _, acct := range accounts {
		n, err := im.importAccount(ctx, acct)
		if err != nil {
			im.logger.LogError(ctx, "Failed to import account", err, applog.OpImport,
				applog.NewFields().WithAccount(acct.Name))
			continue
		}
		if n > 0 {
			im.logger.InfoContext(ctx, "Purchases imported", applog.FieldAccount, acct.Name, applog.FieldCount, n)
		}
		total += n
	}
	return total, nil
}

func (im *Importer) importAccount(ctx context.Context, acct Account) (int, error) {
	cards, err := im.source.Transactions(ctx, acct.ID)
	if err != nil {
		return 0, fmt.Errorf("getting transactions: %w", err)
	}

	var fresh []core.Purchase
	for _, cd := range cards {
		p := cd.Purchase(acct.Name)
		if p.ID == "" {
			continue
		}
		_, err := im.store.GetPurchase(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return 0, fmt.Errorf("look up purchase %s: %w", p.ID, err)
		}
		fresh = append(fresh, p)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	n, err := im.store.AddPurchases(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("storing purchases: %w", err)
	}

	if im.publisher != nil {
		for _, p := range fresh {
			if err := im.publisher.PublishPurchaseSync(ctx, p.ID); err != nil {
				// The sheets worker picks it up on its next pending pass.
				im.logger.WarnContext(ctx, "Failed to publish purchase", applog.FieldPurchaseID, p.ID, applog.FieldError, err)
			}
		}
	}
	return n, nil
}

// Loop imports right away and then every interval until ctx is cancelled.
func (im *Importer) Loop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	im.logger.InfoContext(ctx, "Loading transactions from Sbanken", applog.FieldInterval, interval.String())
	for {
		if _, err := im.ImportOnce(ctx); err != nil && ctx.Err() == nil {
			im.logger.LogError(ctx, "Import failed", err, applog.OpImport, nil)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
