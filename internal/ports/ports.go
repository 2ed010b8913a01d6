// Package ports declares the storage interfaces shared by the web server,
// the importer and the sync worker.
package ports

import (
	"context"
	"errors"

	"spending/internal/core"
)

// ErrNotFound is returned when a purchase id is unknown.
var ErrNotFound = errors.New("purchase not found")

type (
	PurchaseWriter interface {
		// AddPurchases stores purchases, skipping ids that already exist.
		// It returns how many were inserted.
		AddPurchases(ctx context.Context, purchases []core.Purchase) (inserted int, err error)
	}

	PurchaseLister interface {
		// ListPurchases returns the purchases of month ordered by date.
		ListPurchases(ctx context.Context, month core.Date) ([]core.Purchase, error)
	}

	PurchaseReader interface {
		GetPurchase(ctx context.Context, id string) (core.Purchase, error)
	}

	PurchaseDeleter interface {
		DeletePurchase(ctx context.Context, id string) error
	}

	// SyncTracker records which purchases were mirrored to Google Sheets.
	SyncTracker interface {
		PendingSync(ctx context.Context, limit int) ([]core.Purchase, error)
		MarkSynced(ctx context.Context, id string) error
	}

	// Store is the full purchase repository.
	Store interface {
		PurchaseWriter
		PurchaseLister
		PurchaseReader
		PurchaseDeleter
		SyncTracker
	}
)
