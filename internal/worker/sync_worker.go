package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spending/internal/amqp"
	"spending/internal/core"
	"spending/internal/ports"
)

// SheetWriter appends one purchase to the mirror sheet.
type SheetWriter interface {
	Append(ctx context.Context, p core.Purchase) (string, error)
}

// Store is what the worker needs from the purchase repository.
type Store interface {
	ports.PurchaseReader
	ports.SyncTracker
}

// SyncWorker mirrors stored purchases to Google Sheets.
type SyncWorker struct {
	store     Store
	sheets    SheetWriter
	batchSize int
}

func NewSyncWorker(store Store, sheets SheetWriter, batchSize int) *SyncWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &SyncWorker{store: store, sheets: sheets, batchSize: batchSize}
}

// HandleSyncMessage processes one purchase sync message from AMQP. A
// purchase deleted since the message was published is skipped.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.PurchaseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	p, err := w.store.GetPurchase(ctx, msg.ID)
	if errors.Is(err, ports.ErrNotFound) {
		slog.WarnContext(ctx, "Purchase no longer stored, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get purchase from storage: %w", err)
	}

	if err := w.syncPurchase(ctx, p); err != nil {
		return fmt.Errorf("sync purchase to sheets: %w", err)
	}
	return nil
}

// ProcessPending syncs up to limit purchases that were never mirrored. It
// is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context, limit int) (synced int, err error) {
	pending, err := w.store.PendingSync(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending purchases: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending purchases", "count", len(pending))

	for _, p := range pending {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}
		if err := w.syncPurchase(ctx, p); err != nil {
			slog.ErrorContext(ctx, "Failed to sync purchase", "id", p.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

// StartupSyncCheck catches up a larger batch when the worker starts.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced, err := w.ProcessPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "synced", synced)
	return nil
}

// Run processes pending purchases every interval until ctx is done.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx, w.batchSize); err != nil && ctx.Err() == nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) syncPurchase(ctx context.Context, p core.Purchase) error {
	ref, err := w.sheets.Append(ctx, p)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.store.MarkSynced(ctx, p.ID); err != nil {
		// The row is written; the next pending pass finds the id in the sheet.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", p.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced purchase",
		"id", p.ID,
		"sheets_ref", ref,
		"vendor", p.Vendor,
		"nok", p.NOK)
	return nil
}
