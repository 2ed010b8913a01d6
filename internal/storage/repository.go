package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spending/internal/core"
	"spending/internal/ports"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned for unknown purchase ids.
var ErrNotFound = ports.ErrNotFound

var _ ports.Store = (*SQLiteRepository)(nil)

const purchaseColumns = `id, date, nok, account, category, location, vendor`

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at dbPath, creating its directory
// and applying migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the connection, used by readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// AddPurchases implements ports.PurchaseWriter. Purchases whose id already
// exists are left untouched.
func (r *SQLiteRepository) AddPurchases(ctx context.Context, purchases []core.Purchase) (int, error) {
	if len(purchases) < 1 {
		return 0, errors.New("no purchases provided")
	}
	for _, p := range purchases {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO purchases(`+purchaseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range purchases {
		res, err := stmt.ExecContext(ctx, p.ID, p.Date.Stamp(), p.NOK, p.Account, p.Category, p.Location, p.Vendor)
		if err != nil {
			return 0, fmt.Errorf("insert purchase %s: %w", p.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purchases: %w", err)
	}

	slog.DebugContext(ctx, "Purchases saved to SQLite", "received", len(purchases), "inserted", inserted)
	return inserted, nil
}

// ListPurchases implements ports.PurchaseLister.
func (r *SQLiteRepository) ListPurchases(ctx context.Context, month core.Date) ([]core.Purchase, error) {
	from := month.FirstOfMonth()
	to := from.AddMonth()
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE date >= ? AND date < ? ORDER BY date, id`,
		from.Stamp(), to.Stamp())
	if err != nil {
		return nil, fmt.Errorf("query purchases for %s: %w", month.MonthOnly(), err)
	}
	defer rows.Close()
	return scanPurchases(rows)
}

// GetPurchase implements ports.PurchaseReader.
func (r *SQLiteRepository) GetPurchase(ctx context.Context, id string) (core.Purchase, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = ?`, id)
	p, err := scanPurchase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Purchase{}, ErrNotFound
	}
	if err != nil {
		return core.Purchase{}, fmt.Errorf("get purchase %s: %w", id, err)
	}
	return p, nil
}

// DeletePurchase implements ports.PurchaseDeleter.
func (r *SQLiteRepository) DeletePurchase(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete purchase %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// PendingSync implements ports.SyncTracker.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]core.Purchase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE synced_at IS NULL ORDER BY date, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending purchases: %w", err)
	}
	defer rows.Close()
	return scanPurchases(rows)
}

// MarkSynced implements ports.SyncTracker.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE purchases SET synced_at = ? WHERE id = ?`, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark purchase %s synced: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n < 1 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPurchase(s scanner) (core.Purchase, error) {
	var p core.Purchase
	var date string
	if err := s.Scan(&p.ID, &date, &p.NOK, &p.Account, &p.Category, &p.Location, &p.Vendor); err != nil {
		return core.Purchase{}, err
	}
	d, err := core.ParseStamp(date)
	if err != nil {
		return core.Purchase{}, err
	}
	p.Date = d
	return p, nil
}

func scanPurchases(rows *sql.Rows) ([]core.Purchase, error) {
	var res []core.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return res, nil
}
