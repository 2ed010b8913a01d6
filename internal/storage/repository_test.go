package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"spending/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "spending.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func march(id string, day, nok int) core.Purchase {
	return core.Purchase{
		ID:       id,
		Date:     core.NewDate(2024, time.March, day),
		NOK:      nok,
		Account:  "Card",
		Category: "food",
		Location: "Oslo",
		Vendor:   "Rema",
	}
}

func TestAddAndListPurchases(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	purchases := []core.Purchase{
		march("b", 10, 50),
		march("a", 10, 100),
		march("c", 1, 25),
		{ID: "d", Date: core.NewDate(2024, time.April, 1), NOK: 7},
		{ID: "e", Date: core.NewDate(2024, time.February, 29), NOK: 3},
	}
	n, err := repo.AddPurchases(ctx, purchases)
	if err != nil {
		t.Fatalf("add purchases: %v", err)
	}
	if n != len(purchases) {
		t.Fatalf("inserted = %d, want %d", n, len(purchases))
	}

	n, err = repo.AddPurchases(ctx, []core.Purchase{march("a", 10, 999), march("f", 31, 1)})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted = %d, want 1 (existing id skipped)", n)
	}

	got, err := repo.ListPurchases(ctx, core.NewDate(2024, time.March, 0))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantIDs := []string{"c", "a", "b", "f"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d purchases, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
	if got[1] != march("a", 10, 100) {
		t.Errorf("round trip mismatch: %+v", got[1])
	}
}

func TestAddPurchasesRejectsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.AddPurchases(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty slice")
	}
}

func TestListPurchasesDecemberRollover(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	_, err := repo.AddPurchases(ctx, []core.Purchase{
		{ID: "dec", Date: core.NewDate(2023, time.December, 31), NOK: 1},
		{ID: "jan", Date: core.NewDate(2024, time.January, 1), NOK: 2},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := repo.ListPurchases(ctx, core.NewDate(2023, time.December, 0))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "dec" {
		t.Fatalf("unexpected December purchases: %+v", got)
	}
}

func TestGetAndDeletePurchase(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.AddPurchases(ctx, []core.Purchase{march("a", 3, 10)}); err != nil {
		t.Fatalf("add: %v", err)
	}

	p, err := repo.GetPurchase(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Vendor != "Rema" || p.Date.Day != 3 {
		t.Fatalf("unexpected purchase: %+v", p)
	}

	if _, err := repo.GetPurchase(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeletePurchase(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeletePurchase(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPendingSyncAndMarkSynced(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.AddPurchases(ctx, []core.Purchase{march("a", 1, 1), march("b", 2, 2), march("c", 3, 3)}); err != nil {
		t.Fatalf("add: %v", err)
	}

	pending, err := repo.PendingSync(ctx, 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "b" {
		t.Fatalf("unexpected pending batch: %+v", pending)
	}

	if err := repo.MarkSynced(ctx, "a"); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if err := repo.MarkSynced(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	pending, err = repo.PendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "b" {
		t.Fatalf("unexpected pending after sync: %+v", pending)
	}
}
