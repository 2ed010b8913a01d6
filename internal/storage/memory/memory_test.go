package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"spending/internal/core"
	"spending/internal/ports"
)

func purchase(id string, day int, nok int) core.Purchase {
	return core.Purchase{ID: id, Date: core.NewDate(2024, time.March, day), NOK: nok, Category: "food"}
}

func TestMemoryStoreAddAndList(t *testing.T) {
	ctx := context.Background()
	s := New()

	n, err := s.AddPurchases(ctx, []core.Purchase{purchase("b", 5, 10), purchase("a", 5, 20), purchase("c", 1, 30)})
	if err != nil || n != 3 {
		t.Fatalf("unexpected add: n=%d err=%v", n, err)
	}
	n, err = s.AddPurchases(ctx, []core.Purchase{purchase("a", 5, 99)})
	if err != nil || n != 0 {
		t.Fatalf("duplicate id should be skipped: n=%d err=%v", n, err)
	}

	got, err := s.ListPurchases(ctx, core.NewDate(2024, time.March, 0))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %d purchases, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s want %s", i, got[i].ID, id)
		}
	}
	if got[1].NOK != 20 {
		t.Fatalf("existing purchase was overwritten: %+v", got[1])
	}

	other, _ := s.ListPurchases(ctx, core.NewDate(2024, time.April, 0))
	if len(other) != 0 {
		t.Fatalf("expected no purchases in April, got %v", other)
	}
}

func TestMemoryStoreRejectsEmptyAndInvalid(t *testing.T) {
	s := New()
	if _, err := s.AddPurchases(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty slice")
	}
	bad := core.Purchase{ID: "x", Date: core.NewDate(2024, time.February, 30)}
	if _, err := s.AddPurchases(context.Background(), []core.Purchase{bad}); !errors.Is(err, core.ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}
}

func TestMemoryStoreGetDeleteSync(t *testing.T) {
	ctx := context.Background()
	s := New(purchase("a", 1, 1), purchase("b", 2, 2))

	if _, err := s.GetPurchase(ctx, "zz"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.MarkSynced(ctx, "a"); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, _ := s.PendingSync(ctx, 10)
	if len(pending) != 1 || pending[0].ID != "b" {
		t.Fatalf("unexpected pending: %v", pending)
	}

	if err := s.DeletePurchase(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeletePurchase(ctx, "b"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
	if _, err := s.GetPurchase(ctx, "a"); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	if s := NewFromFiles(dir); len(s.items) != 0 {
		t.Fatalf("expected empty store when file missing")
	}

	content := "# date;nok;account;category;location;vendor\n" +
		"2024-03-01;120;Card;food;Oslo;Rema\n" +
		"\n" +
		"broken line\n" +
		"2024-03-02;80;Card;transport;Oslo;Ruter\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_purchases.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := NewFromFiles(dir)
	got, _ := s.ListPurchases(context.Background(), core.NewDate(2024, time.March, 0))
	if len(got) != 2 {
		t.Fatalf("expected 2 seeded purchases, got %v", got)
	}
	if got[0].Vendor != "Rema" || got[1].NOK != 80 {
		t.Fatalf("unexpected seed values: %+v", got)
	}
}
