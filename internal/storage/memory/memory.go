package memory

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"spending/internal/core"
	"spending/internal/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps purchases in process memory. It is used for local
// development and tests.
type Store struct {
	mu     sync.Mutex
	items  []core.Purchase
	synced map[string]bool
}

func New(seed ...core.Purchase) *Store {
	s := &Store{synced: map[string]bool{}}
	if len(seed) > 0 {
		_, _ = s.AddPurchases(context.Background(), seed)
	}
	return s
}

// NewFromFiles seeds the store from base/seed_purchases.csv when present.
// Each line is "date;nok;account;category;location;vendor"; blank lines and
// lines starting with # are skipped.
func NewFromFiles(base string) *Store {
	return New(readSeed(filepath.Join(base, "seed_purchases.csv"))...)
}

// AddPurchases stores purchases whose id is not yet known.
func (s *Store) AddPurchases(_ context.Context, purchases []core.Purchase) (int, error) {
	if len(purchases) < 1 {
		return 0, errors.New("no purchases provided")
	}
	for _, p := range purchases {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, p := range purchases {
		if s.indexOf(p.ID) >= 0 {
			continue
		}
		s.items = append(s.items, p)
		inserted++
	}
	return inserted, nil
}

func (s *Store) ListPurchases(_ context.Context, month core.Date) ([]core.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Purchase
	for _, p := range s.items {
		if month.Contains(p.Date) {
			out = append(out, p)
		}
	}
	sortPurchases(out)
	return out, nil
}

func (s *Store) GetPurchase(_ context.Context, id string) (core.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return core.Purchase{}, ports.ErrNotFound
}

func (s *Store) DeletePurchase(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ports.ErrNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	delete(s.synced, id)
	return nil
}

func (s *Store) PendingSync(_ context.Context, limit int) ([]core.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Purchase
	for _, p := range s.items {
		if !s.synced[p.ID] {
			out = append(out, p)
		}
	}
	sortPurchases(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) MarkSynced(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return ports.ErrNotFound
	}
	s.synced[id] = true
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(p core.Purchase) bool { return p.ID == id })
}

func sortPurchases(ps []core.Purchase) {
	slices.SortStableFunc(ps, func(a, b core.Purchase) int {
		if c := strings.Compare(a.Date.Stamp(), b.Date.Stamp()); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func readSeed(path string) []core.Purchase {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Purchase
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) != 6 {
			continue
		}
		date, err := core.ParseStamp(parts[0])
		if err != nil {
			continue
		}
		nok, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		out = append(out, core.Purchase{
			ID:       "seed-" + strconv.Itoa(n),
			Date:     date,
			NOK:      nok,
			Account:  strings.TrimSpace(parts[2]),
			Category: strings.TrimSpace(parts[3]),
			Location: strings.TrimSpace(parts[4]),
			Vendor:   strings.TrimSpace(parts[5]),
		})
	}
	return out
}
