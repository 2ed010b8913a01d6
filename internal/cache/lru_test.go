package cache

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	clk := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRU[int, string](10, time.Minute)
	c.now = clk.now

	c.Set(1, "x")
	c.Set(2, "y")
	clk.t = clk.t.Add(30 * time.Second)
	c.Set(2, "z")
	clk.t = clk.t.Add(40 * time.Second)

	if _, ok := c.Get(1); ok {
		t.Fatal("1 should have expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Fatalf("cleaned %d, want 0", n)
	}
	clk.t = clk.t.Add(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("cleaned %d, want 1", n)
	}
	if c.Len() != 0 {
		t.Fatalf("len = %d, want 0", c.Len())
	}
}

func TestManagerCleanAll(t *testing.T) {
	clk := &clock{t: time.Now()}
	c := NewLRU[string, int](10, time.Second)
	c.now = clk.now
	c.Set("a", 1)
	c.Delete("missing")

	m := NewManager()
	m.Register("months", c)
	clk.t = clk.t.Add(2 * time.Second)

	if got := m.CleanAll()["months"]; got != 1 {
		t.Fatalf("removed %d, want 1", got)
	}
}
