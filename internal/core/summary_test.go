package core

import (
	"reflect"
	"testing"
	"time"
)

func samplePurchases() []Purchase {
	d := NewDate(2024, time.March, 1)
	return []Purchase{
		{ID: "1", Date: d, NOK: 100, Category: "food"},
		{ID: "2", Date: d, NOK: 50, Category: "transport"},
		{ID: "3", Date: d, NOK: 25, Category: "food"},
		{ID: "4", Date: d, NOK: 300, Category: "rent"},
	}
}

func TestTotal(t *testing.T) {
	if got := Total(samplePurchases()); got != 475 {
		t.Fatalf("Total = %d", got)
	}
	if got := Total(nil); got != 0 {
		t.Fatalf("Total(nil) = %d", got)
	}
}

func TestCategoryTotals(t *testing.T) {
	got := CategoryTotals([]string{"food", "games"}, samplePurchases())
	want := map[string]int{"food": 125, "games": 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CategoryTotals = %v, want %v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(NewDate(2024, time.March, 14), samplePurchases())
	if sum.Month != NewDate(2024, time.March, 0) || sum.Count != 4 || sum.Total != 475 {
		t.Fatalf("unexpected summary header: %+v", sum)
	}
	want := []CategoryAmount{{"rent", 300}, {"food", 125}, {"transport", 50}}
	if !reflect.DeepEqual(sum.ByCategory, want) {
		t.Fatalf("ByCategory = %v, want %v", sum.ByCategory, want)
	}
}

func TestDistinctKeepsFirstSeenOrder(t *testing.T) {
	got := Distinct([]string{"food", "transport", "food", "rent", "transport"})
	want := []string{"food", "transport", "rent"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Distinct = %v, want %v", got, want)
	}
}

func TestFilter(t *testing.T) {
	food := Filter(samplePurchases(), func(p Purchase) bool { return p.Category == "food" })
	if len(food) != 2 || food[0].ID != "1" || food[1].ID != "3" {
		t.Fatalf("unexpected filter result: %v", food)
	}
}
