package core

import "slices"

// CategoryAmount is the NOK spent in one category.
type CategoryAmount struct {
	Name string
	NOK  int
}

// MonthSummary condenses the purchases of one month.
type MonthSummary struct {
	Month      Date
	Count      int
	Total      int
	ByCategory []CategoryAmount
}

// Total sums the NOK of every purchase.
func Total(purchases []Purchase) int {
	var total int
	for _, p := range purchases {
		total += p.NOK
	}
	return total
}

// CategoryTotals sums purchases per listed category. Every listed category
// is present, with 0 when nothing was spent; other categories are ignored.
func CategoryTotals(categories []string, purchases []Purchase) map[string]int {
	results := make(map[string]int, len(categories))
	for _, cat := range categories {
		results[cat] = 0
	}
	for _, p := range purchases {
		if _, ok := results[p.Category]; !ok {
			continue
		}
		results[p.Category] += p.NOK
	}
	return results
}

// Summarize totals the purchases of month by category, largest first.
func Summarize(month Date, purchases []Purchase) MonthSummary {
	sum := MonthSummary{Month: month.MonthOnly(), Count: len(purchases), Total: Total(purchases)}
	byName := map[string]int{}
	for _, p := range purchases {
		if _, ok := byName[p.Category]; !ok {
			sum.ByCategory = append(sum.ByCategory, CategoryAmount{Name: p.Category})
		}
		byName[p.Category] += p.NOK
	}
	for i := range sum.ByCategory {
		sum.ByCategory[i].NOK = byName[sum.ByCategory[i].Name]
	}
	slices.SortStableFunc(sum.ByCategory, func(a, b CategoryAmount) int {
		return b.NOK - a.NOK
	})
	return sum
}

// Distinct returns values without duplicates, in first-seen order.
func Distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Filter returns the purchases for which keep is true.
func Filter(purchases []Purchase, keep func(Purchase) bool) []Purchase {
	var out []Purchase
	for _, p := range purchases {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
