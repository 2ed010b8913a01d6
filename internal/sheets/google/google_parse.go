package google

import (
	"fmt"
	"strings"

	"spending/internal/core"
)

// Column layout of a purchases sheet: A date, B vendor, C category,
// D location, E account, F NOK, G purchase id.
const idColumn = "G"

func purchaseRow(p core.Purchase) []any {
	return []any{p.Date.Stamp(), p.Vendor, p.Category, p.Location, p.Account, p.NOK, p.ID}
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
