// Package report renders a month of purchases for the terminal and as an
// xlsx export.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"spending/internal/core"
)

// Options controls which purchases are shown.
type Options struct {
	// Category keeps only purchases of this category when set.
	Category string
	// Account keeps only purchases of this account when set.
	Account string
}

// Select applies opts to purchases.
func Select(purchases []core.Purchase, opts Options) []core.Purchase {
	if opts.Category == "" && opts.Account == "" {
		return purchases
	}
	return core.Filter(purchases, func(p core.Purchase) bool {
		return (opts.Category == "" || p.Category == opts.Category) &&
			(opts.Account == "" || p.Account == opts.Account)
	})
}

// PrintPurchases writes one row per purchase with a total footer.
func PrintPurchases(w io.Writer, month core.Date, purchases []core.Purchase, opts Options) {
	shown := Select(purchases, opts)

	fmt.Fprintf(w, "Spending in %s: %d purchases\n", month.MonthOnly(), len(shown))
	if opts.Category != "" || opts.Account != "" {
		fmt.Fprintf(w, "Filter: %s\n", describe(opts))
	}
	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Vendor", "Category", "Location", "Account", "NOK"})
	for _, p := range shown {
		t.AppendRow(table.Row{p.Date.Stamp(), p.Vendor, p.Category, p.Location, p.Account, p.NOK})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", "", "Total", core.Total(shown)})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight}})
	t.Render()
}

// PrintSummary writes the per category totals of a month, largest first.
func PrintSummary(w io.Writer, sum core.MonthSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s", sum.Month)
	t.AppendHeader(table.Row{"Category", "NOK", "Share"})
	for _, c := range sum.ByCategory {
		t.AppendRow(table.Row{c.Name, c.NOK, share(c.NOK, sum.Total)})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{fmt.Sprintf("%d purchases", sum.Count), sum.Total, ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func share(part, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

func describe(opts Options) string {
	switch {
	case opts.Category != "" && opts.Account != "":
		return "category " + opts.Category + ", account " + opts.Account
	case opts.Category != "":
		return "category " + opts.Category
	default:
		return "account " + opts.Account
	}
}
