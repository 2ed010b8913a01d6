package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"spending/internal/core"
)

type demoVendor struct {
	category, location, vendor string
}

var demoVendors = []demoVendor{
	{"restaurants", "OSLO", "BURGER KING"},
	{"groceries", "OSLO", "REMA 1000"},
	{"entertainment", "INTERNET", "NETFLIX"},
}

// demoPurchases returns days*3 purchases of 100 NOK from the first of month
// on, one per demo vendor each day. Ids start at 111111.
func demoPurchases(month core.Date, days int) []core.Purchase {
	first := month.FirstOfMonth()
	last := core.NewDate(month.Year, month.Month+1, 0).Time().Day()
	if days > last {
		days = last
	}

	out := make([]core.Purchase, 0, days*len(demoVendors))
	id := 111111
	for day := 0; day < days; day++ {
		for _, v := range demoVendors {
			out = append(out, core.Purchase{
				ID:       strconv.Itoa(id),
				Date:     core.NewDate(first.Year, first.Month, day+1),
				NOK:      100,
				Account:  "main",
				Category: v.category,
				Location: v.location,
				Vendor:   v.vendor,
			})
			id++
		}
	}
	return out
}

func seedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo purchases into a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, err := a.monthFlag(cmd)
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")
			if days < 1 {
				return fmt.Errorf("invalid --days %d: must be at least 1", days)
			}

			purchases := demoPurchases(month, days)
			inserted, err := a.store.AddPurchases(cmd.Context(), purchases)
			if err != nil {
				return fmt.Errorf("seed purchases: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s: %d purchases, %d new\n", month, len(purchases), inserted)
			return nil
		},
	}
	addMonthFlag(cmd)
	cmd.Flags().Int("days", 11, "number of days to fill")
	return cmd
}
