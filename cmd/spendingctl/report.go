package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spending/internal/core"
	"spending/internal/report"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the purchases of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, err := a.monthFlag(cmd)
			if err != nil {
				return err
			}
			purchases, err := a.store.ListPurchases(cmd.Context(), month)
			if err != nil {
				return fmt.Errorf("list purchases: %w", err)
			}

			opts := report.Options{}
			opts.Category, _ = cmd.Flags().GetString("category")
			opts.Account, _ = cmd.Flags().GetString("account")
			out := cmd.OutOrStdout()

			if summary, _ := cmd.Flags().GetBool("summary"); summary {
				report.PrintSummary(out, core.Summarize(month, report.Select(purchases, opts)))
				return nil
			}
			report.PrintPurchases(out, month, purchases, opts)
			return nil
		},
	}
	addMonthFlag(cmd)
	cmd.Flags().StringP("category", "c", "", "only show this category")
	cmd.Flags().StringP("account", "a", "", "only show this account")
	cmd.Flags().Bool("summary", false, "print totals per category instead of every purchase")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the purchases of a month to an xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, err := a.monthFlag(cmd)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("out")
			if path == "" {
				path = "spending-" + report.SheetName(month) + ".xlsx"
			}

			purchases, err := a.store.ListPurchases(cmd.Context(), month)
			if err != nil {
				return fmt.Errorf("list purchases: %w", err)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := report.WriteXLSX(f, month, purchases); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d purchases to %s\n", len(purchases), path)
			return nil
		},
	}
	addMonthFlag(cmd)
	cmd.Flags().StringP("out", "o", "", "output file (default: spending-YYYY-MM.xlsx)")
	return cmd
}
