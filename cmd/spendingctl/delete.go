package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spending/internal/core"
	"spending/internal/ports"
)

func deleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <purchase-id>",
		Short: "Delete a purchase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			id := args[0]

			p, err := a.store.GetPurchase(ctx, id)
			if errors.Is(err, ports.ErrNotFound) {
				return fmt.Errorf("purchase %s not found", id)
			}
			if err != nil {
				return fmt.Errorf("get purchase: %w", err)
			}

			fmt.Fprintf(out, "%s  %s  %s  %s\n", p.Date.Stamp(), p.Vendor, p.Category, core.FormatNOK(p.NOK))
			if force, _ := cmd.Flags().GetBool("force"); !force {
				fmt.Fprintf(out, "Delete purchase %s? (y/N): ", id)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.ToLower(strings.TrimSpace(answer)) != "y" {
					fmt.Fprintln(out, "Operation canceled.")
					return nil
				}
			}

			if err := a.store.DeletePurchase(ctx, id); err != nil {
				return fmt.Errorf("delete purchase: %w", err)
			}
			fmt.Fprintf(out, "Deleted purchase %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
	return cmd
}
