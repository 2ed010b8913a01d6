// Command spendingctl is the admin tool for the purchase store: it seeds
// demo data, prints month reports, exports xlsx files and deletes purchases.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"spending/internal/cli"
	"spending/internal/core"
	"spending/internal/log"
	"spending/internal/ports"
)

type app struct {
	store   ports.Store
	cleanup func() error
	logger  *log.Logger
	now     func() time.Time
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "spendingctl",
		Short:         "Manage the spending purchase store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	root.AddCommand(seedCmd(a), reportCmd(a), exportCmd(a), deleteCmd(a))
	return root
}

// open connects to the store configured in the environment unless one was
// injected.
func (a *app) open(ctx context.Context) error {
	if a.store != nil {
		return nil
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	if cfg.DataBackend == "memory" {
		a.logger.Warn("Using the memory backend, changes are lost on exit")
	}
	res, err := cli.OpenStore(ctx, a.logger, cfg)
	if err != nil {
		return err
	}
	a.store, a.cleanup = res.Store, res.Cleanup
	return nil
}

func (a *app) close() error {
	if a.cleanup == nil {
		return nil
	}
	err := a.cleanup()
	a.cleanup = nil
	return err
}

// monthFlag parses a YYYY-MM value; empty means the current month.
func (a *app) monthFlag(cmd *cobra.Command) (core.Date, error) {
	v, _ := cmd.Flags().GetString("month")
	if v == "" {
		return core.DateOf(a.now()).MonthOnly(), nil
	}
	d, err := core.ParseStamp(v + "-01")
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid --month %q: want YYYY-MM", v)
	}
	return d.MonthOnly(), nil
}

func addMonthFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("month", "m", "", "month as YYYY-MM (default: current month)")
}

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, "ignoring .env:", err)
	}
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	a := &app{
		logger: cli.SetupLogger(level, log.ComponentCLI),
		now:    time.Now,
	}

	ctx, cancel := cli.SignalContext(context.Background(), a.logger)
	defer cancel()

	if err := run(ctx, a, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		_ = a.close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app, args []string, out io.Writer) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}
