package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TEL1N/pokemon-adb-bot/internal/session"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the grind loop until the catalog is exhausted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoop(cmd)
	},
}

// runLoop is the headless entry point, shared by the root command.
// Ctrl-C stops the loop cleanly between device operations.
func runLoop(cmd *cobra.Command) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nav, orch := d.orchestrator()
	runner := session.NewRunner(d.dev, nav, orch, d.log)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
