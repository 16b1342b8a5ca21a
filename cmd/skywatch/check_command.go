package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"skywatch/internal/config"
	"skywatch/internal/ledger"
	"skywatch/internal/logging"
	"skywatch/internal/monitor"
	"skywatch/internal/notify"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single ingestion pass over the detection feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(cfg *config.Config, store *ledger.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				runner := monitor.New(cfg, store, notify.NewService(cfg), logger)
				result, err := runner.Run(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if result.Bootstrap {
					fmt.Fprintln(out, "Bootstrap run: ledger was empty")
				}
				fmt.Fprintf(out, "Feed rows:  %d\n", result.FeedRows)
				fmt.Fprintf(out, "Announced:  %d\n", result.Announced)
				fmt.Fprintf(out, "Recorded:   %d\n", result.Recorded)
				return nil
			})
		},
	}
}
