package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"skywatch/internal/config"
	"skywatch/internal/ledger"
	"skywatch/internal/monitor"
	"skywatch/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline state and environment checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(cfg *config.Config, store *ledger.Store) error {
				out := cmd.OutOrStdout()

				count, err := store.Count(cmd.Context())
				if err != nil {
					return fmt.Errorf("count ledger entries: %w", err)
				}
				fmt.Fprintf(out, "Processed detections: %d\n", count)

				if mark, ok, err := monitor.LoadLastCheck(cfg.Paths.DataDir); err != nil {
					fmt.Fprintf(out, "Last check: unreadable (%v)\n", err)
				} else if ok {
					fmt.Fprintf(out, "Last check: %s\n", mark.Format("2006-01-02 15:04:05 UTC"))
				} else {
					fmt.Fprintln(out, "Last check: never")
				}

				rows := make([][]string, 0, 4)
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					rows = append(rows, []string{result.Name, passFail(result.Passed), result.Detail})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Check", "Status", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func passFail(passed bool) string {
	if passed {
		return "ok"
	}
	return "failed"
}
