package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"skywatch/internal/config"
	"skywatch/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the processed-detection ledger",
	}
	ledgerCmd.AddCommand(newLedgerShowCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClearCommand(ctx))
	return ledgerCmd
}

func newLedgerShowCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List processed detections in ingestion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(cfg *config.Config, store *ledger.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Ledger is empty")
					return nil
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[len(entries)-limit:]
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					status := entry.Status
					if status == "" {
						status = "-"
					}
					rows = append(rows, []string{
						entry.Key(),
						entry.Field,
						strconv.FormatFloat(entry.RA, 'f', 4, 64),
						strconv.FormatFloat(entry.Dec, 'f', 4, 64),
						status,
						entry.ProcessedAt.Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Transient", "Field", "RA", "Dec", "Status", "Processed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N entries (0 for all)")
	return cmd
}

func newLedgerClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every ledger entry",
		Long: "Delete every ledger entry. The next ingestion run will treat the feed as a " +
			"fresh deployment and re-run the bootstrap policy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to clear the ledger without --force")
			}
			return ctx.withLedger(func(cfg *config.Config, store *ledger.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d ledger entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm the destructive clear")
	return cmd
}
