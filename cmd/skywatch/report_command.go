package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"skywatch/internal/analytics"
	"skywatch/internal/config"
	"skywatch/internal/votes"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize voting activity and classifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVotes(func(cfg *config.Config, store *votes.Store) error {
				report, err := analytics.BuildReport(cmd.Context(), store, time.Now())
				if err != nil {
					return err
				}
				if err := report.WriteText(cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("render report: %w", err)
				}

				if path := strings.TrimSpace(exportPath); path != "" {
					file, err := os.Create(path)
					if err != nil {
						return fmt.Errorf("create export file: %w", err)
					}
					defer file.Close()
					if err := analytics.ExportDetailed(cmd.Context(), store, file); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "\nDetailed export written to %s\n", path)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Write a detailed CSV export to the given path")
	return cmd
}
