package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"skywatch/internal/api"
	"skywatch/internal/config"
	"skywatch/internal/votes"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the follow-up priority queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVotes(func(cfg *config.Config, store *votes.Store) error {
				entries, err := api.NewVoteService(store).Priority(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No voted transients")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						strconv.Itoa(entry.Rank),
						entry.TransientID,
						strconv.Itoa(entry.Score),
						strconv.Itoa(entry.Votes.AGN),
						strconv.Itoa(entry.Votes.Interesting),
						strconv.Itoa(entry.Votes.Star),
						strconv.Itoa(entry.Votes.Junk),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Transient", "Score", "AGN", "Interesting", "Star", "Junk"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries to show (0 for all)")
	return cmd
}
