package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"skywatch/internal/api"
	"skywatch/internal/config"
	"skywatch/internal/votes"
)

func newVotesCommand(ctx *commandContext) *cobra.Command {
	votesCmd := &cobra.Command{
		Use:   "votes",
		Short: "Inspect and update vote tallies",
	}
	votesCmd.AddCommand(newVotesShowCommand(ctx))
	votesCmd.AddCommand(newVotesUpdateCommand(ctx))
	votesCmd.AddCommand(newVotesSymbolsCommand())
	return votesCmd
}

func newVotesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transient-id>",
		Short: "Show the tally and classification for one transient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVotes(func(cfg *config.Config, store *votes.Store) error {
				status, err := api.NewVoteService(store).Describe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printVoteStatus(cmd, status)
				return nil
			})
		},
	}
}

func newVotesUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update <transient-id> <symbol=count>...",
		Short: "Overwrite the tally with a reaction-count snapshot",
		Long: "Overwrite the stored tally for a transient with absolute reaction counts, " +
			"for example: skywatch votes update 2227-55_134258682 fire=2 milky_way=1. " +
			"Symbols omitted from the snapshot reset to zero.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reactions, err := parseReactionArgs(args[1:])
			if err != nil {
				return err
			}
			return ctx.withVotes(func(cfg *config.Config, store *votes.Store) error {
				status, err := api.NewVoteService(store).Update(cmd.Context(), args[0], reactions)
				if err != nil {
					return err
				}
				printVoteStatus(cmd, status)
				return nil
			})
		},
	}
}

func newVotesSymbolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "symbols",
		Short:       "List the reaction symbols that count as votes",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := votes.ReactionSymbols()
			names := make([]string, 0, len(symbols))
			for name := range symbols {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, string(symbols[name])})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Reaction", "Category"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func parseReactionArgs(args []string) (map[string]int, error) {
	reactions := make(map[string]int, len(args))
	for _, arg := range args {
		symbol, value, found := strings.Cut(arg, "=")
		if !found || symbol == "" {
			return nil, fmt.Errorf("invalid reaction %q (expected symbol=count)", arg)
		}
		count, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid count in %q: %w", arg, err)
		}
		reactions[symbol] = count
	}
	return reactions, nil
}

func printVoteStatus(cmd *cobra.Command, status api.VoteStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transient:      %s\n", status.TransientID)
	fmt.Fprintf(out, "Votes:          AGN=%d Interesting=%d Star=%d Junk=%d (total %d)\n",
		status.Votes.AGN, status.Votes.Interesting, status.Votes.Star, status.Votes.Junk, status.Votes.Total)
	fmt.Fprintf(out, "Classification: %s (confidence %.2f)\n", status.Classification, status.Confidence)
	fmt.Fprintf(out, "Priority score: %d\n", status.PriorityScore)
}
