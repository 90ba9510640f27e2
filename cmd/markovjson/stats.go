package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics about the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := a.loadModel().Stats()
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "State file:       %s\n", a.cfg.Model.StatePath)
			_, _ = fmt.Fprintf(w, "Tokens:           %d\n", stats.Tokens)
			_, _ = fmt.Fprintf(w, "Links:            %d\n", stats.Links)
			_, _ = fmt.Fprintf(w, "Total weight:     %g\n", stats.TotalWeight)
			_, _ = fmt.Fprintf(w, "Starting tokens:  %d\n", stats.StartingTokens)
			_, _ = fmt.Fprintf(w, "Sentence ends:    %d\n", stats.SentenceEnds)
			_, _ = fmt.Fprintf(w, "Words:            %d\n", stats.Words)
			return nil
		},
	}
}

func newPruneCmd(a *app) *cobra.Command {
	var minWeight float64

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove rare transitions from the model",
		Long: `Prune removes every transition whose weight is at or below --min-weight
and writes the state file back. A token always keeps its heaviest
transitions, so generation never hits a dead end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := a.loadModel()
			removed := model.Prune(minWeight)
			if err := a.saveModel(model); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d links\n", removed)
			return nil
		},
	}
	cmd.Flags().Float64Var(&minWeight, "min-weight", 1, "remove transitions with weight at or below this value")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "markovjson %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		},
	}
}
