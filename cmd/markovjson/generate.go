package main

import (
	"fmt"
	"strconv"

	"github.com/CTAG07/markovjson/pkg/markov"
	"github.com/spf13/cobra"
)

func newSentenceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "sentence [count]",
		Aliases: []string{"sentences"},
		Short:   "Generate sentences from the model",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := countArg(args, markov.DefaultSentences)
			if err != nil {
				return err
			}
			out, err := a.loadModel().Sentence(count)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newBlobCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "blob [words]",
		Aliases: []string{"words"},
		Short:   "Generate a blob of words from the model",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := countArg(args, markov.DefaultBlobWords)
			if err != nil {
				return err
			}
			out, err := a.loadModel().Blob(count)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// countArg parses the optional positional count argument.
func countArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q: must be a non-negative integer", args[0])
	}
	return n, nil
}
