package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/CTAG07/markovjson/internal/config"
	"github.com/CTAG07/markovjson/pkg/markov"
	"github.com/spf13/cobra"
)

// app carries the state shared by every command once the root pre-run has
// loaded the configuration.
type app struct {
	configPath string
	statePath  string
	logLevel   string
	complexity float64
	seed       uint64

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "markovjson",
		Short: "Train and sample word-level Markov chains stored as JSON",
		Long: `markovjson trains a first-order word Markov chain on text and generates
new sentences or word blobs from it. The model is a plain JSON file that can
be inspected, merged or pruned.

Example usage:
  markovjson train ./books            # Train on every text file in ./books
  markovjson sentence 3               # Generate three sentences
  markovjson blob 50 --complexity 2   # Generate 50 words, favoring common paths
  markovjson render rumor.tmpl        # Render a flavor-text template`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "./markovjson.yaml", "config file, JSON or YAML by extension")
	flags.StringVar(&a.statePath, "state", "", "model state file (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	flags.Float64Var(&a.complexity, "complexity", markov.DefaultComplexity, "sampling exponent (overrides config)")
	flags.Uint64Var(&a.seed, "seed", 0, "random seed for reproducible output (overrides config)")

	root.AddCommand(
		newTrainCmd(a),
		newSentenceCmd(a),
		newBlobCmd(a),
		newStatsCmd(a),
		newPruneCmd(a),
		newRenderCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("state") {
		cfg.Model.StatePath = a.statePath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("complexity") {
		cfg.Model.Complexity = a.complexity
	}
	if flags.Changed("seed") {
		cfg.Model.Seed = a.seed
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel()}))
	a.logger.Debug("Configuration loaded", "path", a.configPath, "state", cfg.Model.StatePath)
	return nil
}

// loadModel opens the configured state file. A missing or unreadable file
// yields an empty model.
func (a *app) loadModel() *markov.Model {
	return newModelAt(a, a.cfg.Model.StatePath)
}

// saveModel writes model to the configured state file, creating its
// directory if needed.
func (a *app) saveModel(model *markov.Model) error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.Model.StatePath), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return model.WriteFile(a.cfg.Model.StatePath)
}

func newModelAt(a *app, path string) *markov.Model {
	return markov.NewFromFile(path, a.modelOptions()...)
}

func (a *app) modelOptions() []markov.Option {
	opts := []markov.Option{
		markov.WithLogger(a.logger),
		markov.WithComplexity(a.cfg.Model.Complexity),
		markov.WithSentenceFallback(a.cfg.Model.SentenceFallback),
	}
	if a.cfg.Model.Seed != 0 {
		opts = append(opts, markov.WithRand(rand.New(rand.NewPCG(a.cfg.Model.Seed, a.cfg.Model.Seed))))
	}
	return opts
}
