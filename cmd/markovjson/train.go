package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/CTAG07/markovjson/internal/corpus"
	"github.com/CTAG07/markovjson/pkg/markov"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newTrainCmd(a *app) *cobra.Command {
	var (
		dbPath   string
		query    string
		reset    bool
		noBar    bool
		includes []string
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "train [path...]",
		Short: "Train the model on text files, a SQLite table or stdin",
		Long: `Train folds text into the model and writes the state file back.

Each path is a directory walked with the configured include and exclude
globs, or a single file. "-" reads standard input. With --db, rows of the
configured query are used instead.

Examples:
  markovjson train ./books
  markovjson train --include '**/*.md' ./notes
  markovjson train --db corpus.db --query 'SELECT body FROM posts'
  cat story.txt | markovjson train -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var model *markov.Model
			if reset {
				model = markov.New(a.modelOptions()...)
			} else {
				model = a.loadModel()
			}

			if cmd.Flags().Changed("include") {
				a.cfg.Corpus.Includes = includes
			}
			if cmd.Flags().Changed("exclude") {
				a.cfg.Corpus.Excludes = excludes
			}
			if cmd.Flags().Changed("db") {
				a.cfg.Corpus.DatabasePath = dbPath
			}
			if cmd.Flags().Changed("query") {
				a.cfg.Corpus.Query = query
			}

			sources, err := a.sources(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeSources(sources)

			var total corpus.Result
			for _, src := range sources {
				res, err := a.train(ctx, cmd, model, src, noBar)
				total.Documents += res.Documents
				total.Bytes += res.Bytes
				if err != nil {
					return err
				}
			}

			if err = a.saveModel(model); err != nil {
				return err
			}
			stats := model.Stats()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Trained on %d documents (%d bytes): %d tokens, %d links\n",
				total.Documents, total.Bytes, stats.Tokens, stats.Links)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dbPath, "db", "", "SQLite database to read training text from")
	flags.StringVar(&query, "query", "", "query selecting one text column (default from config)")
	flags.BoolVar(&reset, "reset", false, "start from an empty model instead of the state file")
	flags.BoolVar(&noBar, "no-progress", false, "disable the progress bar")
	flags.StringSliceVar(&includes, "include", nil, "include glob (repeatable, overrides config)")
	flags.StringSliceVar(&excludes, "exclude", nil, "exclude glob (repeatable, overrides config)")
	return cmd
}

// readerSource reads one document from a reader, usually standard input.
type readerSource struct {
	r io.Reader
}

func (s readerSource) Each(ctx context.Context, fn func(name, text string) error) error {
	data, err := io.ReadAll(s.r)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return fn("stdin", string(data))
}

// openCorpusDB is swapped out by tests.
var openCorpusDB = corpus.OpenSQLite

// sources turns the command arguments and configuration into corpus sources.
// On error, anything already opened is closed again.
func (a *app) sources(args []string, stdin io.Reader) ([]corpus.Source, error) {
	var sources []corpus.Source

	if a.cfg.Corpus.DatabasePath != "" {
		db, err := openCorpusDB(a.cfg.Corpus.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open corpus database: %w", err)
		}
		sources = append(sources, &corpus.SQLSource{DB: db, Query: a.cfg.Corpus.Query})
	}

	for _, arg := range args {
		if arg == "-" {
			sources = append(sources, readerSource{r: stdin})
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			closeSources(sources)
			return nil, fmt.Errorf("invalid corpus path: %w", err)
		}
		if info.IsDir() {
			sources = append(sources, corpus.NewFileSource(arg, a.cfg.Corpus.Includes, a.cfg.Corpus.Excludes))
		} else {
			sources = append(sources, fileSource(arg))
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("nothing to train on: pass a path, - for stdin, or --db")
	}
	return sources, nil
}

// closeSources releases the database handles held by sources.
func closeSources(sources []corpus.Source) {
	for _, s := range sources {
		if src, ok := s.(*corpus.SQLSource); ok {
			_ = src.DB.Close()
		}
	}
}

// fileSource reads a single named file.
type fileSource string

func (f fileSource) Each(ctx context.Context, fn func(name, text string) error) error {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return fmt.Errorf("failed to read corpus file: %w", err)
	}
	return fn(string(f), string(data))
}

func (a *app) train(ctx context.Context, cmd *cobra.Command, model *markov.Model, src corpus.Source, noBar bool) (corpus.Result, error) {
	total := -1
	if fileSrc, ok := src.(*corpus.FileSource); ok {
		files, err := fileSrc.Files()
		if err != nil {
			return corpus.Result{}, err
		}
		total = len(files)
	}

	var progress func(corpus.Result)
	if !noBar {
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Training[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr())
			}),
		)
		defer func() { _ = bar.Finish() }()
		progress = func(res corpus.Result) {
			_ = bar.Set(res.Documents)
		}
	}

	return corpus.Train(ctx, model, src, a.logger, progress)
}
