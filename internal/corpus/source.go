package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Source yields training documents one at a time.
type Source interface {
	// Each calls fn for every document. Iteration stops at the first error
	// returned by fn or when ctx is done.
	Each(ctx context.Context, fn func(name, text string) error) error
}

// FileSource reads every file under Root matching one of the Includes
// patterns and none of the Excludes patterns. Patterns use doublestar syntax
// and are matched against slash-separated paths relative to Root.
type FileSource struct {
	Root     string
	Includes []string
	Excludes []string
}

// NewFileSource creates a FileSource. With no includes, every file matches.
func NewFileSource(root string, includes, excludes []string) *FileSource {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &FileSource{Root: root, Includes: includes, Excludes: excludes}
}

// Files returns the matching file paths in lexical order.
func (s *FileSource) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchAny(s.Excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(s.Includes, rel) && !matchAny(s.Excludes, rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus directory: %w", err)
	}
	return files, nil
}

// Each implements Source.
func (s *FileSource) Each(ctx context.Context, fn func(name, text string) error) error {
	files, err := s.Files()
	if err != nil {
		return err
	}
	for _, path := range files {
		if err = ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read corpus file: %w", err)
		}
		if err = fn(path, string(data)); err != nil {
			return err
		}
	}
	return nil
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

// SQLSource reads documents from the first column of every row returned by
// Query. Rows with a NULL text are skipped.
type SQLSource struct {
	DB    *sql.DB
	Query string
	Args  []any
}

// Each implements Source.
func (s *SQLSource) Each(ctx context.Context, fn func(name, text string) error) error {
	rows, err := s.DB.QueryContext(ctx, s.Query, s.Args...)
	if err != nil {
		return fmt.Errorf("failed to query corpus: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	row := 0
	for rows.Next() {
		row++
		var text sql.NullString
		if err = rows.Scan(&text); err != nil {
			return fmt.Errorf("failed to scan corpus row: %w", err)
		}
		if !text.Valid {
			continue
		}
		if err = fn(fmt.Sprintf("row %d", row), text.String); err != nil {
			return err
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("failed to read corpus rows: %w", err)
	}
	return nil
}

// Trainer is the part of a model a Source is fed into.
type Trainer interface {
	Train(text string)
}

// Result summarizes a training run.
type Result struct {
	Documents int
	Bytes     int
}

// Train feeds every document of src into model. progress, if non-nil, is
// called after each document with the running totals.
func Train(ctx context.Context, model Trainer, src Source, logger *slog.Logger, progress func(Result)) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var res Result
	err := src.Each(ctx, func(name, text string) error {
		model.Train(text)
		res.Documents++
		res.Bytes += len(text)
		logger.Debug("Trained on document", slog.String("name", name), slog.Int("bytes", len(text)))
		if progress != nil {
			progress(res)
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("training aborted after %d documents: %w", res.Documents, err)
	}
	logger.Info("Training finished",
		slog.Int("documents", res.Documents),
		slog.Int("bytes", res.Bytes),
	)
	return res, nil
}
