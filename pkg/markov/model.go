package markov

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
)

// LoadState reads and validates a JSON transition table from path. Callers
// that want the forgiving behavior of NewFromFile can fall back to an empty
// State on error.
func LoadState(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open state file: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return ReadState(f)
}

// ReadState decodes and validates a JSON transition table from r.
func ReadState(r io.Reader) (State, error) {
	var state State
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode json state: %w", err)
	}
	if state == nil {
		// A literal null is a valid JSON document but not a table.
		return nil, fmt.Errorf("failed to decode json state: document is null")
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	return state, nil
}

// Output returns a copy of the transition table.
func (m *Model) Output() State {
	return m.state.Clone()
}

// Export writes the transition table to w as indented JSON. Tokens are
// written byte-for-byte, including the invisible marker runes.
func (m *Model) Export(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m.state); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return nil
}

// WriteFile serializes the transition table to path. The file is replaced
// atomically so a crash never leaves a half-written state behind.
func (m *Model) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := m.Export(&buf); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	m.logger.Info("State file written",
		slog.String("path", path),
		slog.Int("tokens", len(m.state)),
	)
	return nil
}

// Merge adds the weights of other into the model's table. Transitions that
// already exist have their weights summed, and invalid weights are skipped.
func (m *Model) Merge(other State) {
	merge(m.state, other)
	m.invalidate()
	m.logger.Info("State merged",
		slog.Int("tokens_merged", len(other)),
		slog.Int("tokens_total", len(m.state)),
	)
}

// Import reads a JSON transition table from r and merges it into the model.
// Nothing is merged if the document is invalid.
func (m *Model) Import(r io.Reader) error {
	state, err := ReadState(r)
	if err != nil {
		return err
	}
	m.Merge(state)
	return nil
}
