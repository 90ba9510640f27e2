package markov

import (
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
)

const (
	// DefaultComplexity is used whenever no valid complexity is configured.
	DefaultComplexity = 1.0
	// DefaultSentences is the conventional argument for Sentence.
	DefaultSentences = 1
	// DefaultBlobWords is the conventional argument for Blob.
	DefaultBlobWords = 119
	// DefaultSentenceFallback is the word ceiling used by Sentence when the
	// model has never seen sentence-ending punctuation.
	DefaultSentenceFallback = 2000
)

// Model is the main entry point of the library. It owns the transition
// table, the sampling configuration and the derived sampling cache.
// A Model is not safe for concurrent use; callers sharing one must serialize
// their own calls.
type Model struct {
	state      State
	complexity float64
	memo       *memo
	tokenizer  Tokenizer
	rng        *rand.Rand
	fallback   int
	logger     *slog.Logger
}

// Option is a function that configures a Model.
type Option func(*Model)

// WithComplexity sets the sampling exponent. Negative, NaN and infinite
// values fall back to DefaultComplexity.
// Default: 1
func WithComplexity(c float64) Option {
	return func(m *Model) {
		if !validComplexity(c) {
			c = DefaultComplexity
		}
		m.complexity = c
	}
}

// WithTokenizer replaces the DefaultTokenizer used by Train.
func WithTokenizer(t Tokenizer) Option {
	return func(m *Model) {
		if t != nil {
			m.tokenizer = t
		}
	}
}

// WithRand sets the random source used for sampling. Supplying a seeded
// generator makes generation reproducible.
func WithRand(r *rand.Rand) Option {
	return func(m *Model) {
		if r != nil {
			m.rng = r
		}
	}
}

// WithSentenceFallback sets the word ceiling Sentence uses on models that
// contain no sentence-ending punctuation.
// Default: 2000
func WithSentenceFallback(words int) Option {
	return func(m *Model) {
		if words > 0 {
			m.fallback = words
		}
	}
}

// WithLogger sets the logger at construction time. See SetLogger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.SetLogger(logger)
	}
}

// New creates a model with an empty transition table.
func New(opts ...Option) *Model {
	m := &Model{
		state:      make(State),
		complexity: DefaultComplexity,
		tokenizer:  NewDefaultTokenizer(),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		fallback:   DefaultSentenceFallback,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromState creates a model from an in-memory transition table. The table
// is copied; transitions with non-positive weights are discarded.
func NewFromState(state State, opts ...Option) *Model {
	m := New(opts...)
	merge(m.state, state)
	return m
}

// NewFromFile creates a model from a JSON state file written by WriteFile.
// It never fails: if the file cannot be read or parsed, a warning is logged
// and the model starts with an empty table.
func NewFromFile(path string, opts ...Option) *Model {
	m := New(opts...)
	state, err := LoadState(path)
	if err != nil {
		m.logger.Warn("Could not load state file, starting empty",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return m
	}
	m.state = state
	m.logger.Info("State file loaded",
		slog.String("path", path),
		slog.Int("tokens", len(state)),
	)
	return m
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Complexity returns the current sampling exponent.
func (m *Model) Complexity() float64 {
	return m.complexity
}

// SetComplexity changes the sampling exponent without retraining. Invalid
// values are ignored and the previous value is kept.
func (m *Model) SetComplexity(c float64) {
	if !validComplexity(c) {
		m.logger.Debug("Ignoring invalid complexity",
			slog.Float64("requested", c),
			slog.Float64("current", m.complexity),
		)
		return
	}
	if c != m.complexity {
		m.complexity = c
		m.invalidate()
	}
}

// invalidate drops the sampling cache after any change to the table or
// the complexity.
func (m *Model) invalidate() {
	m.memo = nil
}

func validComplexity(c float64) bool {
	return c >= 0 && !math.IsInf(c, 1)
}
