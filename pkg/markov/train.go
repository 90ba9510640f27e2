package markov

import (
	"fmt"
	"io"
	"log/slog"
)

// Train tokenizes text and folds every adjacent pair of tokens into the
// transition table, starting from the Boundary. Training never fails: any
// string, including the empty one, is accepted.
func (m *Model) Train(text string) {
	tokens := m.tokenizer.Tokenize(text)
	if len(tokens) == 0 || tokens[len(tokens)-1] != Boundary {
		tokens = append(tokens, Boundary)
	}

	var pairs, dropped int
	previous := Boundary
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if isNullTransition(previous, token) {
			dropped++
			continue
		}
		updateState(m.state, previous, token)
		previous = token
		pairs++
	}
	if pairs > 0 {
		m.invalidate()
	}

	m.logger.Debug("Training completed",
		slog.Int("tokens", len(tokens)),
		slog.Int("pairs_recorded", pairs),
		slog.Int("pairs_dropped", dropped),
	)
}

// TrainReader reads r to the end and trains on its contents as one text.
func (m *Model) TrainReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read training data: %w", err)
	}
	m.Train(string(data))
	return nil
}
