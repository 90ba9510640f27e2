package markov

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNoWords is returned by word-bounded generation on a model that contains
// no token able to advance the word count, so the walk could never finish.
var ErrNoWords = errors.New("model contains no reachable word tokens")

// ErrNoBoundary is returned by sentence-bounded generation when the walk
// enters a token from which no path leads back to the Boundary.
var ErrNoBoundary = errors.New("walk cannot return to a sentence boundary")

// walkMode selects the termination rule of a generation walk.
type walkMode int

const (
	sentenceBounded walkMode = iota
	wordBounded
)

// Sentence generates count sentences. If the model has never seen
// sentence-ending punctuation, it generates up to the sentence fallback
// number of words instead.
func (m *Model) Sentence(count int) (string, error) {
	if !m.getMemo().sentenceEnds {
		m.logger.Debug("No sentence-ending tokens, falling back to word limit",
			slog.Int("requested_sentences", count),
			slog.Int("word_limit", m.fallback),
		)
		return m.walk(wordBounded, m.fallback)
	}
	return m.walk(sentenceBounded, count)
}

// Sentences is an alias for Sentence.
func (m *Model) Sentences(count int) (string, error) {
	return m.Sentence(count)
}

// Blob generates exactly words counted words, regardless of sentence
// boundaries. Single-character words and punctuation do not count.
func (m *Model) Blob(words int) (string, error) {
	return m.walk(wordBounded, words)
}

// Words is an alias for Blob.
func (m *Model) Words(words int) (string, error) {
	return m.Blob(words)
}

// walk contains the main generation loop. It starts at the boundary, which
// counts as the first sentence crossing, so sentence-bounded walks stop on
// the crossing after the requested number of sentences.
func (m *Model) walk(mode walkMode, limit int) (string, error) {
	if _, ok := m.state[Boundary]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUndefinedState, Boundary)
	}
	mm := m.getMemo()
	if mode == wordBounded && limit > 0 && !mm.words {
		return "", ErrNoWords
	}

	var builder strings.Builder
	current := Boundary
	crossings := 1
	words := 0
	capitalize := true

	for {
		if mode == sentenceBounded && crossings > limit {
			break
		}
		if mode == wordBounded && words >= limit {
			break
		}
		// Tokens missing from the table are reported by nextToken.
		if _, ok := m.state[current]; ok {
			if mode == wordBounded && !mm.toWord[current] {
				return "", fmt.Errorf("%w: stuck after %q", ErrNoWords, current)
			}
			if mode == sentenceBounded && !mm.toBoundary[current] {
				return "", fmt.Errorf("%w: stuck after %q", ErrNoBoundary, current)
			}
		}

		next, err := m.nextToken(current)
		if err != nil {
			return "", err
		}
		current = next

		builder.WriteByte(' ')
		if next == Boundary {
			crossings++
			capitalize = true
			builder.WriteString(next)
			continue
		}
		if IsWord(next) {
			words++
		}
		// Opening quotes and brackets pass the capital on to the next token.
		if capitalize && hasAlphanumeric(next) {
			next = capitalizeFirst(next)
			capitalize = false
		}
		builder.WriteString(next)
	}

	m.logger.Debug("Generation finished",
		slog.Int("sentences", crossings-1),
		slog.Int("words", words),
	)
	return cleanUp(builder.String()), nil
}

// cleanUp turns the raw walk buffer into display text: boundaries are
// removed, tagged punctuation is glued to its word and the leading space
// written before the first token is trimmed.
func cleanUp(raw string) string {
	s := strings.ReplaceAll(raw, " "+Boundary, "")
	s = strings.NewReplacer(" "+Marker, "", Marker+" ", "").Replace(s)
	s = stripMarkers(s)
	return strings.TrimPrefix(s, " ")
}

// capitalizeFirst upper-cases the first rune of token.
func capitalizeFirst(token string) string {
	r, size := utf8.DecodeRuneInString(token)
	if r == utf8.RuneError {
		return token
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return token
	}
	return string(upper) + token[size:]
}

func hasAlphanumeric(token string) bool {
	return strings.IndexFunc(token, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
