package markov

import (
	"regexp"
	"strings"
)

const (
	// Marker is the invisible two-rune tag (ZWNJ + ZWJ) glued to punctuation
	// tokens to record which side of a word they attach to. A marker at the
	// start of a token means it attaches to the word before it; a marker at the
	// end means it attaches to the word after it.
	Marker = "\u200c\u200d"

	// Boundary is the reserved token that marks both the start and the end of a
	// sentence. It embeds Marker runes, which are stripped from all input, so no
	// trained word can ever collide with it.
	Boundary = "s" + Marker + "t" + Marker + "a" + Marker + "r" + Marker + "t"
)

var (
	// wordContentRegex matches tokens that count as words during generation: an
	// ASCII alphanumeric preceded by any character that is not a marker rune.
	// Single-character words such as "a" deliberately do not match.
	wordContentRegex = regexp.MustCompile(`[^\x{200c}\x{200d}][a-zA-Z0-9]`)
	// sentenceEndRegex matches the tagged sentence-ending punctuation tokens.
	sentenceEndRegex = regexp.MustCompile(`^\x{200c}\x{200d}[.!?]+$`)
)

// Tokenizer defines the contract for turning raw training text into an
// ordered sequence of tokens. Implementations must never return empty tokens
// and should end every sequence with Boundary; Train appends one if missing.
type Tokenizer interface {
	Tokenize(text string) []string
}

// IsWord reports whether a token counts toward a word-bounded generation limit.
func IsWord(token string) bool {
	if token == Boundary {
		return false
	}
	return wordContentRegex.MatchString(token)
}

// IsSentenceEnd reports whether a token is a tagged run of sentence-ending
// punctuation such as "." or "?!".
func IsSentenceEnd(token string) bool {
	return sentenceEndRegex.MatchString(token)
}

// isNullTransition reports whether a pair must be dropped during training.
// A sentence cannot start with its own terminator, and the boundary never
// loops back onto itself.
func isNullTransition(previous, next string) bool {
	return previous == Boundary && (next == Boundary || IsSentenceEnd(next))
}

// stripMarkers removes every marker rune from s.
func stripMarkers(s string) string {
	return strings.NewReplacer("\u200c", "", "\u200d", "").Replace(s)
}
