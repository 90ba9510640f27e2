package markov

import (
	"regexp"
	"strings"
)

// DefaultTokenizer is the default implementation of the Tokenizer interface.
// It lowercases and normalizes the input, splits sentence-ending punctuation
// into its own tokens followed by a Boundary, and tags punctuation that hugs a
// word with a Marker so generated text can be glued back together.
type DefaultTokenizer struct {
	hiddenRegex      *regexp.Regexp
	whitespaceRegex  *regexp.Regexp
	sentenceEndRegex *regexp.Regexp
	startPuncRegex   *regexp.Regexp
	endPuncRegex     *regexp.Regexp
}

// NewDefaultTokenizer creates a new tokenizer with the default normalization rules.
func NewDefaultTokenizer() *DefaultTokenizer {
	return &DefaultTokenizer{
		// Control characters, non-breaking space, DEL and the marker runes
		// themselves. Newline and carriage return are left for whitespaceRegex.
		hiddenRegex:     regexp.MustCompile(`[\x{00}-\x{09}\x{0b}\x{0c}\x{0e}-\x{1f}\x{7f}\x{a0}\x{200c}\x{200d}]`),
		whitespaceRegex: regexp.MustCompile(`\s+`),
		// One or more terminators directly after a word, then a space or the end.
		sentenceEndRegex: regexp.MustCompile(`\b([.!?]+)( |$)`),
		// A punctuation run after a space that leads straight into a word.
		startPuncRegex: regexp.MustCompile(` ([^\s.!?a-zA-Z0-9\x{200c}\x{200d}]+)\b`),
		// A punctuation run straight after a word that is followed by a space.
		endPuncRegex: regexp.MustCompile(`\b([^\s.!?a-zA-Z0-9\x{200c}\x{200d}]+) `),
	}
}

// Tokenize runs the normalization pipeline over text and returns the tokens,
// always terminated by a Boundary.
func (t *DefaultTokenizer) Tokenize(text string) []string {
	text = strings.ToLower(text)
	text = t.hiddenRegex.ReplaceAllString(text, "")
	// Padding lets punctuation at the very start or end of the text be tagged
	// the same way as punctuation in the middle.
	text = " " + t.whitespaceRegex.ReplaceAllString(text, " ") + " "
	text = t.sentenceEndRegex.ReplaceAllString(text, " "+Marker+"${1} "+Boundary+" ")
	text = t.startPuncRegex.ReplaceAllString(text, " ${1}"+Marker+" ")
	text = t.endPuncRegex.ReplaceAllString(text, " "+Marker+"${1} ")

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields)+1)
	tokens = append(tokens, fields...)
	return append(tokens, Boundary)
}
