package markov

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// invariantSentence has exactly one path through its table, so any model
// trained only on it must reproduce it.
const invariantSentence = `This is a "poor" sentence, with no variance or like anything.`

// newTestModel creates a model with a fixed random source so statistical
// tests are reproducible.
func newTestModel(t testing.TB, opts ...Option) *Model {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 11)))}, opts...)
	return New(opts...)
}

// newTrainedModel is a convenience helper that also trains the model.
func newTrainedModel(t testing.TB, text string, opts ...Option) *Model {
	t.Helper()
	m := newTestModel(t, opts...)
	m.Train(text)
	return m
}

// repeatText joins n copies of s with single spaces.
func repeatText(s string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

// writeTestFile writes content into a fresh temporary directory.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// benchmarkText is a deterministic prose-like corpus of about 256 KiB:
// sentences of varying length with commas, quoted words and mixed
// terminators.
var benchmarkText = sync.OnceValue(func() string {
	vocabulary := strings.Fields(`the a river lantern quiet old stone harbor
		morning whisper green fox over under beside slowly never always
		carried forgot found bright narrow window letter garden soldier
		winter summer bridge across they she he we it was is were will
		and but or because while after before city mountain road story`)
	terminators := []string{".", ".", ".", "!", "?"}
	r := rand.New(rand.NewPCG(2024, 10))

	var sb strings.Builder
	for sb.Len() < 256<<10 {
		n := 4 + r.IntN(11)
		for i := 0; i < n; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			word := vocabulary[r.IntN(len(vocabulary))]
			if r.IntN(20) == 0 {
				word = `"` + word + `"`
			}
			sb.WriteString(word)
			if i < n-1 && r.IntN(8) == 0 {
				sb.WriteByte(',')
			}
		}
		sb.WriteString(terminators[r.IntN(len(terminators))])
		sb.WriteByte(' ')
	}
	return sb.String()
})
