package markov

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWriteFileRoundTrip(t *testing.T) {
	m := newTrainedModel(t, `some words, -other stuff- Also "things" lel #. ook! ook??`)
	path := filepath.Join(t.TempDir(), "state.json")

	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	loaded := NewFromFile(path)
	if !reflect.DeepEqual(loaded.Output(), m.Output()) {
		t.Errorf("loaded state differs:\n got = %v\nwant = %v", loaded.Output(), m.Output())
	}

	var first, reloaded bytes.Buffer
	if err := m.Export(&first); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if err := loaded.Export(&reloaded); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if !bytes.Equal(first.Bytes(), reloaded.Bytes()) {
		t.Errorf("exports are not byte-identical")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read state file: %v", err)
	}
	if !bytes.Contains(raw, []byte(Boundary)) {
		t.Errorf("expected marker runes to be written unescaped")
	}
}

func TestNewFromFileStartsEmpty(t *testing.T) {
	testCases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "Missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.json") },
		},
		{
			name: "Malformed json",
			path: func(t *testing.T) string { return writeTestFile(t, "bad.json", "{not json") },
		},
		{
			name: "Wrong shape",
			path: func(t *testing.T) string { return writeTestFile(t, "shape.json", `{"a": "b"}`) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewFromFile(tc.path(t))
			var buf bytes.Buffer
			if err := m.Export(&buf); err != nil {
				t.Fatalf("Export() failed: %v", err)
			}
			if buf.String() != "{}\n" {
				t.Errorf("expected an empty table, got %q", buf.String())
			}
		})
	}
}

func TestLoadStateErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "Null document", content: "null"},
		{name: "Array document", content: "[1, 2]"},
		{name: "Negative weight", content: `{"a": {"b": -1}}`},
		{name: "Zero weight", content: `{"a": {"b": 0}}`},
		{name: "Token without successors", content: `{"a": {}}`},
		{name: "Empty token", content: `{"": {"b": 1}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadState(writeTestFile(t, "state.json", tc.content)); err == nil {
				t.Errorf("expected an error loading %q", tc.content)
			}
		})
	}

	if _, err := LoadState(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestImport(t *testing.T) {
	m := newTrainedModel(t, "some words")
	var buf bytes.Buffer
	if err := m.Export(&buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	if err := m.Import(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	want := State{
		Boundary: {"some": 2},
		"some":   {"words": 2},
		"words":  {Boundary: 2},
	}
	if got := m.Output(); !reflect.DeepEqual(got, want) {
		t.Errorf("Import()\n got = %v\nwant = %v", got, want)
	}

	if err := m.Import(strings.NewReader(`{"some": {"words": -5}}`)); err == nil {
		t.Errorf("expected an error importing an invalid table")
	}
	if got := m.Output(); !reflect.DeepEqual(got, want) {
		t.Errorf("failed import changed the table: %v", got)
	}
}

func TestMergeInvalidatesSampling(t *testing.T) {
	m := newTrainedModel(t, "alpha beta.")
	if _, err := m.Sentence(1); err != nil {
		t.Fatalf("Sentence() failed: %v", err)
	}

	// Make "gamma" the only realistic start.
	m.Merge(State{Boundary: {"gamma": 1e6}, "gamma": {Marker + ".": 1}})
	m.SetComplexity(50)

	got, err := m.Sentence(1)
	if err != nil {
		t.Fatalf("Sentence() failed: %v", err)
	}
	if got != "Gamma." {
		t.Errorf("expected merged transitions to be sampled, got %q", got)
	}
}

func TestNewFromState(t *testing.T) {
	input := State{
		"a": {"b": -1, "c": 2, "d": math.NaN()},
		"z": {"y": 0},
		"":  {"x": 1},
	}
	m := NewFromState(input)

	want := State{"a": {"c": 2}}
	if got := m.Output(); !reflect.DeepEqual(got, want) {
		t.Errorf("NewFromState()\n got = %v\nwant = %v", got, want)
	}

	// The model owns its own copy.
	input["a"]["c"] = 100
	if got := m.Output()["a"]["c"]; got != 2 {
		t.Errorf("expected the table to be copied, got weight %v", got)
	}
}

func TestComplexitySettings(t *testing.T) {
	if got := newTestModel(t).Complexity(); got != DefaultComplexity {
		t.Errorf("default complexity = %v, want %v", got, DefaultComplexity)
	}
	if got := newTestModel(t, WithComplexity(-1)).Complexity(); got != DefaultComplexity {
		t.Errorf("WithComplexity(-1) = %v, want %v", got, DefaultComplexity)
	}

	m := newTestModel(t, WithComplexity(2.5))
	for _, c := range []float64{-1, math.NaN(), math.Inf(1)} {
		m.SetComplexity(c)
		if got := m.Complexity(); got != 2.5 {
			t.Errorf("SetComplexity(%v) changed complexity to %v", c, got)
		}
	}
	m.SetComplexity(0)
	if got := m.Complexity(); got != 0 {
		t.Errorf("SetComplexity(0) = %v, want 0", got)
	}
}

func TestStats(t *testing.T) {
	m := newTrainedModel(t, "some words")
	want := Stats{Tokens: 3, Links: 3, TotalWeight: 3, StartingTokens: 1, SentenceEnds: 0, Words: 2}
	if got := m.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}

	m.Train("ook. ook!")
	got := m.Stats()
	if got.SentenceEnds != 2 {
		t.Errorf("expected 2 sentence ends, got %d", got.SentenceEnds)
	}
	if got.StartingTokens != 2 {
		t.Errorf("expected 2 starting tokens, got %d", got.StartingTokens)
	}
}
