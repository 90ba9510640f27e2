package markov

import (
	"math"
	"testing"
)

func TestChooseNextToken(t *testing.T) {
	entry := &memoEntry{
		words:  []string{"a", "b"},
		values: []float64{1, 3},
		sum:    4,
	}

	testCases := []struct {
		draw float64
		want string
	}{
		{draw: 0, want: "a"},
		{draw: 0.24, want: "a"},
		{draw: 0.25, want: "b"},
		{draw: 0.99, want: "b"},
		{draw: math.Nextafter(1, 0), want: "b"},
	}

	for _, tc := range testCases {
		if got := chooseNextToken(entry, tc.draw); got != tc.want {
			t.Errorf("chooseNextToken(%v) = %q, want %q", tc.draw, got, tc.want)
		}
	}
}

func TestBuildEntry(t *testing.T) {
	successors := map[string]float64{"x": 1, "y": 2, "z": 4}

	testCases := []struct {
		complexity float64
		ratios     []float64
	}{
		{complexity: 0, ratios: []float64{1, 1, 1}},
		{complexity: 1, ratios: []float64{1, 2, 4}},
		{complexity: 2, ratios: []float64{1, 4, 16}},
	}

	for _, tc := range testCases {
		entry := buildEntry(successors, tc.complexity)
		if len(entry.words) != 3 || entry.words[0] != "x" || entry.words[2] != "z" {
			t.Fatalf("expected sorted successors, got %v", entry.words)
		}
		var sum float64
		for i, v := range entry.values {
			sum += v
			if got := v / entry.values[0]; math.Abs(got-tc.ratios[i]) > 1e-9 {
				t.Errorf("complexity %v: ratio of %q = %v, want %v", tc.complexity, entry.words[i], got, tc.ratios[i])
			}
		}
		if math.Abs(sum-entry.sum) > 1e-9 {
			t.Errorf("complexity %v: sum = %v, want %v", tc.complexity, entry.sum, sum)
		}
	}
}

func TestBuildEntryLargeComplexity(t *testing.T) {
	entry := buildEntry(map[string]float64{"light": 1, "heavy": 1e6}, 200)
	for i, v := range entry.values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("value for %q overflowed: %v", entry.words[i], v)
		}
	}
	if got := chooseNextToken(entry, 0.999999); got != "light" && got != "heavy" {
		t.Fatalf("unexpected token %q", got)
	}
	if got := chooseNextToken(entry, 0); got != "heavy" {
		t.Errorf("expected the heavy successor to dominate, got %q", got)
	}
}

func TestChooseNextTokenSkipsUnderflowedTail(t *testing.T) {
	entry := &memoEntry{
		words:  []string{"kept", "gone"},
		values: []float64{1, 0},
		// A stale sum above the real total puts the target past every
		// running total.
		sum: 1.5,
	}
	if got := chooseNextToken(entry, 0.9); got != "kept" {
		t.Errorf("chooseNextToken() = %q, want %q", got, "kept")
	}
}

func TestNewMemoReachability(t *testing.T) {
	state := State{
		Boundary:     {"hello": 1, "z": 1},
		"hello":      {Marker + ".": 1},
		Marker + ".": {Boundary: 1},
		"z":          {"z": 1},
		"orphan":     {Boundary: 1},
	}
	mm := newMemo(state, 1)

	if !mm.words || !mm.sentenceEnds {
		t.Errorf("words = %v, sentenceEnds = %v, want both true", mm.words, mm.sentenceEnds)
	}
	for token, want := range map[string]bool{Boundary: true, "hello": true, Marker + ".": true, "z": false, "orphan": true} {
		if got := mm.toWord[token]; got != want {
			t.Errorf("toWord[%q] = %v, want %v", token, got, want)
		}
		if got := mm.toBoundary[token]; got != want {
			t.Errorf("toBoundary[%q] = %v, want %v", token, got, want)
		}
	}

	unreachable := newMemo(State{Boundary: {"a": 1}, "a": {Boundary: 1}, "hello": {Boundary: 1}}, 1)
	if unreachable.words {
		t.Error("expected a word outside the walk from the Boundary to be ignored")
	}

	underflow := newMemo(State{Boundary: {"a": 1e6, "hello": 1}, "a": {Boundary: 1}, "hello": {Boundary: 1}}, 200)
	if underflow.words || underflow.toWord[Boundary] {
		t.Error("expected a transition whose value underflows to be ignored")
	}
}
