package markov

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUndefinedState is returned by generation when the walk reaches a token
// that has no recorded successors, which means the model is untrained or its
// table was edited by hand.
var ErrUndefinedState = errors.New("token has no recorded successors")

// memoEntry is the precomputed sampling distribution of one prior token.
// Successors are sorted so the cumulative walk is reproducible.
type memoEntry struct {
	words  []string
	values []float64
	sum    float64
}

// memo caches per-token distributions and whole-table facts. It is derived
// from the table and the complexity and is rebuilt lazily after any change.
type memo struct {
	entries map[string]*memoEntry
	// sentenceEnds and words report whether such a token can be reached
	// from the Boundary.
	sentenceEnds bool
	words        bool
	// toWord and toBoundary hold the tokens from which a walk can still
	// produce a word or return to the Boundary.
	toWord     map[string]bool
	toBoundary map[string]bool
}

// newMemo derives the reachability facts of state. Only transitions that
// can actually be sampled at complexity count, so a successor whose value
// underflows to zero is treated as absent.
func newMemo(state State, complexity float64) *memo {
	mm := &memo{
		entries:    make(map[string]*memoEntry, len(state)),
		toWord:     make(map[string]bool),
		toBoundary: make(map[string]bool),
	}

	forward := make(map[string][]string, len(state))
	reverse := make(map[string][]string, len(state))
	var wordQueue, boundaryQueue []string
	for token, successors := range state {
		for _, next := range sampleable(successors, complexity) {
			forward[token] = append(forward[token], next)
			reverse[next] = append(reverse[next], token)
			if IsWord(next) && !mm.toWord[token] {
				mm.toWord[token] = true
				wordQueue = append(wordQueue, token)
			}
			if next == Boundary && !mm.toBoundary[token] {
				mm.toBoundary[token] = true
				boundaryQueue = append(boundaryQueue, token)
			}
		}
	}
	propagate(mm.toWord, wordQueue, reverse)
	propagate(mm.toBoundary, boundaryQueue, reverse)

	seen := map[string]bool{Boundary: true}
	queue := []string{Boundary}
	for len(queue) > 0 {
		token := queue[0]
		queue = queue[1:]
		for _, next := range forward[token] {
			if seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
			if IsSentenceEnd(next) {
				mm.sentenceEnds = true
			}
			if IsWord(next) {
				mm.words = true
			}
		}
	}
	return mm
}

// propagate marks every predecessor of the queued tokens, transitively.
func propagate(marked map[string]bool, queue []string, reverse map[string][]string) {
	for len(queue) > 0 {
		token := queue[0]
		queue = queue[1:]
		for _, prev := range reverse[token] {
			if !marked[prev] {
				marked[prev] = true
				queue = append(queue, prev)
			}
		}
	}
}

// sampleable returns the successors with a non-zero sampling value.
func sampleable(successors map[string]float64, complexity float64) []string {
	maxLog := math.Inf(-1)
	for _, weight := range successors {
		if lw := math.Log(weight); lw > maxLog {
			maxLog = lw
		}
	}
	nexts := make([]string, 0, len(successors))
	for next, weight := range successors {
		if validWeight(weight) && math.Exp(complexity*(math.Log(weight)-maxLog)) > 0 {
			nexts = append(nexts, next)
		}
	}
	return nexts
}

// buildEntry turns raw weights into weight**complexity values. The powers are
// taken relative to the largest weight in log space, which keeps the ratios
// intact while avoiding overflow for very large complexities.
func buildEntry(successors map[string]float64, complexity float64) *memoEntry {
	entry := &memoEntry{
		words:  make([]string, 0, len(successors)),
		values: make([]float64, len(successors)),
	}
	maxLog := math.Inf(-1)
	for next, weight := range successors {
		entry.words = append(entry.words, next)
		if lw := math.Log(weight); lw > maxLog {
			maxLog = lw
		}
	}
	sort.Strings(entry.words)

	for i, next := range entry.words {
		v := math.Exp(complexity * (math.Log(successors[next]) - maxLog))
		entry.values[i] = v
		entry.sum += v
	}
	return entry
}

// getMemo returns the sampling cache, building it on first use.
func (m *Model) getMemo() *memo {
	if m.memo == nil {
		m.memo = newMemo(m.state, m.complexity)
	}
	return m.memo
}

// nextToken picks a successor of current with probability proportional to
// weight**complexity.
func (m *Model) nextToken(current string) (string, error) {
	mm := m.getMemo()
	entry, ok := mm.entries[current]
	if !ok {
		successors, found := m.state[current]
		if !found || len(successors) == 0 {
			return "", fmt.Errorf("%w: %q", ErrUndefinedState, current)
		}
		entry = buildEntry(successors, m.complexity)
		mm.entries[current] = entry
	}
	return chooseNextToken(entry, m.rng.Float64()), nil
}

// chooseNextToken walks the cumulative distribution of entry for a draw in
// [0, 1).
func chooseNextToken(entry *memoEntry, draw float64) string {
	target := draw * entry.sum
	var running float64
	for i, v := range entry.values {
		running += v
		if running > target {
			return entry.words[i]
		}
	}
	// Rounding can leave the target a hair above the final running total.
	// Successors whose value underflowed to zero are never chosen.
	for i := len(entry.values) - 1; i > 0; i-- {
		if entry.values[i] > 0 {
			return entry.words[i]
		}
	}
	return entry.words[0]
}
