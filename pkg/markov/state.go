package markov

import (
	"fmt"
	"math"
)

// State is the trained transition table: every prior token maps to the
// tokens observed after it and their accumulated weights. It is also the
// exact shape of the persisted JSON document.
type State map[string]map[string]float64

// updateState records one observation of next following previous.
// Weights are plain counts; complexity is applied only when sampling.
func updateState(state State, previous, next string) {
	successors, ok := state[previous]
	if !ok {
		state[previous] = map[string]float64{next: 1}
		return
	}
	successors[next]++
}

// Clone returns a deep copy of the table.
func (s State) Clone() State {
	clone := make(State, len(s))
	for token, successors := range s {
		inner := make(map[string]float64, len(successors))
		for next, weight := range successors {
			inner[next] = weight
		}
		clone[token] = inner
	}
	return clone
}

// Validate checks that the table only holds usable transitions: non-empty
// tokens, at least one successor per token and finite positive weights.
func (s State) Validate() error {
	for token, successors := range s {
		if token == "" {
			return fmt.Errorf("empty prior token")
		}
		if len(successors) == 0 {
			return fmt.Errorf("token %q has no successors", token)
		}
		for next, weight := range successors {
			if next == "" {
				return fmt.Errorf("token %q has an empty successor", token)
			}
			if !validWeight(weight) {
				return fmt.Errorf("transition %q -> %q has invalid weight %v", token, next, weight)
			}
		}
	}
	return nil
}

// merge adds every weight of other into state.
func merge(state, other State) {
	for token, successors := range other {
		for next, weight := range successors {
			if token == "" || next == "" || !validWeight(weight) {
				continue
			}
			inner, ok := state[token]
			if !ok {
				inner = make(map[string]float64, len(successors))
				state[token] = inner
			}
			inner[next] += weight
		}
	}
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 1)
}
