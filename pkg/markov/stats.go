package markov

// Stats holds aggregated statistics for a model's transition table.
type Stats struct {
	Tokens         int     // The number of distinct prior tokens.
	Links          int     // The number of unique token->successor links.
	TotalWeight    float64 // The sum of all weights; the number of trained transitions.
	StartingTokens int     // The number of distinct tokens that can start a sentence.
	SentenceEnds   int     // The number of distinct sentence-ending punctuation tokens.
	Words          int     // The number of distinct prior tokens that count as words.
}

// Stats returns a snapshot of statistics for the model.
func (m *Model) Stats() Stats {
	stats := Stats{
		Tokens:         len(m.state),
		StartingTokens: len(m.state[Boundary]),
	}
	for token, successors := range m.state {
		stats.Links += len(successors)
		for _, weight := range successors {
			stats.TotalWeight += weight
		}
		if IsSentenceEnd(token) {
			stats.SentenceEnds++
		}
		if IsWord(token) {
			stats.Words++
		}
	}
	return stats
}
