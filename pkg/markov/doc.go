/*
Package markov provides a small, dependency-light toolkit for training a
word-level Markov chain on natural-language text and generating new text by
randomly walking it.

Text is normalized into word, punctuation and sentence-boundary tokens, and
every adjacent pair is folded into a weighted transition table. Generation
samples successors with probability proportional to weight**complexity, so
the same trained table can produce anything from uniformly random to almost
deterministic output. Tables are persisted as flat JSON documents.

	m := markov.NewFromFile("state.json", markov.WithComplexity(1.5))
	m.Train("One fish two fish. Red fish blue fish.")
	text, err := m.Sentence(2)
	if err != nil {
		// the model is untrained or its table was edited by hand
	}
	_ = m.WriteFile("state.json")
*/
package markov
