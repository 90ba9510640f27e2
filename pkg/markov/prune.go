package markov

import (
	"log/slog"
)

// Prune removes every link whose weight is less than or equal to minWeight.
// This is useful for dropping rare, and often noisy, transitions from a large
// model. A token never loses its last successors: if all of them fall under
// the threshold, the heaviest ones are kept, so pruning cannot create dead
// ends for generation. It returns the number of links removed.
func (m *Model) Prune(minWeight float64) int {
	removed := 0
	for _, successors := range m.state {
		var heaviest float64
		survivors := 0
		for _, weight := range successors {
			if weight > minWeight {
				survivors++
			}
			if weight > heaviest {
				heaviest = weight
			}
		}
		for next, weight := range successors {
			if weight > minWeight {
				continue
			}
			if survivors == 0 && weight == heaviest {
				continue
			}
			delete(successors, next)
			removed++
		}
	}
	if removed > 0 {
		m.invalidate()
	}

	m.logger.Info("Model pruned",
		slog.Float64("min_weight", minWeight),
		slog.Int("links_removed", removed),
	)
	return removed
}
