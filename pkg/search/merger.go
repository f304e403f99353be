package search

import (
	"sort"

	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// merged accumulates one candidate's contributions across signals.
type merged struct {
	candidate types.ScoredCandidate
	score     float64
	// bestPriority is the highest-priority (lowest-numbered) signal
	// that found the candidate; used to break score ties.
	bestPriority int
}

// Merge deduplicates candidates from all signals by (kind, id) and
// combines their scores: combined = sum over signals of
// weight(signal) * raw. Entities below the confidence floor are
// dropped. Output is sorted by combined score descending, ties broken
// by signal priority (graph > text > keyword > temporal) and then id,
// so equal inputs always produce equal output order.
func Merge(bySignal map[string][]types.ScoredCandidate, scoring strategy.ScoringConfig) ([]types.ScoredEntity, []types.ScoredChunk) {
	byKey := map[string]*merged{}
	for signal, candidates := range bySignal {
		weight := scoring.SignalWeight(signal)
		priority := types.SignalPriority(signal)
		for _, c := range candidates {
			key := c.DedupKey()
			m, ok := byKey[key]
			if !ok {
				m = &merged{candidate: c, bestPriority: priority}
				byKey[key] = m
			}
			m.score += weight * c.RawScore
			if priority < m.bestPriority {
				m.bestPriority = priority
			}
		}
	}

	all := make([]*merged, 0, len(byKey))
	for _, m := range byKey {
		if m.candidate.Kind == types.EntityCandidate && m.candidate.Entity != nil {
			if m.candidate.Entity.Confidence > 0 && m.candidate.Entity.Confidence < scoring.EntityConfidenceMin {
				continue
			}
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		if all[i].bestPriority != all[j].bestPriority {
			return all[i].bestPriority < all[j].bestPriority
		}
		return all[i].candidate.ID < all[j].candidate.ID
	})

	var entities []types.ScoredEntity
	var chunks []types.ScoredChunk
	for _, m := range all {
		switch m.candidate.Kind {
		case types.EntityCandidate:
			entities = append(entities, types.ScoredEntity{Entity: m.candidate.Entity, Score: m.score})
		case types.ChunkCandidate:
			chunks = append(chunks, types.ScoredChunk{Chunk: m.candidate.Chunk, Score: m.score})
		}
	}
	return entities, chunks
}
