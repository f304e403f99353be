package search

import (
	"context"
	"fmt"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// KeywordMatchSearcher scores chunks by key-term overlap with the
// intent's keywords. Raw score is the matched fraction; chunks below
// the strategy's match threshold are discarded here, before merging.
type KeywordMatchSearcher struct {
	Store driver.GraphStore
}

func (s *KeywordMatchSearcher) Name() string { return types.SignalKeywordMatch }

func (s *KeywordMatchSearcher) Enabled(snap strategy.Snapshot) bool {
	return snap.Retrieval.Search.KeywordMatching.Enabled
}

func (s *KeywordMatchSearcher) Search(ctx context.Context, intent *types.QueryIntent, snap strategy.Snapshot) ([]types.ScoredCandidate, error) {
	if len(intent.Keywords) == 0 {
		return nil, nil
	}

	limit := chunkFetchLimit(snap.Retrieval.Limits)
	matches, err := s.Store.SearchChunksByTerms(ctx, intent.Keywords, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword match: %w", err)
	}

	threshold := snap.Retrieval.Search.KeywordMatching.MatchThreshold
	total := float64(len(intent.Keywords))

	candidates := make([]types.ScoredCandidate, 0, len(matches))
	for _, m := range matches {
		raw := float64(m.MatchCount) / total
		if raw < threshold {
			continue
		}
		candidates = append(candidates, types.ScoredCandidate{
			Kind:     types.ChunkCandidate,
			ID:       m.Chunk.ID,
			RawScore: raw,
			Chunk:    m.Chunk,
		})
	}
	return candidates, nil
}
