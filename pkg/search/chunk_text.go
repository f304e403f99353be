package search

import (
	"context"
	"fmt"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// ChunkTextSearcher matches the cleaned query text against stored chunk
// text using the configured method (contains, fulltext, or regex).
// Every match gets raw score 1.0; relative ranking between text matches
// comes from the other signals and the merger's weights.
type ChunkTextSearcher struct {
	Store driver.GraphStore
}

func (s *ChunkTextSearcher) Name() string { return types.SignalChunkText }

func (s *ChunkTextSearcher) Enabled(snap strategy.Snapshot) bool {
	return snap.Retrieval.Search.ChunkTextSearch.Enabled
}

func (s *ChunkTextSearcher) Search(ctx context.Context, intent *types.QueryIntent, snap strategy.Snapshot) ([]types.ScoredCandidate, error) {
	if intent.SearchText == "" {
		return nil, nil
	}

	limit := chunkFetchLimit(snap.Retrieval.Limits)
	method := snap.Retrieval.Search.ChunkTextSearch.Method
	chunks, err := s.Store.SearchChunksByText(ctx, intent.SearchText, method, limit)
	if err != nil {
		return nil, fmt.Errorf("chunk text search (%s): %w", method, err)
	}

	candidates := make([]types.ScoredCandidate, 0, len(chunks))
	for _, c := range chunks {
		candidates = append(candidates, types.ScoredCandidate{
			Kind:     types.ChunkCandidate,
			ID:       c.ID,
			RawScore: 1.0,
			Chunk:    c,
		})
	}
	return candidates, nil
}
