package search

import (
	"context"
	"fmt"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// seedLimit caps how many seed entities anchor a traversal.
const seedLimit = 25

// GraphTraversalSearcher anchors on entities matching the intent's
// types, filters, and keywords, then walks schema relationships outward
// up to the configured depth. Closer hits score higher: raw score is
// 1/(1+distance), so a seed scores 1.0 and each hop discounts it.
type GraphTraversalSearcher struct {
	Store driver.GraphStore
}

func (s *GraphTraversalSearcher) Name() string { return types.SignalGraphTraversal }

func (s *GraphTraversalSearcher) Enabled(snap strategy.Snapshot) bool {
	return snap.Retrieval.Search.GraphTraversal.Enabled
}

func (s *GraphTraversalSearcher) Search(ctx context.Context, intent *types.QueryIntent, snap strategy.Snapshot) ([]types.ScoredCandidate, error) {
	if !intent.HasSeeds() {
		return nil, nil
	}

	seeds, err := s.Store.SearchEntities(ctx, intent.EntityTypes, intent.Filters, intent.Keywords, seedLimit)
	if err != nil {
		return nil, fmt.Errorf("find traversal seeds: %w", err)
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	seedIDs := make([]string, len(seeds))
	for i, e := range seeds {
		seedIDs[i] = e.ID
	}

	maxDepth := snap.Retrieval.Search.GraphTraversal.MaxDepth
	hits, err := s.Store.TraverseFrom(ctx, seedIDs, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("traverse graph: %w", err)
	}

	candidates := make([]types.ScoredCandidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, types.ScoredCandidate{
			Kind:     types.EntityCandidate,
			ID:       hit.Entity.ID,
			RawScore: 1.0 / float64(1+hit.Distance),
			Entity:   hit.Entity,
		})
	}
	return candidates, nil
}
