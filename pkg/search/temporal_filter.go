package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// Temporal expressions recognized by auto-detection: bare years,
// month-year pairs, quarters, and common relative phrases.
var temporalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(19|20)\d{2}\b`),
	regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)(\s+(19|20)\d{2})?\b`),
	regexp.MustCompile(`(?i)\bq[1-4](\s+(19|20)\d{2})?\b`),
	regexp.MustCompile(`(?i)\b(last|this|next)\s+(year|quarter|month|week)\b`),
}

// DetectTemporalHints extracts temporal expressions from free text.
// Order of first appearance is preserved; duplicates are dropped.
func DetectTemporalHints(text string) []string {
	var hints []string
	seen := map[string]bool{}
	for _, pattern := range temporalPatterns {
		for _, m := range pattern.FindAllString(text, -1) {
			key := strings.ToLower(strings.TrimSpace(m))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			hints = append(hints, strings.TrimSpace(m))
		}
	}
	return hints
}

// TemporalFilterSearcher matches chunks whose stored temporal
// references overlap the question's temporal hints. With auto-detection
// on, hints missing from the intent are recovered from the search text.
// No hints means the signal contributes nothing, without error.
type TemporalFilterSearcher struct {
	Store driver.GraphStore
}

func (s *TemporalFilterSearcher) Name() string { return types.SignalTemporalFilter }

func (s *TemporalFilterSearcher) Enabled(snap strategy.Snapshot) bool {
	return snap.Retrieval.Search.TemporalFiltering.Enabled
}

func (s *TemporalFilterSearcher) Search(ctx context.Context, intent *types.QueryIntent, snap strategy.Snapshot) ([]types.ScoredCandidate, error) {
	hints := intent.TemporalHints
	if len(hints) == 0 && snap.Retrieval.Search.TemporalFiltering.AutoDetect {
		hints = DetectTemporalHints(intent.SearchText)
	}
	if len(hints) == 0 {
		return nil, nil
	}

	limit := chunkFetchLimit(snap.Retrieval.Limits)
	chunks, err := s.Store.SearchChunksByTemporalRefs(ctx, hints, limit)
	if err != nil {
		return nil, fmt.Errorf("temporal filter: %w", err)
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
