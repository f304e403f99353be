package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

const (
	// expandDecay is subtracted from the origin score for each
	// neighbor, so an expanded chunk can never outrank a direct match
	// with the same raw score.
	expandDecay = 0.3

	// expandFloor is the minimum inherited score.
	expandFloor = 0.05
)

// Expand pulls neighboring chunks of every direct match into the result
// via the chunk-chain index window. Neighbors inherit a discounted
// score from their origin; a chunk already matched directly keeps its
// own score and is never demoted to an expansion. Expansion is
// best-effort: a failed window lookup is logged and skipped.
func Expand(ctx context.Context, store driver.GraphStore, chunks []types.ScoredChunk, cfg strategy.ExpandNeighborsConfig, logger *slog.Logger) []types.ScoredChunk {
	if !cfg.Enabled || len(chunks) == 0 || (cfg.Before <= 0 && cfg.After <= 0) {
		return chunks
	}
	if logger == nil {
		logger = slog.Default()
	}

	direct := make(map[string]bool, len(chunks))
	for _, sc := range chunks {
		direct[sc.Chunk.ID] = true
	}

	inherited := map[string]types.ScoredChunk{}
	for _, sc := range chunks {
		neighbors, err := store.ChunkWindow(ctx, sc.Chunk.ID, cfg.Before, cfg.After)
		if err != nil {
			logger.Warn("neighbor expansion failed",
				slog.String("chunk_id", sc.Chunk.ID),
				slog.String("error", err.Error()))
			continue
		}

		score := sc.Score - expandDecay
		if score < expandFloor {
			score = expandFloor
		}
		for _, n := range neighbors {
			if direct[n.ID] {
				continue
			}
			// A neighbor reachable from several origins keeps the best
			// inherited score.
			if prev, ok := inherited[n.ID]; ok && prev.Score >= score {
				continue
			}
			inherited[n.ID] = types.ScoredChunk{Chunk: n, Score: score, Expanded: true}
		}
	}

	out := make([]types.ScoredChunk, 0, len(chunks)+len(inherited))
	out = append(out, chunks...)
	for _, sc := range inherited {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		// Direct matches outrank expansions at equal score.
		if out[i].Expanded != out[j].Expanded {
			return !out[i].Expanded
		}
		if out[i].Chunk.DocumentID != out[j].Chunk.DocumentID {
			return out[i].Chunk.DocumentID < out[j].Chunk.DocumentID
		}
		return out[i].Chunk.ChunkIndex < out[j].Chunk.ChunkIndex
	})
	return out
}
