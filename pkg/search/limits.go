package search

import (
	"fmt"

	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// EstimateTokens approximates the token count of text as one token per
// four characters.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// entityTokens estimates what an entity costs in the formatted context.
func entityTokens(e *types.Entity) int {
	n := EstimateTokens(e.DisplayName()) + 2
	for k, v := range e.Properties {
		n += EstimateTokens(k) + EstimateTokens(fmt.Sprintf("%v", v)) + 1
	}
	return n
}

// EnforceLimits applies the strategy's result caps in order: entity
// count, chunk count, then the token budget. Inputs are already sorted
// best-first, so trimming the tail always drops the lowest-scoring
// items. Under the token budget, entities are dropped before chunks:
// chunks carry the verbatim text the answer quotes from, entities only
// summarize it. Truncation is reported in the diagnostics, never as an
// error.
func EnforceLimits(entities []types.ScoredEntity, chunks []types.ScoredChunk, limits strategy.LimitsConfig) ([]types.ScoredEntity, []types.ScoredChunk, types.RetrievalDiagnostics) {
	var diag types.RetrievalDiagnostics

	if limits.MaxEntities > 0 && len(entities) > limits.MaxEntities {
		diag.DroppedEntities += len(entities) - limits.MaxEntities
		entities = entities[:limits.MaxEntities]
	}
	if limits.MaxChunks > 0 && len(chunks) > limits.MaxChunks {
		diag.DroppedChunks += len(chunks) - limits.MaxChunks
		chunks = chunks[:limits.MaxChunks]
	}

	if limits.MaxContextTokens > 0 {
		total := 0
		for i := range entities {
			total += entityTokens(entities[i].Entity)
		}
		for i := range chunks {
			total += EstimateTokens(chunks[i].Chunk.Text) + 8
		}

		for total > limits.MaxContextTokens && len(entities) > 0 {
			last := entities[len(entities)-1]
			entities = entities[:len(entities)-1]
			total -= entityTokens(last.Entity)
			diag.DroppedEntities++
		}
		for total > limits.MaxContextTokens && len(chunks) > 0 {
			last := chunks[len(chunks)-1]
			chunks = chunks[:len(chunks)-1]
			total -= EstimateTokens(last.Chunk.Text) + 8
			diag.DroppedChunks++
		}
		diag.TokenEstimate = total
	}

	diag.Truncated = diag.DroppedEntities > 0 || diag.DroppedChunks > 0
	return entities, chunks, diag
}
