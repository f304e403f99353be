package docugraph

import (
	"context"
	"log/slog"

	"github.com/soundprediction/docugraph/pkg/search"
	"github.com/soundprediction/docugraph/pkg/types"
)

// Retrieve answers a question: the intent analyzer produces the query
// descriptor, then the retrieval pipeline runs under the strategy pair
// read once for the whole operation.
func (c *Client) Retrieve(ctx context.Context, question string) (*types.RetrievalResult, error) {
	return c.RetrieveWithIntent(ctx, question, c.analyzer.Analyze(ctx, question))
}

// RetrieveWithIntent runs retrieval with a caller-supplied intent
// descriptor, bypassing analysis. The pipeline is: concurrent signal
// fan-out, weighted merge and dedup, neighbor expansion, limits, then
// context formatting. An empty result is a valid answer, not an error.
func (c *Client) RetrieveWithIntent(ctx context.Context, question string, qi *types.QueryIntent) (*types.RetrievalResult, error) {
	snap := c.strategies.Get()
	ret := snap.Retrieval

	bySignal, used, reports := c.engine.Run(ctx, qi, snap)
	entities, chunks := search.Merge(bySignal, ret.Scoring)
	chunks = search.Expand(ctx, c.store, chunks, ret.Context.ExpandNeighbors, c.logger)
	entities, chunks, diag := search.EnforceLimits(entities, chunks, ret.Limits)
	diag.Signals = reports

	// Relationships are reported only between entities that survived
	// the limits.
	var rels []*types.Relationship
	if len(entities) > 1 {
		ids := make([]string, len(entities))
		for i, se := range entities {
			ids[i] = se.Entity.ID
		}
		var err error
		rels, err = c.store.RelationshipsBetween(ctx, ids)
		if err != nil {
			// Relationship listing enriches context but never fails
			// the query.
			c.logger.Warn("relationship listing failed", slog.String("error", err.Error()))
			rels = nil
		}
	}

	result := &types.RetrievalResult{
		Query:             question,
		Entities:          entities,
		Chunks:            chunks,
		Relationships:     rels,
		SearchMethodsUsed: used,
		Diagnostics:       diag,
		ContextText:       search.FormatContext(entities, chunks, rels, ret.Context.IncludeMetadata),
	}

	c.logger.Info("retrieval complete",
		slog.String("preset", snap.PresetName()),
		slog.Int("entities", len(entities)),
		slog.Int("chunks", len(chunks)),
		slog.Bool("truncated", diag.Truncated))
	return result, nil
}
