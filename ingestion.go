package docugraph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// IngestDocument stores one document and its extraction results in the
// graph, gated by the extraction strategy read once at the start of the
// batch. Re-ingesting the same document id overwrites it; concurrent
// ingestion of the same document is serialized, different documents run
// concurrently.
func (c *Client) IngestDocument(ctx context.Context, input *types.DocumentInput) (*types.IngestSummary, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ingestion payload: %w", err)
	}

	mu := c.docLock(input.Document.ID)
	mu.Lock()
	defer mu.Unlock()

	snap := c.strategies.Get()
	ext := snap.Extraction

	doc := input.Document
	if doc.IngestedAt.IsZero() {
		doc.IngestedAt = time.Now().UTC()
	}
	if err := c.store.UpsertDocument(ctx, &doc); err != nil {
		return nil, err
	}

	summary := &types.IngestSummary{DocumentID: doc.ID}

	if _, err := c.ingestChunks(ctx, input, ext, summary); err != nil {
		return nil, err
	}

	stored, err := c.ingestEntities(ctx, input, ext, summary)
	if err != nil {
		return nil, err
	}

	if err := c.ingestRelationships(ctx, input, ext, stored, summary); err != nil {
		return nil, err
	}

	if ext.EntityLinking.Enabled && ext.Chunks.Enabled {
		if err := c.linkProvenance(ctx, input, ext, stored); err != nil {
			return nil, err
		}
	}

	c.logger.Info("ingested document",
		slog.String("document_id", doc.ID),
		slog.Int("chunks", summary.ChunkCount),
		slog.Int("entities", summary.EntityCount),
		slog.Int("relationships", summary.RelationshipCount),
		slog.Int("skipped_entities", summary.SkippedEntities),
		slog.Int("skipped_relationships", summary.SkippedRelationships))

	return summary, nil
}

// ingestChunks stores chunk nodes and their structural edges according
// to the extraction strategy. Returns the ordered chunk ids.
func (c *Client) ingestChunks(ctx context.Context, input *types.DocumentInput, ext strategy.ExtractionStrategy, summary *types.IngestSummary) ([]string, error) {
	if !ext.Chunks.Enabled {
		return nil, nil
	}

	chunkIDs := make([]string, 0, len(input.Chunks))
	for i := range input.Chunks {
		chunk := input.Chunks[i].Chunk
		applyMetadataGates(&chunk, ext)

		if err := c.store.UpsertChunk(ctx, &chunk); err != nil {
			return nil, err
		}
		chunkIDs = append(chunkIDs, chunk.ID)
		summary.ChunkCount++

		if ext.ChunkLinking.ToDocument {
			if err := c.store.LinkChunkToDocument(ctx, chunk.ID, input.Document.ID); err != nil {
				return nil, err
			}
		}
	}

	// The chain is all-or-nothing: a failure stores no chain edges at
	// all rather than a broken chain.
	if ext.ChunkLinking.Sequential {
		if err := c.store.LinkChunkChain(ctx, chunkIDs); err != nil {
			return nil, err
		}
	}
	return chunkIDs, nil
}

// applyMetadataGates strips chunk fields the strategy disables and
// truncates text to the configured maximum.
func applyMetadataGates(chunk *types.Chunk, ext strategy.ExtractionStrategy) {
	if !ext.Chunks.StoreText {
		chunk.Text = ""
	} else if ext.Chunks.MaxTextLength > 0 && len(chunk.Text) > ext.Chunks.MaxTextLength {
		chunk.Text = chunk.Text[:ext.Chunks.MaxTextLength]
	}
	meta := ext.Metadata
	if !meta.PageNumbers.Enabled {
		chunk.PageNumber = nil
	}
	if !meta.SectionHeadings.Enabled {
		chunk.SectionHeading = nil
	}
	if !meta.TemporalReferences.Enabled {
		chunk.TemporalRefs = nil
	}
	if !meta.KeyTerms.Enabled {
		chunk.KeyTerms = nil
	} else if meta.KeyTerms.MaxTerms > 0 && len(chunk.KeyTerms) > meta.KeyTerms.MaxTerms {
		chunk.KeyTerms = chunk.KeyTerms[:meta.KeyTerms.MaxTerms]
	}
	if !meta.Statistics.WordCount {
		chunk.WordCount = 0
	}
	if !meta.Statistics.CharCount {
		chunk.CharCount = 0
	}
}

// ingestEntities validates and upserts entities per the validation
// mode. Returns the ids of stored entities for relationship and
// provenance checks.
func (c *Client) ingestEntities(ctx context.Context, input *types.DocumentInput, ext strategy.ExtractionStrategy, summary *types.IngestSummary) (map[string]string, error) {
	mode := ext.Validation.Mode
	stored := map[string]string{} // entity id -> type

	for i := range input.Chunks {
		for j := range input.Chunks[i].Entities {
			entity := input.Chunks[i].Entities[j]
			if entity.SourceChunkID == "" {
				entity.SourceChunkID = input.Chunks[i].Chunk.ID
			}

			if err := entity.Validate(); err != nil {
				if mode == strategy.ValidationStrict {
					return nil, fmt.Errorf("entity %s: %w", entity.ID, err)
				}
				summary.SkippedEntities++
				continue
			}

			if mode != strategy.ValidationIgnore {
				if err := c.desc.ValidateEntity(&entity, ext.Validation.FailOnMissingRequired); err != nil {
					switch mode {
					case strategy.ValidationStrict:
						return nil, fmt.Errorf("entity %s: %w", entity.Key(), err)
					case strategy.ValidationStoreValid:
						summary.SkippedEntities++
						continue
					case strategy.ValidationWarn:
						c.logger.Warn("entity failed schema validation",
							slog.String("entity", entity.Key()),
							slog.String("error", err.Error()))
					}
				}
			}

			if err := c.store.UpsertEntity(ctx, &entity); err != nil {
				return nil, err
			}
			if _, seen := stored[entity.ID]; !seen {
				summary.EntityCount++
			}
			stored[entity.ID] = entity.Type
			// Keep the resolved source chunk for provenance linking.
			input.Chunks[i].Entities[j] = entity
		}
	}
	return stored, nil
}

// ingestRelationships validates endpoints and types per the validation
// mode, then upserts edges. A relationship whose endpoint exists
// neither in this batch nor already in the graph is broken and never
// stored.
func (c *Client) ingestRelationships(ctx context.Context, input *types.DocumentInput, ext strategy.ExtractionStrategy, stored map[string]string, summary *types.IngestSummary) error {
	mode := ext.Validation.Mode

	for i := range input.Chunks {
		for j := range input.Chunks[i].Relationships {
			rel := input.Chunks[i].Relationships[j]
			if rel.ID == "" {
				rel.ID = uuid.New().String()
			}

			if err := rel.Validate(); err != nil {
				if mode == strategy.ValidationStrict {
					return fmt.Errorf("relationship %s: %w", rel.Type, err)
				}
				summary.SkippedRelationships++
				continue
			}

			broken, err := c.endpointsMissing(ctx, &rel, stored)
			if err != nil {
				return err
			}
			if broken {
				if mode == strategy.ValidationStrict || ext.Validation.FailOnBrokenRelationships {
					return fmt.Errorf("relationship %s: %w", rel.Type, types.ErrMissingEndpoints)
				}
				summary.SkippedRelationships++
				continue
			}

			if mode != strategy.ValidationIgnore {
				if err := c.desc.ValidateRelationship(&rel, stored[rel.SourceID], stored[rel.TargetID]); err != nil {
					switch mode {
					case strategy.ValidationStrict:
						return fmt.Errorf("relationship %s: %w", rel.Type, err)
					case strategy.ValidationStoreValid:
						summary.SkippedRelationships++
						continue
					case strategy.ValidationWarn:
						c.logger.Warn("relationship failed schema validation",
							slog.String("type", rel.Type),
							slog.String("error", err.Error()))
					}
				}
			}

			if err := c.store.UpsertRelationship(ctx, &rel); err != nil {
				return err
			}
			summary.RelationshipCount++
		}
	}
	return nil
}

// endpointsMissing reports whether either endpoint of a relationship is
// absent from both this batch and the graph.
func (c *Client) endpointsMissing(ctx context.Context, rel *types.Relationship, stored map[string]string) (bool, error) {
	for _, id := range []string{rel.SourceID, rel.TargetID} {
		if _, inBatch := stored[id]; inBatch {
			continue
		}
		exists, err := c.store.EntityExists(ctx, id)
		if err != nil {
			return false, err
		}
		if !exists {
			return true, nil
		}
	}
	return false, nil
}

// linkProvenance creates EXTRACTED_FROM edges from stored entities back
// to their source chunks.
func (c *Client) linkProvenance(ctx context.Context, input *types.DocumentInput, ext strategy.ExtractionStrategy, stored map[string]string) error {
	for i := range input.Chunks {
		chunk := &input.Chunks[i].Chunk
		for j := range input.Chunks[i].Entities {
			entity := &input.Chunks[i].Entities[j]
			if _, ok := stored[entity.ID]; !ok {
				continue
			}
			if entity.SourceChunkID != chunk.ID {
				continue
			}

			props := map[string]any{}
			if ext.EntityLinking.StoreChunkIndex {
				props["chunk_index"] = chunk.ChunkIndex
			}
			if ext.EntityLinking.StoreSourceText && chunk.Text != "" {
				props["source_text"] = chunk.Text
			}
			if err := c.store.LinkEntityToChunk(ctx, entity.ID, chunk.ID, props); err != nil {
				return err
			}
		}
	}
	return nil
}
