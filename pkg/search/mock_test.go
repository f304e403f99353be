package search

import (
	"context"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/types"
)

// mockGraphStore implements driver.GraphStore with overridable function
// fields. Unset methods return zero values.
type mockGraphStore struct {
	searchEntitiesFn             func(ctx context.Context, entityTypes []string, filters map[string]string, keywords []string, limit int) ([]*types.Entity, error)
	traverseFromFn               func(ctx context.Context, seedIDs []string, maxDepth int) ([]driver.TraversalHit, error)
	searchChunksByTextFn         func(ctx context.Context, text, method string, limit int) ([]*types.Chunk, error)
	searchChunksByTermsFn        func(ctx context.Context, terms []string, limit int) ([]driver.TermMatch, error)
	searchChunksByTemporalRefsFn func(ctx context.Context, hints []string, limit int) ([]*types.Chunk, error)
	chunkWindowFn                func(ctx context.Context, chunkID string, before, after int) ([]*types.Chunk, error)
	relationshipsBetweenFn       func(ctx context.Context, entityIDs []string) ([]*types.Relationship, error)
}

func (m *mockGraphStore) UpsertDocument(ctx context.Context, doc *types.Document) error { return nil }
func (m *mockGraphStore) UpsertChunk(ctx context.Context, chunk *types.Chunk) error     { return nil }
func (m *mockGraphStore) LinkChunkToDocument(ctx context.Context, chunkID, documentID string) error {
	return nil
}
func (m *mockGraphStore) LinkChunkChain(ctx context.Context, chunkIDs []string) error { return nil }
func (m *mockGraphStore) UpsertEntity(ctx context.Context, entity *types.Entity) error {
	return nil
}
func (m *mockGraphStore) UpsertRelationship(ctx context.Context, rel *types.Relationship) error {
	return nil
}
func (m *mockGraphStore) EntityExists(ctx context.Context, entityID string) (bool, error) {
	return false, nil
}
func (m *mockGraphStore) LinkEntityToChunk(ctx context.Context, entityID, chunkID string, props map[string]any) error {
	return nil
}

func (m *mockGraphStore) SearchEntities(ctx context.Context, entityTypes []string, filters map[string]string, keywords []string, limit int) ([]*types.Entity, error) {
	if m.searchEntitiesFn != nil {
		return m.searchEntitiesFn(ctx, entityTypes, filters, keywords, limit)
	}
	return nil, nil
}

func (m *mockGraphStore) TraverseFrom(ctx context.Context, seedIDs []string, maxDepth int) ([]driver.TraversalHit, error) {
	if m.traverseFromFn != nil {
		return m.traverseFromFn(ctx, seedIDs, maxDepth)
	}
	return nil, nil
}

func (m *mockGraphStore) SearchChunksByText(ctx context.Context, text, method string, limit int) ([]*types.Chunk, error) {
	if m.searchChunksByTextFn != nil {
		return m.searchChunksByTextFn(ctx, text, method, limit)
	}
	return nil, nil
}

func (m *mockGraphStore) SearchChunksByTerms(ctx context.Context, terms []string, limit int) ([]driver.TermMatch, error) {
	if m.searchChunksByTermsFn != nil {
		return m.searchChunksByTermsFn(ctx, terms, limit)
	}
	return nil, nil
}

func (m *mockGraphStore) SearchChunksByTemporalRefs(ctx context.Context, hints []string, limit int) ([]*types.Chunk, error) {
	if m.searchChunksByTemporalRefsFn != nil {
		return m.searchChunksByTemporalRefsFn(ctx, hints, limit)
	}
	return nil, nil
}

func (m *mockGraphStore) ChunkWindow(ctx context.Context, chunkID string, before, after int) ([]*types.Chunk, error) {
	if m.chunkWindowFn != nil {
		return m.chunkWindowFn(ctx, chunkID, before, after)
	}
	return nil, nil
}

func (m *mockGraphStore) RelationshipsBetween(ctx context.Context, entityIDs []string) ([]*types.Relationship, error) {
	if m.relationshipsBetweenFn != nil {
		return m.relationshipsBetweenFn(ctx, entityIDs)
	}
	return nil, nil
}

func (m *mockGraphStore) ChunkEntities(ctx context.Context, chunkID string) ([]*types.Entity, error) {
	return nil, nil
}
func (m *mockGraphStore) EntityChunks(ctx context.Context, entityID string) ([]*types.Chunk, error) {
	return nil, nil
}
func (m *mockGraphStore) GetDocument(ctx context.Context, documentID string) (*types.Document, error) {
	return nil, driver.ErrNotFound
}
func (m *mockGraphStore) ListDocumentChunks(ctx context.Context, documentID string) ([]*types.Chunk, error) {
	return nil, nil
}
func (m *mockGraphStore) DeleteDocument(ctx context.Context, documentID string) error { return nil }
func (m *mockGraphStore) Clear(ctx context.Context) error                             { return nil }
func (m *mockGraphStore) Stats(ctx context.Context) (*types.GraphStats, error) {
	return &types.GraphStats{}, nil
}
func (m *mockGraphStore) EnsureIndexes(ctx context.Context, entityTypes []string) error { return nil }
func (m *mockGraphStore) Ping(ctx context.Context) error                                { return nil }
func (m *mockGraphStore) Close(ctx context.Context) error                               { return nil }

var _ driver.GraphStore = (*mockGraphStore)(nil)
