package docugraph

import (
	"context"
	"sync"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/types"
)

// fakeGraphStore is an in-memory GraphStore that records writes and
// serves canned search results.
type fakeGraphStore struct {
	mu sync.Mutex

	documents     map[string]*types.Document
	chunks        map[string]*types.Chunk
	entities      map[string]*types.Entity
	relationships []*types.Relationship
	chainCalls    [][]string
	docLinks      map[string]string       // chunk id -> document id
	provenance    map[string]string       // entity id -> chunk id
	provProps     map[string]map[string]any

	// Canned retrieval results.
	seedResults     []*types.Entity
	traversalHits   []driver.TraversalHit
	textResults     []*types.Chunk
	termResults     []driver.TermMatch
	temporalResults []*types.Chunk
	windows         map[string][]*types.Chunk
}

func newFakeGraphStore() *fakeGraphStore {
	return &fakeGraphStore{
		documents:  map[string]*types.Document{},
		chunks:     map[string]*types.Chunk{},
		entities:   map[string]*types.Entity{},
		docLinks:   map[string]string{},
		provenance: map[string]string{},
		provProps:  map[string]map[string]any{},
		windows:    map[string][]*types.Chunk{},
	}
}

func (f *fakeGraphStore) UpsertDocument(ctx context.Context, doc *types.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := *doc
	f.documents[doc.ID] = &d
	return nil
}

func (f *fakeGraphStore) UpsertChunk(ctx context.Context, chunk *types.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *chunk
	f.chunks[chunk.ID] = &c
	return nil
}

func (f *fakeGraphStore) LinkChunkToDocument(ctx context.Context, chunkID, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docLinks[chunkID] = documentID
	return nil
}

func (f *fakeGraphStore) LinkChunkChain(ctx context.Context, chunkIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chainCalls = append(f.chainCalls, append([]string{}, chunkIDs...))
	return nil
}

func (f *fakeGraphStore) UpsertEntity(ctx context.Context, entity *types.Entity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := *entity
	f.entities[entity.ID] = &e
	return nil
}

func (f *fakeGraphStore) UpsertRelationship(ctx context.Context, rel *types.Relationship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := *rel
	f.relationships = append(f.relationships, &r)
	return nil
}

func (f *fakeGraphStore) EntityExists(ctx context.Context, entityID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entities[entityID]
	return ok, nil
}

func (f *fakeGraphStore) LinkEntityToChunk(ctx context.Context, entityID, chunkID string, props map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.provenance[entityID] = chunkID
	f.provProps[entityID] = props
	return nil
}

func (f *fakeGraphStore) SearchEntities(ctx context.Context, entityTypes []string, filters map[string]string, keywords []string, limit int) ([]*types.Entity, error) {
	return f.seedResults, nil
}

func (f *fakeGraphStore) TraverseFrom(ctx context.Context, seedIDs []string, maxDepth int) ([]driver.TraversalHit, error) {
	return f.traversalHits, nil
}

func (f *fakeGraphStore) SearchChunksByText(ctx context.Context, text, method string, limit int) ([]*types.Chunk, error) {
	return f.textResults, nil
}

func (f *fakeGraphStore) SearchChunksByTerms(ctx context.Context, terms []string, limit int) ([]driver.TermMatch, error) {
	return f.termResults, nil
}

func (f *fakeGraphStore) SearchChunksByTemporalRefs(ctx context.Context, hints []string, limit int) ([]*types.Chunk, error) {
	return f.temporalResults, nil
}

func (f *fakeGraphStore) ChunkWindow(ctx context.Context, chunkID string, before, after int) ([]*types.Chunk, error) {
	return f.windows[chunkID], nil
}

func (f *fakeGraphStore) RelationshipsBetween(ctx context.Context, entityIDs []string) ([]*types.Relationship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := map[string]bool{}
	for _, id := range entityIDs {
		ids[id] = true
	}
	var out []*types.Relationship
	for _, r := range f.relationships {
		if ids[r.SourceID] && ids[r.TargetID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeGraphStore) ChunkEntities(ctx context.Context, chunkID string) ([]*types.Entity, error) {
	return nil, nil
}

func (f *fakeGraphStore) EntityChunks(ctx context.Context, entityID string) ([]*types.Chunk, error) {
	return nil, nil
}

func (f *fakeGraphStore) GetDocument(ctx context.Context, documentID string) (*types.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.documents[documentID]; ok {
		return d, nil
	}
	return nil, driver.ErrNotFound
}

func (f *fakeGraphStore) ListDocumentChunks(ctx context.Context, documentID string) ([]*types.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Chunk
	for _, c := range f.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeGraphStore) DeleteDocument(ctx context.Context, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.documents, documentID)
	for id, c := range f.chunks {
		if c.DocumentID == documentID {
			delete(f.chunks, id)
		}
	}
	return nil
}

func (f *fakeGraphStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents = map[string]*types.Document{}
	f.chunks = map[string]*types.Chunk{}
	f.entities = map[string]*types.Entity{}
	f.relationships = nil
	return nil
}

func (f *fakeGraphStore) Stats(ctx context.Context) (*types.GraphStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &types.GraphStats{
		Documents: len(f.documents),
		Chunks:    len(f.chunks),
	}, nil
}

func (f *fakeGraphStore) EnsureIndexes(ctx context.Context, entityTypes []string) error { return nil }
func (f *fakeGraphStore) Ping(ctx context.Context) error                                { return nil }
func (f *fakeGraphStore) Close(ctx context.Context) error                               { return nil }

var _ driver.GraphStore = (*fakeGraphStore)(nil)
