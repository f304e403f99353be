// Package driver defines the graph storage contract and its Neo4j
// implementation. All values travel as query parameters; labels and
// relationship types are interpolated only after passing the schema
// identifier check.
package driver

import (
	"context"
	"errors"

	"github.com/soundprediction/docugraph/pkg/types"
)

var (
	// ErrNotFound is returned when a requested node does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPartialChain is returned when linking the chunk chain failed;
	// the transaction rolled back, so no partial chain was stored.
	ErrPartialChain = errors.New("chunk chain link failed")

	// ErrInvalidIdentifier is returned when a label or relationship
	// type is not safe to interpolate.
	ErrInvalidIdentifier = errors.New("invalid graph identifier")
)

// TraversalHit is an entity found by bounded traversal, with its hop
// distance from the nearest seed.
type TraversalHit struct {
	Entity   *types.Entity
	Distance int
}

// TermMatch is a chunk matched by key-term overlap, with the number of
// query terms that hit.
type TermMatch struct {
	Chunk      *types.Chunk
	MatchCount int
}

// GraphStore is the full query contract of the document graph. The
// ingestion builder, the retrieval signals, and the admin surface all
// go through this interface; tests substitute an in-memory mock.
type GraphStore interface {
	// Ingestion writes. Upserts use MERGE semantics keyed on id, so
	// re-ingestion is idempotent.
	UpsertDocument(ctx context.Context, doc *types.Document) error
	UpsertChunk(ctx context.Context, chunk *types.Chunk) error
	LinkChunkToDocument(ctx context.Context, chunkID, documentID string) error
	// LinkChunkChain creates NEXT_CHUNK/PREV_CHUNK edges over the whole
	// ordered sequence in one transaction: all edges or none.
	LinkChunkChain(ctx context.Context, chunkIDs []string) error
	UpsertEntity(ctx context.Context, entity *types.Entity) error
	UpsertRelationship(ctx context.Context, rel *types.Relationship) error
	EntityExists(ctx context.Context, entityID string) (bool, error)
	LinkEntityToChunk(ctx context.Context, entityID, chunkID string, props map[string]any) error

	// Retrieval reads.
	SearchEntities(ctx context.Context, entityTypes []string, filters map[string]string, keywords []string, limit int) ([]*types.Entity, error)
	TraverseFrom(ctx context.Context, seedIDs []string, maxDepth int) ([]TraversalHit, error)
	SearchChunksByText(ctx context.Context, text, method string, limit int) ([]*types.Chunk, error)
	SearchChunksByTerms(ctx context.Context, terms []string, limit int) ([]TermMatch, error)
	SearchChunksByTemporalRefs(ctx context.Context, hints []string, limit int) ([]*types.Chunk, error)
	ChunkWindow(ctx context.Context, chunkID string, before, after int) ([]*types.Chunk, error)
	RelationshipsBetween(ctx context.Context, entityIDs []string) ([]*types.Relationship, error)

	// Provenance reads.
	ChunkEntities(ctx context.Context, chunkID string) ([]*types.Entity, error)
	EntityChunks(ctx context.Context, entityID string) ([]*types.Chunk, error)

	// Document reads and administration.
	GetDocument(ctx context.Context, documentID string) (*types.Document, error)
	ListDocumentChunks(ctx context.Context, documentID string) ([]*types.Chunk, error)
	DeleteDocument(ctx context.Context, documentID string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*types.GraphStats, error)
	EnsureIndexes(ctx context.Context, entityTypes []string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Text search methods accepted by SearchChunksByText.
const (
	TextMethodContains = "contains"
	TextMethodFulltext = "fulltext"
	TextMethodRegex    = "regex"
)
