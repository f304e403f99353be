package docugraph

import (
	"context"

	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// Ingestor stores documents in the graph.
type Ingestor interface {
	IngestDocument(ctx context.Context, input *types.DocumentInput) (*types.IngestSummary, error)
}

// Retriever answers questions over the graph.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (*types.RetrievalResult, error)
	RetrieveWithIntent(ctx context.Context, question string, intent *types.QueryIntent) (*types.RetrievalResult, error)
}

// StrategyAdmin tunes the live strategy pair.
type StrategyAdmin interface {
	Strategies() strategy.Snapshot
	Presets() []strategy.PresetInfo
	ApplyPreset(name string) (strategy.Snapshot, error)
	UpdateStrategy(kind strategy.Kind, partial map[string]any) (strategy.Snapshot, error)
	ResetStrategies() (strategy.Snapshot, error)
	ExportStrategies(path string) error
	ImportStrategies(path string) (strategy.Snapshot, error)
}

// GraphAdmin reads and maintains the stored graph.
type GraphAdmin interface {
	GetDocument(ctx context.Context, documentID string) (*types.Document, error)
	DocumentChunks(ctx context.Context, documentID string) ([]*types.Chunk, error)
	ChunkEntities(ctx context.Context, chunkID string) ([]*types.Entity, error)
	EntityChunks(ctx context.Context, entityID string) ([]*types.Chunk, error)
	DeleteDocument(ctx context.Context, documentID string) error
	ClearGraph(ctx context.Context) error
	GraphStats(ctx context.Context) (*types.GraphStats, error)
	EnsureIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Client implements the full surface.
var _ interface {
	Ingestor
	Retriever
	StrategyAdmin
	GraphAdmin
} = (*Client)(nil)
