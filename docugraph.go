package docugraph

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/intent"
	"github.com/soundprediction/docugraph/pkg/llm"
	"github.com/soundprediction/docugraph/pkg/schema"
	"github.com/soundprediction/docugraph/pkg/search"
	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

var (
	ErrNilGraphStore    = errors.New("graph store is required")
	ErrNilStrategyStore = errors.New("strategy store is required")
	ErrNilSchema        = errors.New("schema descriptor is required")
)

// ClientConfig holds the optional collaborators of a Client.
type ClientConfig struct {
	// LLM backs query intent analysis. Nil means heuristic analysis
	// only; retrieval works either way.
	LLM llm.Client

	Logger *slog.Logger
}

// Client wires the graph store, the strategy store, the schema
// descriptor, the search engine, and the intent analyzer into the
// ingestion and retrieval surfaces.
type Client struct {
	store      driver.GraphStore
	strategies *strategy.Store
	desc       *schema.Descriptor
	engine     *search.Engine
	analyzer   *intent.Analyzer
	logger     *slog.Logger

	// docLocks serializes concurrent ingestion of the same document.
	// Different documents ingest concurrently without contention.
	docLocks sync.Map // document id -> *sync.Mutex
}

// NewClient builds a client. cfg may be nil.
func NewClient(store driver.GraphStore, strategies *strategy.Store, desc *schema.Descriptor, cfg *ClientConfig) (*Client, error) {
	if store == nil {
		return nil, ErrNilGraphStore
	}
	if strategies == nil {
		return nil, ErrNilStrategyStore
	}
	if desc == nil {
		return nil, ErrNilSchema
	}
	if cfg == nil {
		cfg = &ClientConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		store:      store,
		strategies: strategies,
		desc:       desc,
		engine:     search.NewEngine(store, logger),
		analyzer:   intent.NewAnalyzer(cfg.LLM, desc, logger),
		logger:     logger,
	}, nil
}

// Strategies returns the live strategy pair.
func (c *Client) Strategies() strategy.Snapshot {
	return c.strategies.Get()
}

// Presets lists the preset catalog.
func (c *Client) Presets() []strategy.PresetInfo {
	return c.strategies.Presets()
}

// ApplyPreset loads a named preset as the live pair.
func (c *Client) ApplyPreset(name string) (strategy.Snapshot, error) {
	return c.strategies.LoadPreset(name)
}

// UpdateStrategy applies a partial update to one strategy tree.
func (c *Client) UpdateStrategy(kind strategy.Kind, partial map[string]any) (strategy.Snapshot, error) {
	return c.strategies.Update(kind, partial)
}

// ResetStrategies restores the default preset.
func (c *Client) ResetStrategies() (strategy.Snapshot, error) {
	return c.strategies.Reset()
}

// ExportStrategies writes the live strategy pair to a YAML file.
func (c *Client) ExportStrategies(path string) error {
	return strategy.SaveFile(path, c.strategies.Get())
}

// ImportStrategies replaces the live pair with one read from a YAML
// file produced by ExportStrategies.
func (c *Client) ImportStrategies(path string) (strategy.Snapshot, error) {
	snap, err := strategy.LoadFile(path)
	if err != nil {
		return strategy.Snapshot{}, err
	}
	return c.strategies.Replace(snap)
}

// GetDocument fetches document metadata.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*types.Document, error) {
	return c.store.GetDocument(ctx, documentID)
}

// DocumentChunks lists a document's chunks in order.
func (c *Client) DocumentChunks(ctx context.Context, documentID string) ([]*types.Chunk, error) {
	return c.store.ListDocumentChunks(ctx, documentID)
}

// ChunkEntities lists the entities extracted from a chunk.
func (c *Client) ChunkEntities(ctx context.Context, chunkID string) ([]*types.Entity, error) {
	return c.store.ChunkEntities(ctx, chunkID)
}

// EntityChunks lists the chunks an entity was extracted from.
func (c *Client) EntityChunks(ctx context.Context, entityID string) ([]*types.Chunk, error) {
	return c.store.EntityChunks(ctx, entityID)
}

// DeleteDocument removes a document and its chunks from the graph.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	c.logger.Info("deleting document", slog.String("document_id", documentID))
	return c.store.DeleteDocument(ctx, documentID)
}

// ClearGraph wipes the whole graph.
func (c *Client) ClearGraph(ctx context.Context) error {
	c.logger.Warn("clearing graph")
	return c.store.Clear(ctx)
}

// GraphStats summarizes graph contents.
func (c *Client) GraphStats(ctx context.Context) (*types.GraphStats, error) {
	return c.store.Stats(ctx)
}

// EnsureIndexes creates lookup indexes for infrastructure nodes and
// every schema entity type.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	return c.store.EnsureIndexes(ctx, c.desc.EntityTypes())
}

// Ping verifies graph store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close releases the underlying store.
func (c *Client) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}

// docLock returns the mutex serializing writes to one document.
func (c *Client) docLock(documentID string) *sync.Mutex {
	mu, _ := c.docLocks.LoadOrStore(documentID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
