package types

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors
var (
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrEmptyDocumentID  = errors.New("document_id cannot be empty")
	ErrEmptyEntityType  = errors.New("entity type cannot be empty")
	ErrEmptyText        = errors.New("text cannot be empty")
	ErrNegativeIndex    = errors.New("chunk_index cannot be negative")
	ErrMissingEndpoints = errors.New("relationship requires source and target ids")
)

// Document represents one ingested document. Documents are created once
// per upload and never mutated afterwards.
type Document struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	PageCount  int            `json:"page_count,omitempty"`
	IngestedAt time.Time      `json:"ingested_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Validate checks if the Document has all required fields set.
func (d *Document) Validate() error {
	if d.ID == "" {
		return ErrEmptyID
	}
	return nil
}

// Chunk is an ordered slice of document text with positional and derived
// metadata. Chunks belong to exactly one document and are addressed by
// (DocumentID, ChunkIndex); indexes are 0-based, strictly increasing and
// gap-free within a document.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`

	// Positional metadata, present only when the extraction strategy
	// enabled the corresponding field at ingestion time.
	PageNumber     *int     `json:"page_number,omitempty"`
	SectionHeading *string  `json:"section_heading,omitempty"`
	TemporalRefs   []string `json:"temporal_refs,omitempty"`
	KeyTerms       []string `json:"key_terms,omitempty"`
	WordCount      int      `json:"word_count,omitempty"`
	CharCount      int      `json:"char_count,omitempty"`
}

// Validate checks if the Chunk has all required fields set.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return ErrEmptyID
	}
	if c.DocumentID == "" {
		return ErrEmptyDocumentID
	}
	if c.ChunkIndex < 0 {
		return ErrNegativeIndex
	}
	return nil
}

// Entity is a schema-typed node. The type tag and the property bag are
// defined by the active schema descriptor, not by a fixed Go type per
// entity kind. Identity is unique within the type namespace.
type Entity struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`

	// SourceChunkID records which chunk the entity was extracted from
	// and drives EXTRACTED_FROM provenance edges.
	SourceChunkID string `json:"source_chunk_id,omitempty"`
}

// Key returns the upsert identity of the entity.
func (e *Entity) Key() string {
	return e.Type + "/" + e.ID
}

// Validate checks if the Entity has all required fields set.
func (e *Entity) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Type == "" {
		return ErrEmptyEntityType
	}
	return nil
}

// Property returns a named property value, or def when absent.
func (e *Entity) Property(name string, def any) any {
	if v, ok := e.Properties[name]; ok && v != nil {
		return v
	}
	return def
}

// DisplayName returns a human-readable label for the entity, preferring
// name/title properties over the raw id.
func (e *Entity) DisplayName() string {
	for _, k := range []string{"name", "title"} {
		if v, ok := e.Properties[k].(string); ok && v != "" {
			return v
		}
	}
	return e.ID
}

// Relationship is a typed directed edge between two entities. Both
// endpoints must exist when the edge is created; dangling relationships
// are a validation error, never a stored state.
type Relationship struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Confidence float64        `json:"confidence,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Validate checks if the Relationship has all required fields set.
func (r *Relationship) Validate() error {
	if r.Type == "" {
		return ErrEmptyEntityType
	}
	if r.SourceID == "" || r.TargetID == "" {
		return ErrMissingEndpoints
	}
	return nil
}

// ChunkInput is a chunk as produced by the upstream chunking step,
// together with extraction results scoped to that chunk.
type ChunkInput struct {
	Chunk         Chunk          `json:"chunk"`
	Entities      []Entity       `json:"entities,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// DocumentInput is the full ingestion payload for one document: the
// document metadata plus its ordered chunk sequence.
type DocumentInput struct {
	Document Document     `json:"document"`
	Chunks   []ChunkInput `json:"chunks"`
}

// Validate checks the payload shape, including the gap-free chunk index
// invariant.
func (in *DocumentInput) Validate() error {
	if err := in.Document.Validate(); err != nil {
		return err
	}
	for i := range in.Chunks {
		c := &in.Chunks[i].Chunk
		if err := c.Validate(); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		if c.ChunkIndex != i {
			return fmt.Errorf("chunk %d: chunk_index %d out of sequence", i, c.ChunkIndex)
		}
	}
	return nil
}

// IngestSummary reports what a single document ingestion stored.
type IngestSummary struct {
	DocumentID           string `json:"document_id"`
	EntityCount          int    `json:"entity_count"`
	RelationshipCount    int    `json:"relationship_count"`
	ChunkCount           int    `json:"chunk_count"`
	SkippedEntities      int    `json:"skipped_entities,omitempty"`
	SkippedRelationships int    `json:"skipped_relationships,omitempty"`
	Warnings             []string `json:"warnings,omitempty"`
}

// CandidateKind distinguishes what a retrieval signal matched.
type CandidateKind string

const (
	EntityCandidate CandidateKind = "entity"
	ChunkCandidate  CandidateKind = "chunk"
)

// ScoredCandidate is the common output unit of every retrieval signal.
// RawScore is normalized to [0,1] before weighting.
type ScoredCandidate struct {
	Kind     CandidateKind `json:"kind"`
	ID       string        `json:"id"`
	RawScore float64       `json:"raw_score"`

	// Exactly one of Entity/Chunk is set, matching Kind.
	Entity *Entity `json:"entity,omitempty"`
	Chunk  *Chunk  `json:"chunk,omitempty"`
}

// DedupKey is the identity under which candidates from different signals
// are merged.
func (c *ScoredCandidate) DedupKey() string {
	return string(c.Kind) + ":" + c.ID
}

// ScoredEntity is an entity with its combined ranking score.
type ScoredEntity struct {
	Entity *Entity `json:"entity"`
	Score  float64 `json:"score"`
}

// ScoredChunk is a chunk with its combined ranking score. Expanded marks
// chunks pulled in by neighbor expansion rather than matched directly.
type ScoredChunk struct {
	Chunk    *Chunk  `json:"chunk"`
	Score    float64 `json:"score"`
	Expanded bool    `json:"expanded,omitempty"`
}

// SignalReport records the outcome of one retrieval signal for
// diagnostics. Err is empty on success.
type SignalReport struct {
	Name       string        `json:"name"`
	Candidates int           `json:"candidates"`
	Duration   time.Duration `json:"duration"`
	Err        string        `json:"error,omitempty"`
}

// RetrievalDiagnostics surfaces what happened inside one retrieval:
// per-signal outcomes and how much the limit enforcer had to drop.
// Truncation is expected behavior, reported here as metadata rather
// than as an error.
type RetrievalDiagnostics struct {
	Signals         []SignalReport `json:"signals,omitempty"`
	DroppedEntities int            `json:"dropped_entities,omitempty"`
	DroppedChunks   int            `json:"dropped_chunks,omitempty"`
	TokenEstimate   int            `json:"token_estimate,omitempty"`
	Truncated       bool           `json:"truncated,omitempty"`
}

// RetrievalResult is the ranked, deduplicated, budget-bounded context
// handed to the external answer-generation step.
type RetrievalResult struct {
	Entities          []ScoredEntity  `json:"entities"`
	Chunks            []ScoredChunk   `json:"chunks"`
	Relationships     []*Relationship `json:"relationships"`
	ContextText       string          `json:"context_text"`
	SearchMethodsUsed []string        `json:"search_methods_used"`
	Diagnostics       RetrievalDiagnostics `json:"diagnostics"`
	Query             string          `json:"query"`
}

// EntityCount returns the number of retrieved entities.
func (r *RetrievalResult) EntityCount() int { return len(r.Entities) }

// ChunkCount returns the number of retrieved chunks.
func (r *RetrievalResult) ChunkCount() int { return len(r.Chunks) }

// IsEmpty reports whether retrieval produced no usable context.
func (r *RetrievalResult) IsEmpty() bool {
	return len(r.Entities) == 0 && len(r.Chunks) == 0
}

// TimeRange represents a half-open time range for temporal filtering.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range. A zero Start or End
// leaves that side unbounded.
func (tr *TimeRange) Contains(t time.Time) bool {
	if !tr.Start.IsZero() && t.Before(tr.Start) {
		return false
	}
	if !tr.End.IsZero() && !t.Before(tr.End) {
		return false
	}
	return true
}

// GraphStats summarizes graph contents, splitting schema entities from
// the chunk/document infrastructure.
type GraphStats struct {
	TotalNodes         int            `json:"total_nodes"`
	TotalRelationships int            `json:"total_relationships"`
	EntitiesByType     map[string]int `json:"entities_by_type"`
	RelationshipsByType map[string]int `json:"relationships_by_type"`
	Documents          int            `json:"documents"`
	Chunks             int            `json:"chunks"`
	ChainEdges         int            `json:"chain_edges"`
	ProvenanceEdges    int            `json:"provenance_edges"`
}
