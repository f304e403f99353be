// Package strategy holds the runtime-tunable extraction and retrieval
// strategy trees, a named preset catalog, and an atomic snapshot store
// that lets in-flight operations read a consistent strategy pair while
// operators update it.
package strategy

import "errors"

var (
	// ErrUnknownPreset is returned when a preset name has no entry in
	// the catalog.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrUnknownKey is returned when a partial update contains a key
	// that does not exist in the strategy tree.
	ErrUnknownKey = errors.New("unknown strategy key")

	// ErrInvalidKind is returned when an update names neither the
	// extraction nor the retrieval tree.
	ErrInvalidKind = errors.New("invalid strategy kind")
)

// Kind selects which of the two strategy trees an update targets.
type Kind string

const (
	KindExtraction Kind = "extraction"
	KindRetrieval  Kind = "retrieval"
)

// ChunkingConfig controls how the upstream chunker is expected to have
// split the document. Stored for provenance; ingestion itself consumes
// pre-chunked input.
type ChunkingConfig struct {
	Strategy     string `json:"strategy" yaml:"strategy"`
	ChunkSize    int    `json:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// ChunkStorageConfig controls whether chunk nodes are stored at all and
// how much text they carry.
type ChunkStorageConfig struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	StoreText     bool `json:"store_text" yaml:"store_text"`
	MaxTextLength int  `json:"max_text_length" yaml:"max_text_length"`
}

// ChunkLinkingConfig controls which structural edges are created.
type ChunkLinkingConfig struct {
	Sequential bool `json:"sequential" yaml:"sequential"`
	ToDocument bool `json:"to_document" yaml:"to_document"`
}

// ToggleConfig is a bare enabled flag.
type ToggleConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// SectionHeadingConfig controls section heading capture.
type SectionHeadingConfig struct {
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// TemporalRefConfig controls which temporal expressions are kept on
// chunk nodes.
type TemporalRefConfig struct {
	Enabled         bool `json:"enabled" yaml:"enabled"`
	ExtractDates    bool `json:"extract_dates" yaml:"extract_dates"`
	ExtractDurations bool `json:"extract_durations" yaml:"extract_durations"`
	ExtractRelative bool `json:"extract_relative" yaml:"extract_relative"`
}

// KeyTermConfig controls key-term capture on chunk nodes.
type KeyTermConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Method   string `json:"method" yaml:"method"`
	MaxTerms int    `json:"max_terms" yaml:"max_terms"`
}

// StatisticsConfig controls which derived counts are stored per chunk.
type StatisticsConfig struct {
	WordCount     bool `json:"word_count" yaml:"word_count"`
	CharCount     bool `json:"char_count" yaml:"char_count"`
	SentenceCount bool `json:"sentence_count" yaml:"sentence_count"`
}

// MetadataConfig groups the per-field chunk metadata toggles.
type MetadataConfig struct {
	PageNumbers        ToggleConfig         `json:"page_numbers" yaml:"page_numbers"`
	SectionHeadings    SectionHeadingConfig `json:"section_headings" yaml:"section_headings"`
	TemporalReferences TemporalRefConfig    `json:"temporal_references" yaml:"temporal_references"`
	KeyTerms           KeyTermConfig        `json:"key_terms" yaml:"key_terms"`
	Statistics         StatisticsConfig     `json:"statistics" yaml:"statistics"`
}

// EntityLinkingConfig controls provenance edges from entities back to
// their source chunks.
type EntityLinkingConfig struct {
	Enabled         bool `json:"enabled" yaml:"enabled"`
	StoreSourceText bool `json:"store_source_text" yaml:"store_source_text"`
	StoreChunkIndex bool `json:"store_chunk_index" yaml:"store_chunk_index"`
}

// ValidationMode selects how schema violations during ingestion are
// handled.
type ValidationMode string

const (
	ValidationIgnore     ValidationMode = "ignore"
	ValidationWarn       ValidationMode = "warn"
	ValidationStoreValid ValidationMode = "store_valid"
	ValidationStrict     ValidationMode = "strict"
)

// ValidationConfig controls ingestion-time schema validation.
type ValidationConfig struct {
	Mode                      ValidationMode `json:"mode" yaml:"mode"`
	LogLevel                  string         `json:"log_level" yaml:"log_level"`
	FailOnMissingRequired     bool           `json:"fail_on_missing_required" yaml:"fail_on_missing_required"`
	FailOnBrokenRelationships bool           `json:"fail_on_broken_relationships" yaml:"fail_on_broken_relationships"`
}

// ExtractionStrategy is the full ingestion-side strategy tree.
type ExtractionStrategy struct {
	Name          string              `json:"name" yaml:"name"`
	Description   string              `json:"description" yaml:"description"`
	Chunking      ChunkingConfig      `json:"chunking" yaml:"chunking"`
	Chunks        ChunkStorageConfig  `json:"chunks" yaml:"chunks"`
	ChunkLinking  ChunkLinkingConfig  `json:"chunk_linking" yaml:"chunk_linking"`
	Metadata      MetadataConfig      `json:"metadata" yaml:"metadata"`
	EntityLinking EntityLinkingConfig `json:"entity_linking" yaml:"entity_linking"`
	Validation    ValidationConfig    `json:"validation" yaml:"validation"`
}

// GraphTraversalConfig controls the graph signal.
type GraphTraversalConfig struct {
	Enabled  bool `json:"enabled" yaml:"enabled"`
	MaxDepth int  `json:"max_depth" yaml:"max_depth"`
}

// ChunkTextSearchConfig controls the text signal. Method is one of
// contains, fulltext, regex.
type ChunkTextSearchConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Method  string `json:"method" yaml:"method"`
}

// KeywordMatchingConfig controls the keyword signal.
type KeywordMatchingConfig struct {
	Enabled        bool    `json:"enabled" yaml:"enabled"`
	MatchThreshold float64 `json:"match_threshold" yaml:"match_threshold"`
}

// TemporalFilteringConfig controls the temporal signal.
type TemporalFilteringConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	AutoDetect bool `json:"auto_detect" yaml:"auto_detect"`
}

// SearchConfig groups the four signal toggles.
type SearchConfig struct {
	GraphTraversal    GraphTraversalConfig    `json:"graph_traversal" yaml:"graph_traversal"`
	ChunkTextSearch   ChunkTextSearchConfig   `json:"chunk_text_search" yaml:"chunk_text_search"`
	KeywordMatching   KeywordMatchingConfig   `json:"keyword_matching" yaml:"keyword_matching"`
	TemporalFiltering TemporalFilteringConfig `json:"temporal_filtering" yaml:"temporal_filtering"`
}

// ExpandNeighborsConfig controls context expansion along the chunk
// chain.
type ExpandNeighborsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Before  int  `json:"before" yaml:"before"`
	After   int  `json:"after" yaml:"after"`
}

// IncludeMetadataConfig controls which chunk metadata the formatter
// renders.
type IncludeMetadataConfig struct {
	SectionHeading bool `json:"section_heading" yaml:"section_heading"`
	PageNumber     bool `json:"page_number" yaml:"page_number"`
	TemporalRefs   bool `json:"temporal_refs" yaml:"temporal_refs"`
	KeyTerms       bool `json:"key_terms" yaml:"key_terms"`
}

// ContextConfig groups context assembly options.
type ContextConfig struct {
	ExpandNeighbors ExpandNeighborsConfig `json:"expand_neighbors" yaml:"expand_neighbors"`
	IncludeMetadata IncludeMetadataConfig `json:"include_metadata" yaml:"include_metadata"`
}

// ScoringConfig holds the signal weights and filters applied by the
// merger.
type ScoringConfig struct {
	EntityConfidenceMin float64 `json:"entity_confidence_min" yaml:"entity_confidence_min"`
	GraphMatchWeight    float64 `json:"graph_match_weight" yaml:"graph_match_weight"`
	TextMatchWeight     float64 `json:"text_match_weight" yaml:"text_match_weight"`
	KeywordMatchWeight  float64 `json:"keyword_match_weight" yaml:"keyword_match_weight"`
	TemporalMatchWeight float64 `json:"temporal_match_weight" yaml:"temporal_match_weight"`
	RecencyBoost        bool    `json:"recency_boost" yaml:"recency_boost"`
}

// SignalWeight returns the configured weight for a signal name.
// Unrecognized names weigh 1.0. A configured zero is honored as zero:
// that signal still runs but contributes nothing to combined scores.
func (s ScoringConfig) SignalWeight(signal string) float64 {
	switch signal {
	case "graph_traversal":
		return s.GraphMatchWeight
	case "chunk_text_search":
		return s.TextMatchWeight
	case "keyword_matching":
		return s.KeywordMatchWeight
	case "temporal_filtering":
		return s.TemporalMatchWeight
	default:
		return 1.0
	}
}

// LimitsConfig caps result sizes and the context token budget.
type LimitsConfig struct {
	MaxChunks        int `json:"max_chunks" yaml:"max_chunks"`
	MaxEntities      int `json:"max_entities" yaml:"max_entities"`
	MaxContextTokens int `json:"max_context_tokens" yaml:"max_context_tokens"`
}

// RetrievalStrategy is the full query-side strategy tree.
type RetrievalStrategy struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Search      SearchConfig  `json:"search" yaml:"search"`
	Context     ContextConfig `json:"context" yaml:"context"`
	Scoring     ScoringConfig `json:"scoring" yaml:"scoring"`
	Limits      LimitsConfig  `json:"limits" yaml:"limits"`
}

// Snapshot is one immutable strategy pair. Preset is the catalog name
// the pair was loaded from, or nil once any manual update diverged from
// it.
type Snapshot struct {
	Extraction ExtractionStrategy `json:"extraction" yaml:"extraction"`
	Retrieval  RetrievalStrategy  `json:"retrieval" yaml:"retrieval"`
	Preset     *string            `json:"preset" yaml:"preset,omitempty"`
}

// PresetName returns the preset name or "custom".
func (s Snapshot) PresetName() string {
	if s.Preset == nil {
		return "custom"
	}
	return *s.Preset
}

// PresetInfo describes one catalog entry.
type PresetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
