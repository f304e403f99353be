package strategy

import "sort"

// DefaultPreset is the preset loaded at boot when no override is
// configured.
const DefaultPreset = "balanced"

// presets is the built-in catalog. Entries are treated as immutable;
// the store hands out copies, never the catalog values themselves.
var presets = map[string]Snapshot{
	"minimal": {
		Extraction: ExtractionStrategy{
			Name:        "minimal",
			Description: "Bare chunk storage: no metadata, no provenance links.",
			Chunking:    ChunkingConfig{Strategy: "recursive", ChunkSize: 1000, ChunkOverlap: 0},
			Chunks:      ChunkStorageConfig{Enabled: true, StoreText: true, MaxTextLength: 1000},
			ChunkLinking: ChunkLinkingConfig{
				Sequential: false,
				ToDocument: true,
			},
			Metadata: MetadataConfig{
				KeyTerms: KeyTermConfig{Method: "frequency", MaxTerms: 5},
			},
			EntityLinking: EntityLinkingConfig{Enabled: false},
			Validation:    ValidationConfig{Mode: ValidationIgnore, LogLevel: "debug"},
		},
		Retrieval: RetrievalStrategy{
			Name:        "minimal",
			Description: "Graph traversal only, small context.",
			Search: SearchConfig{
				GraphTraversal: GraphTraversalConfig{Enabled: true, MaxDepth: 2},
			},
			Context: ContextConfig{},
			Scoring: ScoringConfig{
				EntityConfidenceMin: 0.3,
				GraphMatchWeight:    1.0,
				TextMatchWeight:     0,
				KeywordMatchWeight:  1.0,
				TemporalMatchWeight: 1.0,
			},
			Limits: LimitsConfig{MaxChunks: 5, MaxEntities: 15, MaxContextTokens: 2000},
		},
	},
	"balanced": {
		Extraction: ExtractionStrategy{
			Name:        "balanced",
			Description: "Default trade-off: core metadata and provenance at moderate cost.",
			Chunking:    ChunkingConfig{Strategy: "recursive", ChunkSize: 1000, ChunkOverlap: 200},
			Chunks:      ChunkStorageConfig{Enabled: true, StoreText: true, MaxTextLength: 2000},
			ChunkLinking: ChunkLinkingConfig{
				Sequential: true,
				ToDocument: true,
			},
			Metadata: MetadataConfig{
				PageNumbers:     ToggleConfig{Enabled: true},
				SectionHeadings: SectionHeadingConfig{Enabled: true},
				TemporalReferences: TemporalRefConfig{
					Enabled:      true,
					ExtractDates: true,
				},
				KeyTerms:   KeyTermConfig{Enabled: true, Method: "frequency", MaxTerms: 10},
				Statistics: StatisticsConfig{WordCount: true, CharCount: true},
			},
			EntityLinking: EntityLinkingConfig{Enabled: true, StoreChunkIndex: true},
			Validation:    ValidationConfig{Mode: ValidationWarn, LogLevel: "warn"},
		},
		Retrieval: RetrievalStrategy{
			Name:        "balanced",
			Description: "All four signals with moderate limits.",
			Search: SearchConfig{
				GraphTraversal:    GraphTraversalConfig{Enabled: true, MaxDepth: 2},
				ChunkTextSearch:   ChunkTextSearchConfig{Enabled: true, Method: "contains"},
				KeywordMatching:   KeywordMatchingConfig{Enabled: true, MatchThreshold: 0.5},
				TemporalFiltering: TemporalFilteringConfig{Enabled: true, AutoDetect: true},
			},
			Context: ContextConfig{
				ExpandNeighbors: ExpandNeighborsConfig{Enabled: true, Before: 1, After: 1},
				IncludeMetadata: IncludeMetadataConfig{SectionHeading: true, PageNumber: true},
			},
			Scoring: ScoringConfig{
				EntityConfidenceMin: 0.5,
				GraphMatchWeight:    1.5,
				TextMatchWeight:     1.0,
				KeywordMatchWeight:  1.0,
				TemporalMatchWeight: 1.0,
			},
			Limits: LimitsConfig{MaxChunks: 10, MaxEntities: 20, MaxContextTokens: 4000},
		},
	},
	"comprehensive": {
		Extraction: ExtractionStrategy{
			Name:        "comprehensive",
			Description: "Everything on: full metadata, provenance with source text, strict validation.",
			Chunking:    ChunkingConfig{Strategy: "recursive", ChunkSize: 800, ChunkOverlap: 200},
			Chunks:      ChunkStorageConfig{Enabled: true, StoreText: true, MaxTextLength: 4000},
			ChunkLinking: ChunkLinkingConfig{
				Sequential: true,
				ToDocument: true,
			},
			Metadata: MetadataConfig{
				PageNumbers: ToggleConfig{Enabled: true},
				SectionHeadings: SectionHeadingConfig{
					Enabled:  true,
					Patterns: []string{`^#+\s+`, `^\d+(\.\d+)*\s+[A-Z]`},
				},
				TemporalReferences: TemporalRefConfig{
					Enabled:          true,
					ExtractDates:     true,
					ExtractDurations: true,
					ExtractRelative:  true,
				},
				KeyTerms:   KeyTermConfig{Enabled: true, Method: "tfidf", MaxTerms: 20},
				Statistics: StatisticsConfig{WordCount: true, CharCount: true, SentenceCount: true},
			},
			EntityLinking: EntityLinkingConfig{Enabled: true, StoreSourceText: true, StoreChunkIndex: true},
			Validation: ValidationConfig{
				Mode:                      ValidationStoreValid,
				LogLevel:                  "warn",
				FailOnBrokenRelationships: true,
			},
		},
		Retrieval: RetrievalStrategy{
			Name:        "comprehensive",
			Description: "Deep traversal, fulltext search, generous limits.",
			Search: SearchConfig{
				GraphTraversal:    GraphTraversalConfig{Enabled: true, MaxDepth: 3},
				ChunkTextSearch:   ChunkTextSearchConfig{Enabled: true, Method: "fulltext"},
				KeywordMatching:   KeywordMatchingConfig{Enabled: true, MatchThreshold: 0.3},
				TemporalFiltering: TemporalFilteringConfig{Enabled: true, AutoDetect: true},
			},
			Context: ContextConfig{
				ExpandNeighbors: ExpandNeighborsConfig{Enabled: true, Before: 2, After: 2},
				IncludeMetadata: IncludeMetadataConfig{
					SectionHeading: true,
					PageNumber:     true,
					TemporalRefs:   true,
					KeyTerms:       true,
				},
			},
			Scoring: ScoringConfig{
				EntityConfidenceMin: 0.3,
				GraphMatchWeight:    1.5,
				TextMatchWeight:     1.0,
				KeywordMatchWeight:  1.0,
				TemporalMatchWeight: 1.0,
				RecencyBoost:        true,
			},
			Limits: LimitsConfig{MaxChunks: 20, MaxEntities: 40, MaxContextTokens: 8000},
		},
	},
	"speed": {
		Extraction: ExtractionStrategy{
			Name:        "speed",
			Description: "Fast ingestion: large chunks, no metadata extraction, no validation.",
			Chunking:    ChunkingConfig{Strategy: "fixed", ChunkSize: 2000, ChunkOverlap: 0},
			Chunks:      ChunkStorageConfig{Enabled: true, StoreText: true, MaxTextLength: 2000},
			ChunkLinking: ChunkLinkingConfig{
				Sequential: true,
				ToDocument: true,
			},
			Metadata: MetadataConfig{
				KeyTerms: KeyTermConfig{Method: "frequency", MaxTerms: 5},
			},
			EntityLinking: EntityLinkingConfig{Enabled: false},
			Validation:    ValidationConfig{Mode: ValidationIgnore, LogLevel: "error"},
		},
		Retrieval: RetrievalStrategy{
			Name:        "speed",
			Description: "Cheapest signals only, tight limits.",
			Search: SearchConfig{
				ChunkTextSearch: ChunkTextSearchConfig{Enabled: true, Method: "contains"},
				KeywordMatching: KeywordMatchingConfig{Enabled: true, MatchThreshold: 0.7},
			},
			Context: ContextConfig{},
			Scoring: ScoringConfig{
				EntityConfidenceMin: 0.5,
				GraphMatchWeight:    1.5,
				TextMatchWeight:     1.0,
				KeywordMatchWeight:  1.0,
				TemporalMatchWeight: 1.0,
			},
			Limits: LimitsConfig{MaxChunks: 5, MaxEntities: 10, MaxContextTokens: 2000},
		},
	},
	"research": {
		Extraction: ExtractionStrategy{
			Name:        "research",
			Description: "Maximum recall for analytical workloads: small overlapping chunks, rich metadata.",
			Chunking:    ChunkingConfig{Strategy: "recursive", ChunkSize: 500, ChunkOverlap: 150},
			Chunks:      ChunkStorageConfig{Enabled: true, StoreText: true, MaxTextLength: 4000},
			ChunkLinking: ChunkLinkingConfig{
				Sequential: true,
				ToDocument: true,
			},
			Metadata: MetadataConfig{
				PageNumbers:     ToggleConfig{Enabled: true},
				SectionHeadings: SectionHeadingConfig{Enabled: true},
				TemporalReferences: TemporalRefConfig{
					Enabled:          true,
					ExtractDates:     true,
					ExtractDurations: true,
					ExtractRelative:  true,
				},
				KeyTerms:   KeyTermConfig{Enabled: true, Method: "tfidf", MaxTerms: 25},
				Statistics: StatisticsConfig{WordCount: true, CharCount: true, SentenceCount: true},
			},
			EntityLinking: EntityLinkingConfig{Enabled: true, StoreSourceText: true, StoreChunkIndex: true},
			Validation: ValidationConfig{
				Mode:                  ValidationStrict,
				LogLevel:              "error",
				FailOnMissingRequired: true,
				FailOnBrokenRelationships: true,
			},
		},
		Retrieval: RetrievalStrategy{
			Name:        "research",
			Description: "Deep traversal and wide expansion; the largest context budget.",
			Search: SearchConfig{
				GraphTraversal:    GraphTraversalConfig{Enabled: true, MaxDepth: 3},
				ChunkTextSearch:   ChunkTextSearchConfig{Enabled: true, Method: "fulltext"},
				KeywordMatching:   KeywordMatchingConfig{Enabled: true, MatchThreshold: 0.3},
				TemporalFiltering: TemporalFilteringConfig{Enabled: true, AutoDetect: true},
			},
			Context: ContextConfig{
				ExpandNeighbors: ExpandNeighborsConfig{Enabled: true, Before: 2, After: 2},
				IncludeMetadata: IncludeMetadataConfig{
					SectionHeading: true,
					PageNumber:     true,
					TemporalRefs:   true,
					KeyTerms:       true,
				},
			},
			Scoring: ScoringConfig{
				EntityConfidenceMin: 0.2,
				GraphMatchWeight:    1.5,
				TextMatchWeight:     1.0,
				KeywordMatchWeight:  1.0,
				TemporalMatchWeight: 1.0,
				RecencyBoost:        true,
			},
			Limits: LimitsConfig{MaxChunks: 30, MaxEntities: 50, MaxContextTokens: 12000},
		},
	},
}

// Preset returns a copy of a catalog entry with Preset set to its name.
func Preset(name string) (Snapshot, error) {
	snap, ok := presets[name]
	if !ok {
		return Snapshot{}, ErrUnknownPreset
	}
	n := name
	snap.Preset = &n
	return snap, nil
}

// Presets lists the catalog, sorted by name.
func Presets() []PresetInfo {
	out := make([]PresetInfo, 0, len(presets))
	for name, snap := range presets {
		out = append(out, PresetInfo{Name: name, Description: snap.Extraction.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
