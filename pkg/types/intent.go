package types

// Signal names, in merge priority order. When two candidates tie on
// combined score, the one found by the higher-priority signal wins.
const (
	SignalGraphTraversal = "graph_traversal"
	SignalChunkText      = "chunk_text_search"
	SignalKeywordMatch   = "keyword_matching"
	SignalTemporalFilter = "temporal_filtering"
)

// SignalPriority maps a signal name to its tie-break rank (lower wins).
// Unknown signals sort last.
func SignalPriority(name string) int {
	switch name {
	case SignalGraphTraversal:
		return 0
	case SignalChunkText:
		return 1
	case SignalKeywordMatch:
		return 2
	case SignalTemporalFilter:
		return 3
	}
	return 4
}

// QueryIntent is the structured analysis of a user question. It is
// produced by the intent analyzer (or supplied directly by the caller)
// and consumed by the retrieval signals; the retrieval core never sees
// the raw question except through SearchText.
type QueryIntent struct {
	// Intent is a coarse classification such as "factual", "temporal",
	// or "relational". Informational only; signals key off the fields
	// below.
	Intent string `json:"intent"`

	// EntityTypes narrows graph traversal seeds to these schema types.
	// Empty means all types.
	EntityTypes []string `json:"entity_types,omitempty"`

	// Keywords drive keyword matching against chunk key terms.
	Keywords []string `json:"keywords,omitempty"`

	// Filters are exact-match property constraints on traversal seeds,
	// e.g. {"name": "Acme"}.
	Filters map[string]string `json:"filters,omitempty"`

	// TemporalHints are date or period expressions detected in the
	// question ("2023", "last quarter", "March 2021").
	TemporalHints []string `json:"temporal_hints,omitempty"`

	// SearchText is the cleaned query text used for chunk text search.
	SearchText string `json:"search_text"`
}

// HasTemporalHints reports whether the question carried any temporal
// expression.
func (q *QueryIntent) HasTemporalHints() bool {
	return len(q.TemporalHints) > 0
}

// HasSeeds reports whether graph traversal has anything to anchor on.
func (q *QueryIntent) HasSeeds() bool {
	return len(q.EntityTypes) > 0 || len(q.Filters) > 0 || len(q.Keywords) > 0
}
