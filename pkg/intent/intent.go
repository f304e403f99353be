// Package intent turns a natural-language question into the structured
// query descriptor the retrieval signals consume. Analysis is LLM-first
// with JSON repair on malformed output, and falls back to deterministic
// heuristics when no LLM is configured or the call fails, so retrieval
// never depends on the LLM being up.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/soundprediction/docugraph/pkg/llm"
	"github.com/soundprediction/docugraph/pkg/schema"
	"github.com/soundprediction/docugraph/pkg/types"
)

const analysisSystemPrompt = `You analyze questions about a document knowledge graph.
Respond with a single JSON object and nothing else:
{
  "intent": "factual" | "relational" | "temporal" | "exploratory",
  "entity_types": [...],   // subset of: %s
  "keywords": [...],       // content-bearing terms from the question
  "filters": {...},        // exact property constraints, e.g. {"name": "Acme"}
  "temporal_hints": [...], // date or period expressions, verbatim
  "search_text": "..."     // the question stripped of filler words
}`

// Analyzer produces query intents.
type Analyzer struct {
	client llm.Client
	desc   *schema.Descriptor
	logger *slog.Logger
}

// NewAnalyzer builds an analyzer. client may be nil, in which case only
// the heuristic path runs.
func NewAnalyzer(client llm.Client, desc *schema.Descriptor, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, desc: desc, logger: logger}
}

// Analyze returns the intent descriptor for a question. LLM failures
// are logged and absorbed by the heuristic fallback.
func (a *Analyzer) Analyze(ctx context.Context, question string) *types.QueryIntent {
	if a.client != nil {
		if intent, err := a.analyzeLLM(ctx, question); err == nil {
			return intent
		} else {
			a.logger.Warn("llm intent analysis failed, using heuristics",
				slog.String("error", err.Error()))
		}
	}
	return a.Heuristic(question)
}

func (a *Analyzer) analyzeLLM(ctx context.Context, question string) (*types.QueryIntent, error) {
	system := fmt.Sprintf(analysisSystemPrompt, strings.Join(a.entityTypes(), ", "))
	raw, err := a.client.Complete(ctx, system, question)
	if err != nil {
		return nil, err
	}

	raw = stripFences(raw)
	var intent types.QueryIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		// Models often return truncated or single-quoted JSON; repair
		// before giving up.
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return nil, fmt.Errorf("unparseable intent json: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &intent); err != nil {
			return nil, fmt.Errorf("repaired intent json still invalid: %w", err)
		}
	}

	// Only schema-declared types may steer traversal.
	if a.desc != nil {
		var known []string
		for _, t := range intent.EntityTypes {
			if a.desc.HasEntityType(t) {
				known = append(known, t)
			}
		}
		intent.EntityTypes = known
	}
	if intent.SearchText == "" {
		intent.SearchText = question
	}
	return &intent, nil
}

func (a *Analyzer) entityTypes() []string {
	if a.desc == nil {
		return nil
	}
	return a.desc.EntityTypes()
}

// stopwords excluded from heuristic keywords.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "about": true,
	"did": true, "do": true, "does": true, "for": true, "from": true,
	"how": true, "in": true, "is": true, "of": true, "on": true,
	"the": true, "to": true, "was": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "why": true,
	"with": true,
}

var wordPattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9'-]*`)

// yearPattern mirrors the temporal auto-detection in the retrieval
// signals for the heuristic path.
var temporalHintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(19|20)\d{2}\b`),
	regexp.MustCompile(`(?i)\b(last|this|next)\s+(year|quarter|month|week)\b`),
}

// Heuristic derives an intent without the LLM: lowercased
// non-stopword keywords, year and relative-period hints, and the raw
// question as search text.
func (a *Analyzer) Heuristic(question string) *types.QueryIntent {
	intent := &types.QueryIntent{
		Intent:     "factual",
		SearchText: question,
	}

	seen := map[string]bool{}
	for _, w := range wordPattern.FindAllString(question, -1) {
		lw := strings.ToLower(w)
		if stopwords[lw] || len(lw) < 3 || seen[lw] {
			continue
		}
		seen[lw] = true
		intent.Keywords = append(intent.Keywords, lw)
	}

	hintSeen := map[string]bool{}
	for _, pattern := range temporalHintPatterns {
		for _, m := range pattern.FindAllString(question, -1) {
			if hintSeen[strings.ToLower(m)] {
				continue
			}
			hintSeen[strings.ToLower(m)] = true
			intent.TemporalHints = append(intent.TemporalHints, m)
		}
	}
	if len(intent.TemporalHints) > 0 {
		intent.Intent = "temporal"
	}
	return intent
}

// stripFences removes a markdown code fence around a JSON payload.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
