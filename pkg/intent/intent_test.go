package intent

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/soundprediction/docugraph/pkg/schema"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(ctx context.Context, system, user string) (string, error) {
	return s.response, s.err
}

func testDescriptor(t *testing.T) *schema.Descriptor {
	t.Helper()
	d, err := schema.Parse([]byte(`
entities:
  Company:
    properties: {}
  Person:
    properties: {}
relationships: {}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestAnalyzeParsesLLMResponse(t *testing.T) {
	t.Parallel()

	client := &stubLLM{response: `{
		"intent": "relational",
		"entity_types": ["Company", "Spaceship"],
		"keywords": ["acme", "acquisition"],
		"filters": {"name": "Acme"},
		"temporal_hints": ["2023"],
		"search_text": "acme acquisition 2023"
	}`}
	a := NewAnalyzer(client, testDescriptor(t), slog.Default())

	intent := a.Analyze(context.Background(), "What did Acme acquire in 2023?")
	if intent.Intent != "relational" {
		t.Errorf("Intent = %q", intent.Intent)
	}
	// Types outside the schema are discarded.
	if len(intent.EntityTypes) != 1 || intent.EntityTypes[0] != "Company" {
		t.Errorf("EntityTypes = %v, want [Company]", intent.EntityTypes)
	}
	if intent.Filters["name"] != "Acme" {
		t.Errorf("Filters = %v", intent.Filters)
	}
	if intent.SearchText != "acme acquisition 2023" {
		t.Errorf("SearchText = %q", intent.SearchText)
	}
}

func TestAnalyzeRepairsMalformedJSON(t *testing.T) {
	t.Parallel()

	// Single quotes and a trailing comma, wrapped in a fence.
	client := &stubLLM{response: "```json\n{'intent': 'factual', 'keywords': ['acme',],}\n```"}
	a := NewAnalyzer(client, testDescriptor(t), slog.Default())

	intent := a.Analyze(context.Background(), "Tell me about Acme")
	if intent.Intent != "factual" {
		t.Errorf("Intent = %q, want factual (repaired)", intent.Intent)
	}
	if len(intent.Keywords) != 1 || intent.Keywords[0] != "acme" {
		t.Errorf("Keywords = %v", intent.Keywords)
	}
	if intent.SearchText == "" {
		t.Error("empty search_text must fall back to the question")
	}
}

func TestAnalyzeFallsBackOnLLMError(t *testing.T) {
	t.Parallel()

	client := &stubLLM{err: errors.New("connection refused")}
	a := NewAnalyzer(client, testDescriptor(t), slog.Default())

	intent := a.Analyze(context.Background(), "What happened to Acme in 2023?")
	if intent == nil {
		t.Fatal("fallback must always produce an intent")
	}
	if intent.SearchText != "What happened to Acme in 2023?" {
		t.Errorf("SearchText = %q", intent.SearchText)
	}
	if !intent.HasTemporalHints() {
		t.Error("heuristic must detect the year hint")
	}
}

func TestHeuristicKeywordsAndHints(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(nil, nil, slog.Default())
	intent := a.Heuristic("When did Acme acquire the robotics division last year?")

	has := func(kw string) bool {
		for _, k := range intent.Keywords {
			if k == kw {
				return true
			}
		}
		return false
	}
	if !has("acme") || !has("robotics") || !has("division") {
		t.Errorf("Keywords = %v", intent.Keywords)
	}
	if has("the") || has("did") || has("when") {
		t.Errorf("stopwords leaked into keywords: %v", intent.Keywords)
	}
	if len(intent.TemporalHints) != 1 || intent.TemporalHints[0] != "last year" {
		t.Errorf("TemporalHints = %v", intent.TemporalHints)
	}
	if intent.Intent != "temporal" {
		t.Errorf("Intent = %q, want temporal", intent.Intent)
	}
}
