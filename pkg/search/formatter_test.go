package search

import (
	"strings"
	"testing"

	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

func formatterFixture() ([]types.ScoredEntity, []types.ScoredChunk, []*types.Relationship) {
	page := 2
	section := "Acquisitions"
	entities := []types.ScoredEntity{
		{Entity: &types.Entity{ID: "acme", Type: "Company", Confidence: 0.9,
			Properties: map[string]any{"name": "Acme Corp", "industry": "robotics"}}, Score: 1.5},
		{Entity: &types.Entity{ID: "beta", Type: "Company", Confidence: 0.8,
			Properties: map[string]any{"name": "Beta LLC"}}, Score: 1.0},
		{Entity: &types.Entity{ID: "jdoe", Type: "Person",
			Properties: map[string]any{"name": "J. Doe"}}, Score: 0.8},
	}
	chunks := []types.ScoredChunk{
		{Chunk: &types.Chunk{ID: "c3", DocumentID: "d1", ChunkIndex: 3,
			Text: "Acme acquired Beta in 2023.", PageNumber: &page, SectionHeading: &section,
			TemporalRefs: []string{"2023"}}, Score: 2.0},
		{Chunk: &types.Chunk{ID: "c1", DocumentID: "d1", ChunkIndex: 1,
			Text: "Background on Acme."}, Score: 1.0},
	}
	rels := []*types.Relationship{
		{Type: "ACQUIRED", SourceID: "acme", TargetID: "beta"},
	}
	return entities, chunks, rels
}

func TestFormatContextStructure(t *testing.T) {
	t.Parallel()

	entities, chunks, rels := formatterFixture()
	include := strategy.IncludeMetadataConfig{SectionHeading: true, PageNumber: true}

	out := FormatContext(entities, chunks, rels, include)

	for _, want := range []string{
		"## Entities",
		"### Company",
		"### Person",
		"- Acme Corp (confidence: 0.90)",
		"  - industry: robotics",
		"## Relationships",
		"- Acme Corp -[ACQUIRED]-> Beta LLC",
		"## Source Passages",
		"section: Acquisitions",
		"page 2",
		"Acme acquired Beta in 2023.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// Chunks ordered by index regardless of score.
	if strings.Index(out, "Background on Acme.") > strings.Index(out, "Acme acquired Beta") {
		t.Error("chunks must be ordered by (document, index)")
	}
	// Entity types sorted.
	if strings.Index(out, "### Company") > strings.Index(out, "### Person") {
		t.Error("entity type sections must be sorted")
	}
}

func TestFormatContextMetadataToggles(t *testing.T) {
	t.Parallel()

	entities, chunks, rels := formatterFixture()
	out := FormatContext(entities, chunks, rels, strategy.IncludeMetadataConfig{})

	if strings.Contains(out, "section:") || strings.Contains(out, "page ") {
		t.Error("disabled metadata must not be rendered")
	}

	out = FormatContext(entities, chunks, rels, strategy.IncludeMetadataConfig{TemporalRefs: true})
	if !strings.Contains(out, "dates: 2023") {
		t.Error("enabled temporal refs must be rendered")
	}
}

func TestFormatContextDeterministic(t *testing.T) {
	t.Parallel()

	entities, chunks, rels := formatterFixture()
	include := strategy.IncludeMetadataConfig{SectionHeading: true, PageNumber: true, TemporalRefs: true}

	first := FormatContext(entities, chunks, rels, include)
	for range 20 {
		if again := FormatContext(entities, chunks, rels, include); again != first {
			t.Fatal("formatter output must be byte-identical across calls")
		}
	}
}

func TestFormatContextEmpty(t *testing.T) {
	t.Parallel()

	if out := FormatContext(nil, nil, nil, strategy.IncludeMetadataConfig{}); out != "" {
		t.Errorf("empty inputs must produce empty context, got %q", out)
	}
}
