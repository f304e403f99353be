package driver

import (
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

func TestGraphTotalsAreSeparateStatements(t *testing.T) {
	t.Parallel()

	for _, q := range []string{countNodesQuery, countRelationshipsQuery} {
		if got := strings.Count(q, "MATCH"); got != 1 {
			t.Errorf("query %q has %d MATCH patterns, want 1", q, got)
		}
	}
	if strings.Contains(countNodesQuery, "[r]") {
		t.Error("node total must not traverse relationships")
	}
}

func TestSafeLabel(t *testing.T) {
	t.Parallel()

	if _, err := safeLabel("Company"); err != nil {
		t.Errorf("safeLabel(Company) = %v", err)
	}
	for _, bad := range []string{"", "Company)", "a b", "x;y", "`z`"} {
		if _, err := safeLabel(bad); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("safeLabel(%q) = %v, want ErrInvalidIdentifier", bad, err)
		}
	}
}

func TestEntityFromNode(t *testing.T) {
	t.Parallel()

	node := dbtype.Node{
		Labels: []string{"Entity", "Company"},
		Props: map[string]any{
			"id":          "acme",
			"entity_type": "Company",
			"confidence":  0.9,
			"name":        "Acme Corp",
			"industry":    "robotics",
		},
	}

	e := entityFromNode(node)
	if e.ID != "acme" || e.Type != "Company" {
		t.Errorf("identity = %s/%s, want Company/acme", e.Type, e.ID)
	}
	if e.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", e.Confidence)
	}
	if e.Properties["name"] != "Acme Corp" || e.Properties["industry"] != "robotics" {
		t.Errorf("Properties = %v", e.Properties)
	}
	if _, leaked := e.Properties["entity_type"]; leaked {
		t.Error("entity_type must not leak into the property bag")
	}
}

func TestChunkFromNode(t *testing.T) {
	t.Parallel()

	node := dbtype.Node{
		Labels: []string{"Chunk"},
		Props: map[string]any{
			"id":              "c1",
			"document_id":     "d1",
			"chunk_index":     int64(3),
			"text":            "hello world",
			"page_number":     int64(2),
			"section_heading": "Overview",
			"temporal_refs":   []any{"2023", "last year"},
			"key_terms":       []any{"merger"},
			"word_count":      int64(2),
		},
	}

	c := chunkFromNode(node)
	if c.ID != "c1" || c.DocumentID != "d1" || c.ChunkIndex != 3 {
		t.Errorf("identity = %s/%s/%d", c.DocumentID, c.ID, c.ChunkIndex)
	}
	if c.PageNumber == nil || *c.PageNumber != 2 {
		t.Errorf("PageNumber = %v, want 2", c.PageNumber)
	}
	if c.SectionHeading == nil || *c.SectionHeading != "Overview" {
		t.Errorf("SectionHeading = %v", c.SectionHeading)
	}
	if len(c.TemporalRefs) != 2 || c.TemporalRefs[0] != "2023" {
		t.Errorf("TemporalRefs = %v", c.TemporalRefs)
	}
	if c.WordCount != 2 {
		t.Errorf("WordCount = %d", c.WordCount)
	}
}

func TestChunkFromNodeOmitsAbsentMetadata(t *testing.T) {
	t.Parallel()

	node := dbtype.Node{
		Labels: []string{"Chunk"},
		Props:  map[string]any{"id": "c1", "document_id": "d1", "chunk_index": int64(0)},
	}
	c := chunkFromNode(node)
	if c.PageNumber != nil || c.SectionHeading != nil {
		t.Error("absent metadata must stay nil")
	}
	if c.TemporalRefs != nil || c.KeyTerms != nil {
		t.Error("absent lists must stay nil")
	}
}

func TestAsHelpers(t *testing.T) {
	t.Parallel()

	if asInt(int64(7)) != 7 || asInt(7) != 7 || asInt(7.0) != 7 || asInt("x") != 0 {
		t.Error("asInt conversions failed")
	}
	if got := asStrings([]any{"a", 1, "b"}); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("asStrings = %v", got)
	}
	if asStrings("not a list") != nil {
		t.Error("asStrings on non-list must be nil")
	}
}
