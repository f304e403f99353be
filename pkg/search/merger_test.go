package search

import (
	"testing"

	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

func testScoring() strategy.ScoringConfig {
	return strategy.ScoringConfig{
		EntityConfidenceMin: 0.5,
		GraphMatchWeight:    1.5,
		TextMatchWeight:     1.0,
		KeywordMatchWeight:  1.0,
		TemporalMatchWeight: 1.0,
	}
}

func chunk(id string) *types.Chunk {
	return &types.Chunk{ID: id, DocumentID: "d1", Text: "text of " + id}
}

func TestMergeCombinesScoresAcrossSignals(t *testing.T) {
	t.Parallel()

	bySignal := map[string][]types.ScoredCandidate{
		types.SignalChunkText: {
			{Kind: types.ChunkCandidate, ID: "c1", RawScore: 1.0, Chunk: chunk("c1")},
		},
		types.SignalKeywordMatch: {
			{Kind: types.ChunkCandidate, ID: "c1", RawScore: 0.5, Chunk: chunk("c1")},
			{Kind: types.ChunkCandidate, ID: "c2", RawScore: 1.0, Chunk: chunk("c2")},
		},
	}

	_, chunks := Merge(bySignal, testScoring())
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	// c1: 1.0*1.0 + 1.0*0.5 = 1.5 beats c2: 1.0*1.0.
	if chunks[0].Chunk.ID != "c1" {
		t.Errorf("top chunk = %s, want c1", chunks[0].Chunk.ID)
	}
	if chunks[0].Score != 1.5 {
		t.Errorf("combined score = %v, want 1.5", chunks[0].Score)
	}
}

func TestMergeAppliesSignalWeights(t *testing.T) {
	t.Parallel()

	acme := &types.Entity{ID: "acme", Type: "Company", Confidence: 0.9}
	bySignal := map[string][]types.ScoredCandidate{
		types.SignalGraphTraversal: {
			{Kind: types.EntityCandidate, ID: "acme", RawScore: 1.0, Entity: acme},
		},
	}

	entities, _ := Merge(bySignal, testScoring())
	if len(entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(entities))
	}
	if entities[0].Score != 1.5 {
		t.Errorf("graph-weighted score = %v, want 1.5", entities[0].Score)
	}
}

func TestMergeHonorsZeroWeight(t *testing.T) {
	t.Parallel()

	// The minimal preset silences text matches with text_match_weight 0;
	// a zero weight must contribute exactly zero, not fall back to 1.
	scoring := testScoring()
	scoring.TextMatchWeight = 0

	bySignal := map[string][]types.ScoredCandidate{
		types.SignalChunkText: {
			{Kind: types.ChunkCandidate, ID: "c1", RawScore: 1.0, Chunk: chunk("c1")},
		},
		types.SignalKeywordMatch: {
			{Kind: types.ChunkCandidate, ID: "c1", RawScore: 0.5, Chunk: chunk("c1")},
		},
	}

	_, chunks := Merge(bySignal, scoring)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	// c1: 0*1.0 + 1.0*0.5 = 0.5.
	if chunks[0].Score != 0.5 {
		t.Errorf("combined score = %v, want 0.5", chunks[0].Score)
	}
}

func TestMergeDropsLowConfidenceEntities(t *testing.T) {
	t.Parallel()

	bySignal := map[string][]types.ScoredCandidate{
		types.SignalGraphTraversal: {
			{Kind: types.EntityCandidate, ID: "weak", RawScore: 1.0,
				Entity: &types.Entity{ID: "weak", Type: "Company", Confidence: 0.2}},
			{Kind: types.EntityCandidate, ID: "strong", RawScore: 1.0,
				Entity: &types.Entity{ID: "strong", Type: "Company", Confidence: 0.8}},
			{Kind: types.EntityCandidate, ID: "unscored", RawScore: 1.0,
				Entity: &types.Entity{ID: "unscored", Type: "Company"}},
		},
	}

	entities, _ := Merge(bySignal, testScoring())
	if len(entities) != 2 {
		t.Fatalf("got %d entities, want 2 (low-confidence dropped)", len(entities))
	}
	for _, se := range entities {
		if se.Entity.ID == "weak" {
			t.Error("entity below the confidence floor must be dropped")
		}
	}
}

func TestMergeTieBreakBySignalPriorityThenID(t *testing.T) {
	t.Parallel()

	bySignal := map[string][]types.ScoredCandidate{
		types.SignalChunkText: {
			{Kind: types.ChunkCandidate, ID: "b", RawScore: 1.0, Chunk: chunk("b")},
		},
		types.SignalTemporalFilter: {
			{Kind: types.ChunkCandidate, ID: "a", RawScore: 1.0, Chunk: chunk("a")},
		},
	}

	_, chunks := Merge(bySignal, testScoring())
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	// Equal scores: text beats temporal despite "a" < "b".
	if chunks[0].Chunk.ID != "b" {
		t.Errorf("tie-break by signal priority failed, top = %s", chunks[0].Chunk.ID)
	}

	sameSignal := map[string][]types.ScoredCandidate{
		types.SignalChunkText: {
			{Kind: types.ChunkCandidate, ID: "z", RawScore: 1.0, Chunk: chunk("z")},
			{Kind: types.ChunkCandidate, ID: "a", RawScore: 1.0, Chunk: chunk("a")},
		},
	}
	_, chunks = Merge(sameSignal, testScoring())
	if chunks[0].Chunk.ID != "a" {
		t.Errorf("tie-break by id failed, top = %s", chunks[0].Chunk.ID)
	}
}

func TestMergeDeterministic(t *testing.T) {
	t.Parallel()

	bySignal := map[string][]types.ScoredCandidate{
		types.SignalChunkText: {
			{Kind: types.ChunkCandidate, ID: "c1", RawScore: 1.0, Chunk: chunk("c1")},
			{Kind: types.ChunkCandidate, ID: "c2", RawScore: 1.0, Chunk: chunk("c2")},
			{Kind: types.ChunkCandidate, ID: "c3", RawScore: 0.5, Chunk: chunk("c3")},
		},
		types.SignalKeywordMatch: {
			{Kind: types.ChunkCandidate, ID: "c2", RawScore: 0.5, Chunk: chunk("c2")},
		},
	}

	_, first := Merge(bySignal, testScoring())
	for range 20 {
		_, again := Merge(bySignal, testScoring())
		for i := range first {
			if first[i].Chunk.ID != again[i].Chunk.ID {
				t.Fatalf("merge order not deterministic at %d: %s vs %s",
					i, first[i].Chunk.ID, again[i].Chunk.ID)
			}
		}
	}
}
