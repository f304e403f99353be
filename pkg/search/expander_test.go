package search

import (
	"context"
	"errors"
	"testing"

	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

func windowStore(windows map[string][]*types.Chunk) *mockGraphStore {
	return &mockGraphStore{
		chunkWindowFn: func(ctx context.Context, chunkID string, before, after int) ([]*types.Chunk, error) {
			return windows[chunkID], nil
		},
	}
}

func TestExpandScoreDecay(t *testing.T) {
	t.Parallel()

	store := windowStore(map[string][]*types.Chunk{
		"c1": {
			{ID: "c0", DocumentID: "d1", ChunkIndex: 0},
			{ID: "c2", DocumentID: "d1", ChunkIndex: 2},
		},
	})
	direct := []types.ScoredChunk{
		{Chunk: &types.Chunk{ID: "c1", DocumentID: "d1", ChunkIndex: 1}, Score: 1.0},
	}
	cfg := strategy.ExpandNeighborsConfig{Enabled: true, Before: 1, After: 1}

	out := Expand(context.Background(), store, direct, cfg, nil)
	if len(out) != 3 {
		t.Fatalf("got %d chunks, want 3", len(out))
	}
	if out[0].Chunk.ID != "c1" || out[0].Expanded {
		t.Errorf("direct match must stay first, got %s", out[0].Chunk.ID)
	}
	for _, sc := range out[1:] {
		if !sc.Expanded {
			t.Errorf("neighbor %s must be marked expanded", sc.Chunk.ID)
		}
		if sc.Score != 0.7 {
			t.Errorf("inherited score = %v, want 0.7", sc.Score)
		}
	}
}

func TestExpandScoreFloor(t *testing.T) {
	t.Parallel()

	store := windowStore(map[string][]*types.Chunk{
		"c1": {{ID: "c2", DocumentID: "d1", ChunkIndex: 2}},
	})
	direct := []types.ScoredChunk{
		{Chunk: &types.Chunk{ID: "c1", DocumentID: "d1", ChunkIndex: 1}, Score: 0.1},
	}
	cfg := strategy.ExpandNeighborsConfig{Enabled: true, Before: 0, After: 1}

	out := Expand(context.Background(), store, direct, cfg, nil)
	if len(out) != 2 {
		t.Fatalf("got %d chunks, want 2", len(out))
	}
	if out[1].Score != 0.05 {
		t.Errorf("inherited score = %v, want floor 0.05", out[1].Score)
	}
}

func TestExpandDirectMatchWins(t *testing.T) {
	t.Parallel()

	// c2 is both a direct match and a neighbor of c1.
	store := windowStore(map[string][]*types.Chunk{
		"c1": {{ID: "c2", DocumentID: "d1", ChunkIndex: 2}},
		"c2": {{ID: "c1", DocumentID: "d1", ChunkIndex: 1}},
	})
	direct := []types.ScoredChunk{
		{Chunk: &types.Chunk{ID: "c1", DocumentID: "d1", ChunkIndex: 1}, Score: 1.0},
		{Chunk: &types.Chunk{ID: "c2", DocumentID: "d1", ChunkIndex: 2}, Score: 0.4},
	}
	cfg := strategy.ExpandNeighborsConfig{Enabled: true, Before: 1, After: 1}

	out := Expand(context.Background(), store, direct, cfg, nil)
	if len(out) != 2 {
		t.Fatalf("got %d chunks, want 2 (no duplicates)", len(out))
	}
	for _, sc := range out {
		if sc.Chunk.ID == "c2" {
			if sc.Expanded {
				t.Error("direct match must not be demoted to expansion")
			}
			if sc.Score != 0.4 {
				t.Errorf("direct score = %v, want 0.4", sc.Score)
			}
		}
	}
}

func TestExpandBestOriginWinsForSharedNeighbor(t *testing.T) {
	t.Parallel()

	shared := &types.Chunk{ID: "n", DocumentID: "d1", ChunkIndex: 5}
	store := windowStore(map[string][]*types.Chunk{
		"c1": {shared},
		"c2": {shared},
	})
	direct := []types.ScoredChunk{
		{Chunk: &types.Chunk{ID: "c1", DocumentID: "d1", ChunkIndex: 4}, Score: 1.0},
		{Chunk: &types.Chunk{ID: "c2", DocumentID: "d1", ChunkIndex: 6}, Score: 0.5},
	}
	cfg := strategy.ExpandNeighborsConfig{Enabled: true, Before: 1, After: 1}

	out := Expand(context.Background(), store, direct, cfg, nil)
	if len(out) != 3 {
		t.Fatalf("got %d chunks, want 3", len(out))
	}
	for _, sc := range out {
		if sc.Chunk.ID == "n" && sc.Score != 0.7 {
			t.Errorf("shared neighbor score = %v, want best origin's 0.7", sc.Score)
		}
	}
}

func TestExpandDisabledOrWindowless(t *testing.T) {
	t.Parallel()

	direct := []types.ScoredChunk{
		{Chunk: &types.Chunk{ID: "c1", DocumentID: "d1", ChunkIndex: 1}, Score: 1.0},
	}
	store := windowStore(nil)

	out := Expand(context.Background(), store, direct, strategy.ExpandNeighborsConfig{}, nil)
	if len(out) != 1 {
		t.Errorf("disabled expansion must pass input through, got %d", len(out))
	}

	out = Expand(context.Background(), store, direct, strategy.ExpandNeighborsConfig{Enabled: true}, nil)
	if len(out) != 1 {
		t.Errorf("zero window must pass input through, got %d", len(out))
	}
}

func TestExpandSurvivesWindowErrors(t *testing.T) {
	t.Parallel()

	store := &mockGraphStore{
		chunkWindowFn: func(ctx context.Context, chunkID string, before, after int) ([]*types.Chunk, error) {
			if chunkID == "c1" {
				return nil, errors.New("window lookup failed")
			}
			return []*types.Chunk{{ID: "n", DocumentID: "d1", ChunkIndex: 9}}, nil
		},
	}
	direct := []types.ScoredChunk{
		{Chunk: &types.Chunk{ID: "c1", DocumentID: "d1", ChunkIndex: 1}, Score: 1.0},
		{Chunk: &types.Chunk{ID: "c2", DocumentID: "d1", ChunkIndex: 8}, Score: 0.8},
	}
	cfg := strategy.ExpandNeighborsConfig{Enabled: true, Before: 1, After: 1}

	out := Expand(context.Background(), store, direct, cfg, nil)
	if len(out) != 3 {
		t.Errorf("expansion must continue past a failed window, got %d chunks", len(out))
	}
}
