// Package search implements the retrieval pipeline: four independent
// signal searchers fanned out concurrently, score-weighted merging and
// deduplication, neighbor expansion along the chunk chain, result
// limits, and deterministic context formatting.
package search

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// signalTimeout bounds each searcher. A slow signal is cut off and
// reported in diagnostics; the others still contribute.
const signalTimeout = 10 * time.Second

// overfetch is how many times the chunk limit each signal may return,
// so the merger has enough candidates to rank before limits apply.
const overfetch = 3

// uncappedFetchLimit bounds store queries when max_chunks is 0 (no
// cap). The enforcer skips the chunk cap in that case, so the signals
// must not translate 0 into a zero-row LIMIT.
const uncappedFetchLimit = 100

// chunkFetchLimit is the per-signal store query limit derived from the
// retrieval limits.
func chunkFetchLimit(limits strategy.LimitsConfig) int {
	if limits.MaxChunks <= 0 {
		return uncappedFetchLimit
	}
	return limits.MaxChunks * overfetch
}

// Searcher is one retrieval signal.
type Searcher interface {
	Name() string
	// Enabled reports whether the strategy turns this signal on.
	Enabled(snap strategy.Snapshot) bool
	Search(ctx context.Context, intent *types.QueryIntent, snap strategy.Snapshot) ([]types.ScoredCandidate, error)
}

// Engine fans the enabled searchers out concurrently and collects their
// candidates. A failed or timed-out searcher contributes nothing and is
// excluded from the methods-used list; it never fails the query.
type Engine struct {
	searchers []Searcher
	logger    *slog.Logger
}

// NewEngine builds an engine over the standard four signals.
func NewEngine(store driver.GraphStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		searchers: []Searcher{
			&GraphTraversalSearcher{Store: store},
			&ChunkTextSearcher{Store: store},
			&KeywordMatchSearcher{Store: store},
			&TemporalFilterSearcher{Store: store},
		},
		logger: logger,
	}
}

// NewEngineWith builds an engine over explicit searchers, for tests and
// custom signal sets.
func NewEngineWith(logger *slog.Logger, searchers ...Searcher) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{searchers: searchers, logger: logger}
}

// signalResult carries one searcher's outcome across the merge barrier.
type signalResult struct {
	name       string
	candidates []types.ScoredCandidate
	duration   time.Duration
	err        error
}

// Run executes the enabled searchers and returns their candidates by
// signal name, the names of signals that completed without error, and
// per-signal diagnostics.
func (e *Engine) Run(ctx context.Context, intent *types.QueryIntent, snap strategy.Snapshot) (map[string][]types.ScoredCandidate, []string, []types.SignalReport) {
	var enabled []Searcher
	for _, s := range e.searchers {
		if s.Enabled(snap) {
			enabled = append(enabled, s)
		}
	}

	results := make(chan signalResult, len(enabled))
	var wg sync.WaitGroup
	for _, s := range enabled {
		wg.Add(1)
		go func(s Searcher) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, signalTimeout)
			defer cancel()

			start := time.Now()
			candidates, err := s.Search(sctx, intent, snap)
			results <- signalResult{
				name:       s.Name(),
				candidates: candidates,
				duration:   time.Since(start),
				err:        err,
			}
		}(s)
	}
	wg.Wait()
	close(results)

	bySignal := make(map[string][]types.ScoredCandidate, len(enabled))
	var used []string
	var reports []types.SignalReport
	for res := range results {
		report := types.SignalReport{
			Name:       res.name,
			Candidates: len(res.candidates),
			Duration:   res.duration,
		}
		if res.err != nil {
			report.Err = res.err.Error()
			e.logger.Error("search signal failed",
				slog.String("signal", res.name),
				slog.String("error", res.err.Error()))
		} else {
			bySignal[res.name] = res.candidates
			used = append(used, res.name)
		}
		reports = append(reports, report)
	}

	// Deterministic order regardless of goroutine completion.
	sort.Slice(used, func(i, j int) bool {
		return types.SignalPriority(used[i]) < types.SignalPriority(used[j])
	})
	sort.Slice(reports, func(i, j int) bool {
		return types.SignalPriority(reports[i].Name) < types.SignalPriority(reports[j].Name)
	})
	return bySignal, used, reports
}
