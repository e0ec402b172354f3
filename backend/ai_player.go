package main

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// AIPlayer runs engine searches on a worker goroutine so the tick loop never
// blocks on a search. At most one search is in flight per player.
type AIPlayer struct {
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	result     SearchResult
	err        error
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

// ChooseMove searches synchronously on a private copy of grid.
func (a *AIPlayer) ChooseMove(grid *Grid, color Cell, engine *Engine) (SearchResult, error) {
	return engine.Search(grid.Clone(), color, nil)
}

func (a *AIPlayer) StartThinking(grid *Grid, color Cell, engine *Engine, observer RootObserver) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)

	gridCopy := grid.Clone()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		result, err := engine.Search(gridCopy, color, observer)
		a.moveMutex.Lock()
		a.result = result
		a.err = err
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() (SearchResult, error) {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.result, a.err
}

// Wait blocks until the current worker, if any, has finished.
func (a *AIPlayer) Wait() {
	if a.workerDone != nil {
		<-a.workerDone
	}
}

// throttledObserver forwards at most one root update per interval to sink.
// The last candidate of a search is always forwarded.
func throttledObserver(interval time.Duration, sink RootObserver) RootObserver {
	if sink == nil {
		return nil
	}
	var lastPublish time.Time
	return func(progress RootProgress) {
		final := progress.Index == progress.Total-1
		if interval > 0 && !final {
			now := time.Now()
			if !lastPublish.IsZero() && now.Sub(lastPublish) < interval {
				return
			}
			lastPublish = now
		}
		sink(progress)
	}
}

func logSearchStats(tag string, stats *SearchStats, config EngineConfig) {
	if stats == nil {
		return
	}
	elapsed := stats.Elapsed
	if elapsed == 0 && !stats.Start.IsZero() {
		elapsed = time.Since(stats.Start)
	}
	avgBranch := 0.0
	if stats.Nodes > 0 {
		avgBranch = float64(stats.CandidateCount) / float64(stats.Nodes)
	}
	nps := 0.0
	if elapsed > 0 {
		nps = float64(stats.Nodes+stats.Leaves) / elapsed.Seconds()
	}
	cutoffRate := 0.0
	if stats.Nodes > 0 {
		cutoffRate = float64(stats.Cutoffs) * 100.0 / float64(stats.Nodes)
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	log.Info().
		Str("tag", tag).
		Int64("elapsed_ms", elapsed.Milliseconds()).
		Int("depth", config.Depth).
		Int("width", config.CandidateWidth).
		Int64("nodes", stats.Nodes).
		Int64("leaves", stats.Leaves).
		Float64("nps", nps).
		Int64("cutoffs", stats.Cutoffs).
		Float64("cutoff_rate", cutoffRate).
		Int64("wins", stats.Wins).
		Int("root_candidates", stats.RootCandidates).
		Float64("avg_branch", avgBranch).
		Str("mem_heap", formatBytes(mem.HeapAlloc)).
		Str("mem_sys", formatBytes(mem.Sys)).
		Msg("search-stats")
}

func formatBytes(n uint64) string {
	const (
		kb = 1 << (10 * 1)
		mb = 1 << (10 * 2)
		gb = 1 << (10 * 3)
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(gb))
	case n >= mb:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.2f kB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
