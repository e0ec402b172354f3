package main

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoLegalMove = errors.New("no legal move: grid is full")

// scoreInfinity bounds every reachable evaluation.
const scoreInfinity = 1 << 40

// Engine picks moves by fixed-depth alpha-beta over a pruned candidate list.
// It holds only immutable tuning and tables, so one Engine may serve many
// grids; each grid must be searched by one call at a time.
type Engine struct {
	config EngineConfig
	static staticTable
}

// RootObserver receives the value of each root candidate as it is resolved.
type RootObserver func(RootProgress)

type RootProgress struct {
	Index     int       `json:"index"`
	Total     int       `json:"total"`
	Candidate Candidate `json:"candidate"`
	Value     int       `json:"value"`
	Best      Candidate `json:"best"`
	BestValue int       `json:"best_value"`
}

type SearchResult struct {
	Move      Move        `json:"move"`
	Value     int         `json:"value"`
	Immediate bool        `json:"immediate"`
	Stats     SearchStats `json:"stats"`
}

func NewEngine(config EngineConfig) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{config: config, static: newStaticTable(config.BoardSize)}, nil
}

func (e *Engine) Config() EngineConfig {
	return e.config
}

// searchContext is the per-call state: value map, one candidate buffer per
// ply, and counters. It is never shared between calls.
type searchContext struct {
	engine   *Engine
	grid     *Grid
	color    Cell
	values   valueMap
	buffers  [][]Candidate
	stats    *SearchStats
	observer RootObserver
}

func (e *Engine) newContext(grid *Grid, color Cell, observer RootObserver) *searchContext {
	size := grid.Size()
	buffers := make([][]Candidate, e.config.Depth+1)
	for i := range buffers {
		buffers[i] = make([]Candidate, 0, size*size)
	}
	return &searchContext{
		engine:   e,
		grid:     grid,
		color:    color,
		values:   newValueMap(size),
		buffers:  buffers,
		stats:    &SearchStats{Start: time.Now()},
		observer: observer,
	}
}

// SelectBestMove returns the cell color should play next. The grid and its
// bounds are left exactly as they were.
func (e *Engine) SelectBestMove(grid *Grid, color Cell) (Move, error) {
	result, err := e.Search(grid, color, nil)
	if err != nil {
		return Move{}, err
	}
	return result.Move, nil
}

func (e *Engine) Search(grid *Grid, color Cell, observer RootObserver) (SearchResult, error) {
	mustStone(color)
	if grid.Size() != e.config.BoardSize {
		return SearchResult{}, fmt.Errorf("%w: grid size %d, engine built for %d", ErrInvalidConfig, grid.Size(), e.config.BoardSize)
	}
	ctx := e.newContext(grid, color, observer)
	result, err := ctx.searchRoot()
	ctx.stats.Elapsed = time.Since(ctx.stats.Start)
	result.Stats = *ctx.stats
	if e.config.LogSearchStats {
		logSearchStats("select", ctx.stats, e.config)
	}
	return result, err
}

func (ctx *searchContext) searchRoot() (SearchResult, error) {
	candidates := ctx.candidates(0)
	if len(candidates) == 0 {
		return SearchResult{}, ErrNoLegalMove
	}
	ctx.stats.RootCandidates = len(candidates)
	if candidates[0].Score >= ctx.engine.config.Shapes.ConnectSix {
		return SearchResult{Move: candidates[0].Move(), Value: candidates[0].Score, Immediate: true}, nil
	}

	depth := ctx.engine.config.Depth
	best := candidates[0]
	bestValue := -scoreInfinity
	for i, cand := range candidates {
		value := ctx.descend(cand, ctx.color, depth, -scoreInfinity, scoreInfinity)
		if value > bestValue {
			bestValue = value
			best = cand
		}
		if ctx.observer != nil {
			ctx.observer(RootProgress{
				Index:     i,
				Total:     len(candidates),
				Candidate: cand,
				Value:     value,
				Best:      best,
				BestValue: bestValue,
			})
		}
	}
	return SearchResult{Move: best.Move(), Value: bestValue}, nil
}

// descend probes cand for mover, searches the reply ply at depth-1 and undoes
// the probe on the way out.
func (ctx *searchContext) descend(cand Candidate, mover Cell, depth, alpha, beta int) int {
	p := ctx.grid.probe(cand.X, cand.Y, mover)
	defer p.undo()
	if completesSix(ctx.grid, cand.X, cand.Y) {
		ctx.stats.Wins++
		return ctx.evaluate()
	}
	if mover == ctx.color {
		return ctx.minValue(depth-1, alpha, beta)
	}
	return ctx.maxValue(depth-1, alpha, beta)
}

// maxValue is a ply where the engine's color moves.
func (ctx *searchContext) maxValue(depth, alpha, beta int) int {
	if depth == 0 {
		return ctx.evaluate()
	}
	ctx.stats.Nodes++
	candidates := ctx.candidates(ctx.ply(depth))
	if len(candidates) == 0 {
		return ctx.evaluate()
	}
	for _, cand := range candidates {
		value := ctx.descend(cand, ctx.color, depth, alpha, beta)
		if value > alpha {
			alpha = value
			if alpha >= beta {
				ctx.stats.Cutoffs++
				return beta
			}
		}
	}
	return alpha
}

// minValue is a ply where the opponent moves.
func (ctx *searchContext) minValue(depth, alpha, beta int) int {
	if depth == 0 {
		return ctx.evaluate()
	}
	ctx.stats.Nodes++
	candidates := ctx.candidates(ctx.ply(depth))
	if len(candidates) == 0 {
		return ctx.evaluate()
	}
	opponent := ctx.color.opponent()
	for _, cand := range candidates {
		value := ctx.descend(cand, opponent, depth, alpha, beta)
		if value < beta {
			beta = value
			if alpha >= beta {
				ctx.stats.Cutoffs++
				return alpha
			}
		}
	}
	return beta
}

func (ctx *searchContext) ply(depth int) int {
	return ctx.engine.config.Depth - depth
}

func (ctx *searchContext) candidates(ply int) []Candidate {
	ctx.values.refresh(ctx.grid, ctx.engine.config.Shapes)
	list := selectCandidates(ctx.grid, &ctx.values, ctx.engine.static, ctx.engine.config.CandidateWidth, ctx.buffers[ply])
	ctx.buffers[ply] = list
	ctx.stats.CandidateCount += int64(len(list))
	return list
}

func (ctx *searchContext) evaluate() int {
	ctx.stats.Leaves++
	return EvaluateGrid(ctx.grid, ctx.color, ctx.engine.config.Shapes)
}

type SearchStats struct {
	Nodes          int64         `json:"nodes"`
	Leaves         int64         `json:"leaves"`
	Cutoffs        int64         `json:"cutoffs"`
	Wins           int64         `json:"wins"`
	CandidateCount int64         `json:"candidate_count"`
	RootCandidates int           `json:"root_candidates"`
	Start          time.Time     `json:"-"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}
