package main

import (
	"errors"
	"testing"
)

func testEngine(t *testing.T, depth, width, size int) *Engine {
	t.Helper()
	cfg := DefaultEngineConfig()
	cfg.Depth = depth
	cfg.CandidateWidth = width
	cfg.BoardSize = size
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
	return engine
}

func TestSelectBestMoveEmptyGridPicksCenter(t *testing.T) {
	engine := testEngine(t, 1, 10, 19)
	move, err := engine.SelectBestMove(NewGrid(19), CellBlack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if move.X != 9 || move.Y != 9 {
		t.Fatalf("expected center (9,9), got (%d,%d)", move.X, move.Y)
	}
}

func TestSearchCompletesSixImmediately(t *testing.T) {
	grid := NewGrid(19)
	for x := 3; x <= 7; x++ {
		grid.Place(x, 5, CellBlack)
	}
	grid.Place(10, 10, CellWhite)
	grid.Place(11, 10, CellWhite)
	engine := testEngine(t, 5, 10, 19)
	result, err := engine.Search(grid, CellBlack, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Immediate {
		t.Fatalf("expected an immediate answer for a winning cell")
	}
	if result.Move.Y != 5 || (result.Move.X != 2 && result.Move.X != 8) {
		t.Fatalf("expected (2,5) or (8,5), got (%d,%d)", result.Move.X, result.Move.Y)
	}
	if result.Stats.Nodes != 0 {
		t.Fatalf("expected no tree search, got %d nodes", result.Stats.Nodes)
	}
}

func TestSearchBlocksLiveFour(t *testing.T) {
	grid := NewGrid(19)
	for x := 7; x <= 10; x++ {
		grid.Place(x, 9, CellWhite)
	}
	grid.Place(9, 12, CellBlack)
	engine := testEngine(t, 2, 10, 19)
	move, err := engine.SelectBestMove(grid, CellBlack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if move.Y != 9 || (move.X != 6 && move.X != 11) {
		t.Fatalf("expected black to block at (6,9) or (11,9), got (%d,%d)", move.X, move.Y)
	}
}

func TestSearchLeavesGridUntouched(t *testing.T) {
	grid := midGameGrid()
	before := grid.Clone()
	engine := testEngine(t, 3, 6, 19)
	for _, color := range []Cell{CellBlack, CellWhite} {
		move, err := engine.SelectBestMove(grid, color)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !grid.Equal(before) {
			t.Fatalf("search for %s modified the grid or its bounds", color)
		}
		if grid.At(move.X, move.Y) != CellEmpty {
			t.Fatalf("search for %s returned occupied cell (%d,%d)", color, move.X, move.Y)
		}
	}
}

func TestSearchFullGridHasNoMove(t *testing.T) {
	grid := NewGrid(6)
	for x := 0; x < 6; x++ {
		for y := 0; y < 6; y++ {
			grid.Place(x, y, Cell(1+(x/2+y)%2))
		}
	}
	engine := testEngine(t, 2, 4, 6)
	if _, err := engine.SelectBestMove(grid, CellWhite); !errors.Is(err, ErrNoLegalMove) {
		t.Fatalf("expected ErrNoLegalMove, got %v", err)
	}
}

func TestSearchRejectsMismatchedGrid(t *testing.T) {
	engine := testEngine(t, 1, 4, 19)
	if _, err := engine.SelectBestMove(NewGrid(15), CellBlack); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSearchPanicsOnEmptyColor(t *testing.T) {
	engine := testEngine(t, 1, 4, 9)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty color")
		}
	}()
	_, _ = engine.SelectBestMove(NewGrid(9), CellEmpty)
}

func TestSearchReportsEveryRootCandidate(t *testing.T) {
	grid := midGameGrid()
	engine := testEngine(t, 2, 5, 19)
	seen := []RootProgress{}
	result, err := engine.Search(grid, CellWhite, func(p RootProgress) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != result.Stats.RootCandidates || len(seen) != 5 {
		t.Fatalf("expected 5 root updates, got %d (root=%d)", len(seen), result.Stats.RootCandidates)
	}
	last := seen[len(seen)-1]
	if last.Best.Move() != result.Move || last.BestValue != result.Value {
		t.Fatalf("expected final update to match result, got %+v vs %+v", last, result)
	}
}

func TestNewEngineValidatesConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.CandidateWidth = 0
	if _, err := NewEngine(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDescendStopsAtCompletedSix(t *testing.T) {
	grid := NewGrid(19)
	for x := 5; x <= 9; x++ {
		grid.Place(x, 9, CellBlack)
	}
	grid.Place(4, 9, CellWhite)
	before := grid.Clone()
	engine := testEngine(t, 4, 10, 19)

	won := grid.Clone()
	won.Place(10, 9, CellBlack)
	want := EvaluateGrid(won, CellBlack, engine.Config().Shapes)

	ctx := engine.newContext(grid, CellBlack, nil)
	got := ctx.descend(Candidate{X: 10, Y: 9}, CellBlack, 4, -scoreInfinity, scoreInfinity)
	if got != want {
		t.Fatalf("expected the static value of the finished line %d, got %d", want, got)
	}
	if ctx.stats.Nodes != 0 || ctx.stats.Wins != 1 || ctx.stats.Leaves != 1 {
		t.Fatalf("expected a single terminal leaf, got %+v", *ctx.stats)
	}
	if !grid.Equal(before) {
		t.Fatalf("descend left its stone on the grid")
	}

	ctx = engine.newContext(grid, CellBlack, nil)
	ctx.descend(Candidate{X: 10, Y: 10}, CellBlack, 2, -scoreInfinity, scoreInfinity)
	if ctx.stats.Nodes == 0 || ctx.stats.Wins != 0 {
		t.Fatalf("expected a quiet move to be searched further, got %+v", *ctx.stats)
	}
}
