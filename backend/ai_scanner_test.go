package main

import "testing"

func TestCellValueLiveThree(t *testing.T) {
	grid := NewGrid(19)
	grid.Place(8, 9, CellBlack)
	grid.Place(10, 9, CellBlack)
	scores := DefaultShapeScores()
	if got := cellValue(grid, 9, 9, CellBlack, scores); got != scores.LiveThree {
		t.Fatalf("expected live three (%d), got %d", scores.LiveThree, got)
	}
	if got := cellValue(grid, 9, 9, CellWhite, scores); got != 0 {
		t.Fatalf("expected white to gain nothing between black stones, got %d", got)
	}
}

func TestCellValueSleepingThreeAtEdge(t *testing.T) {
	grid := NewGrid(19)
	grid.Place(1, 0, CellBlack)
	grid.Place(2, 0, CellBlack)
	scores := DefaultShapeScores()
	if got := cellValue(grid, 0, 0, CellBlack, scores); got != scores.SleepingThree {
		t.Fatalf("expected sleeping three (%d), got %d", scores.SleepingThree, got)
	}
}

func TestCellValueBlurredThree(t *testing.T) {
	// Row 9: W . o B . B . . W with o the probed cell.
	grid := NewGrid(19)
	grid.Place(7, 9, CellWhite)
	grid.Place(10, 9, CellBlack)
	grid.Place(12, 9, CellBlack)
	grid.Place(15, 9, CellWhite)
	scores := DefaultShapeScores()
	if got := cellValue(grid, 9, 9, CellBlack, scores); got != scores.BlurredThree {
		t.Fatalf("expected blurred three (%d), got %d", scores.BlurredThree, got)
	}
}

func TestScanAxisPrunesBlockedPatterns(t *testing.T) {
	// B B o B between white walls leaves five cells: no room for six.
	grid := NewGrid(19)
	grid.Place(3, 4, CellWhite)
	grid.Place(4, 4, CellBlack)
	grid.Place(5, 4, CellBlack)
	grid.Place(7, 4, CellBlack)
	grid.Place(9, 4, CellWhite)
	if got := scanAxis(grid, 6, 4, axes[0], CellBlack); got != ShapeNone {
		t.Fatalf("expected no shape inside a five-cell window, got %s", got)
	}
}

func TestCellValuePanicsOnEmptyColor(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty color")
		}
	}()
	cellValue(NewGrid(9), 4, 4, CellEmpty, DefaultShapeScores())
}

func TestCompletesSix(t *testing.T) {
	grid := NewGrid(19)
	for x := 3; x < 8; x++ {
		grid.Place(x, 5, CellBlack)
	}
	if completesSix(grid, 7, 5) {
		t.Fatalf("five stones must not count as six")
	}
	grid.Place(8, 5, CellBlack)
	if !completesSix(grid, 8, 5) || !completesSix(grid, 3, 5) {
		t.Fatalf("expected six in a row to be detected from any stone")
	}
	if completesSix(grid, 0, 0) {
		t.Fatalf("an empty cell never completes six")
	}
}
