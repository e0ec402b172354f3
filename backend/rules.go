package main

import "fmt"

type Rules struct {
	settings GameSettings
}

func NewRules(settings GameSettings) Rules {
	return Rules{settings: settings}
}

func (r Rules) IsLegal(state GameState, move Move) error {
	if !move.IsValid(r.settings.BoardSize) {
		return fmt.Errorf("%w: (%d,%d) out of bounds", ErrIllegalMove, move.X, move.Y)
	}
	if !state.Grid.IsEmpty(move.X, move.Y) {
		return fmt.Errorf("%w: (%d,%d) occupied", ErrIllegalMove, move.X, move.Y)
	}
	return nil
}

func (r Rules) IsWin(grid *Grid, lastMove Move) bool {
	if !lastMove.IsValid(grid.Size()) {
		return false
	}
	return completesSix(grid, lastMove.X, lastMove.Y)
}

func (r Rules) IsDraw(grid *Grid) bool {
	return grid.CountEmpty() == 0
}

// PlayerForStone returns who places the stone with zero-based index k.
// Black opens with FirstTurnStones, then sides alternate StonesPerTurn each.
func (r Rules) PlayerForStone(k int) PlayerColor {
	first := r.settings.FirstTurnStones
	per := r.settings.StonesPerTurn
	if k < first {
		return PlayerBlack
	}
	if per <= 0 {
		per = 1
	}
	if ((k-first)/per)%2 == 0 {
		return PlayerWhite
	}
	return PlayerBlack
}

// StonesLeftInTurn counts the stones the side placing stone k still has to
// place in the same turn, k included.
func (r Rules) StonesLeftInTurn(k int) int {
	player := r.PlayerForStone(k)
	left := 0
	for r.PlayerForStone(k+left) == player {
		left++
	}
	return left
}

func (r Rules) FindWinningLine(grid *Grid, lastMove Move) ([]Move, bool) {
	if !r.IsWin(grid, lastMove) {
		return nil, false
	}
	for _, axis := range axes {
		line := r.collectLine(grid, lastMove, axis[0], axis[1])
		if len(line) >= winLength {
			return line, true
		}
	}
	return nil, false
}

func (r Rules) collectLine(grid *Grid, start Move, dx, dy int) []Move {
	line := []Move{}
	target := grid.At(start.X, start.Y)
	x := start.X
	y := start.Y
	for grid.InBounds(x-dx, y-dy) && grid.At(x-dx, y-dy) == target {
		x -= dx
		y -= dy
	}
	for grid.InBounds(x, y) && grid.At(x, y) == target {
		line = append(line, Move{X: x, Y: y})
		x += dx
		y += dy
	}
	return line
}

func (r Rules) String() string {
	return fmt.Sprintf("Rules{win=%d, first=%d, per_turn=%d}", winLength, r.settings.FirstTurnStones, r.settings.StonesPerTurn)
}
