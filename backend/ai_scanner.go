package main

// axes are the four lines through a cell: row, column, main diagonal and
// anti-diagonal. Each is walked in both directions.
var axes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// scanSide walks from (x,y) in direction (dx,dy), not counting the origin.
// It returns the own stones directly adjacent plus the gap structure after them.
func scanSide(grid *Grid, x, y, dx, dy int, color Cell) (int, sideScan) {
	run := 0
	side := sideScan{}
	cx := x + dx
	cy := y + dy
	for grid.InBounds(cx, cy) && grid.At(cx, cy) == color {
		run++
		cx += dx
		cy += dy
	}
	for grid.InBounds(cx, cy) && grid.At(cx, cy) == CellEmpty {
		side.gap++
		cx += dx
		cy += dy
	}
	if side.gap != 1 {
		return run, side
	}
	for grid.InBounds(cx, cy) && grid.At(cx, cy) == color {
		side.run2++
		cx += dx
		cy += dy
	}
	for grid.InBounds(cx, cy) && grid.At(cx, cy) == CellEmpty {
		side.gap2++
		cx += dx
		cy += dy
	}
	return run, side
}

// scanAxis classifies what a stone of color at (x,y) would form along one axis.
func scanAxis(grid *Grid, x, y int, axis [2]int, color Cell) Shape {
	dx, dy := axis[0], axis[1]
	runA, a := scanSide(grid, x, y, dx, dy, color)
	runB, b := scanSide(grid, x, y, -dx, -dy, color)
	run := 1 + runA + runB
	if reach(run, a, b) < winLength {
		return ShapeNone
	}
	return classifyShape(run, a, b)
}

// cellValue sums the two-level shape scores of all four axes for a stone of
// color placed at the empty cell (x,y).
func cellValue(grid *Grid, x, y int, color Cell, scores ShapeScores) int {
	mustStone(color)
	value := 0
	for _, axis := range axes {
		value += scores.Score(scanAxis(grid, x, y, axis, color))
	}
	return value
}

// completesSix reports whether the stone at (x,y) sits in an unbroken line of
// at least six of its own color.
func completesSix(grid *Grid, x, y int) bool {
	color := grid.At(x, y)
	if color == CellEmpty {
		return false
	}
	for _, axis := range axes {
		count := 1
		count += countDirection(grid, x, y, axis[0], axis[1], color)
		count += countDirection(grid, x, y, -axis[0], -axis[1], color)
		if count >= winLength {
			return true
		}
	}
	return false
}

func countDirection(grid *Grid, x, y, dx, dy int, color Cell) int {
	count := 0
	cx := x + dx
	cy := y + dy
	for grid.InBounds(cx, cy) && grid.At(cx, cy) == color {
		count++
		cx += dx
		cy += dy
	}
	return count
}
