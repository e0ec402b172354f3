package main

import "sync"

// minScoredDiagonal is the shortest diagonal the static evaluator looks at.
const minScoredDiagonal = 5

type lineCache struct {
	mu    sync.Mutex
	lines map[int][][]int
}

var cachedLines = &lineCache{lines: make(map[int][][]int)}

func getLinesForSize(size int) [][]int {
	cachedLines.mu.Lock()
	defer cachedLines.mu.Unlock()
	if lines, ok := cachedLines.lines[size]; ok {
		return lines
	}
	lines := buildLines(size)
	cachedLines.lines[size] = lines
	return lines
}

func buildLines(size int) [][]int {
	lines := [][]int{}
	if size <= 0 {
		return lines
	}
	// Rows.
	for y := 0; y < size; y++ {
		line := make([]int, 0, size)
		for x := 0; x < size; x++ {
			line = append(line, y*size+x)
		}
		lines = append(lines, line)
	}
	// Cols.
	for x := 0; x < size; x++ {
		line := make([]int, 0, size)
		for y := 0; y < size; y++ {
			line = append(line, y*size+x)
		}
		lines = append(lines, line)
	}
	// Diagonals (\)
	for x := 0; x < size; x++ {
		line := collectDiag(size, x, 0, 1, 1)
		if len(line) >= minScoredDiagonal {
			lines = append(lines, line)
		}
	}
	for y := 1; y < size; y++ {
		line := collectDiag(size, 0, y, 1, 1)
		if len(line) >= minScoredDiagonal {
			lines = append(lines, line)
		}
	}
	// Anti-diagonals (/)
	for x := 0; x < size; x++ {
		line := collectDiag(size, x, 0, -1, 1)
		if len(line) >= minScoredDiagonal {
			lines = append(lines, line)
		}
	}
	for y := 1; y < size; y++ {
		line := collectDiag(size, size-1, y, -1, 1)
		if len(line) >= minScoredDiagonal {
			lines = append(lines, line)
		}
	}
	return lines
}

func collectDiag(size, startX, startY, dx, dy int) []int {
	line := []int{}
	x := startX
	y := startY
	for x >= 0 && y >= 0 && x < size && y < size {
		line = append(line, y*size+x)
		x += dx
		y += dy
	}
	return line
}

// EvaluateGrid is the leaf evaluation: one-level shape scores of Black minus
// White over every line, from color's point of view.
func EvaluateGrid(grid *Grid, color Cell, scores ShapeScores) int {
	mustStone(color)
	value := 0
	for _, line := range getLinesForSize(grid.Size()) {
		value += evaluateLine(grid.cells, line, CellBlack, scores)
		value -= evaluateLine(grid.cells, line, CellWhite, scores)
	}
	if color == CellWhite {
		return -value
	}
	return value
}

// evaluateLine scores every run of color along one line. Open space on either
// end counts empty cells and further own stones, up to the first opponent
// stone or the end of the line.
func evaluateLine(cells []Cell, line []int, color Cell, scores ShapeScores) int {
	value := 0
	n := len(line)
	for i := 0; i < n; i++ {
		if cells[line[i]] != color {
			continue
		}
		begin := i
		end := i
		for end+1 < n && cells[line[end+1]] == color {
			end++
		}
		i = end
		run := end - begin + 1
		if run < 2 {
			continue
		}
		spaceA := 0
		for j := begin - 1; j >= 0 && extendable(cells[line[j]], color); j-- {
			spaceA++
		}
		spaceB := 0
		for j := end + 1; j < n && extendable(cells[line[j]], color); j++ {
			spaceB++
		}
		if run+spaceA+spaceB < winLength {
			continue
		}
		value += scores.Score(classifyLineRun(run, spaceA, spaceB))
	}
	return value
}

func extendable(cell, color Cell) bool {
	return cell == CellEmpty || cell == color
}
