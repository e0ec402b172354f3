package main

import "golang.org/x/exp/slices"

// evalWindowMargin is how far past the stone box candidate values are computed.
const evalWindowMargin = 2

type Candidate struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Score int `json:"score"`
}

func (c Candidate) Move() Move {
	return Move{X: c.X, Y: c.Y}
}

// valueMap caches, per cell, what a black and a white stone would be worth
// there. Only the cells of window are meaningful; everything else counts as 0.
type valueMap struct {
	size   int
	black  []int
	white  []int
	window Bounds
}

func newValueMap(size int) valueMap {
	return valueMap{
		size:   size,
		black:  make([]int, size*size),
		white:  make([]int, size*size),
		window: EmptyBounds(),
	}
}

// refresh recomputes every cell of the margin-expanded stone box.
func (m *valueMap) refresh(grid *Grid, scores ShapeScores) {
	m.window = grid.Bounds().window(grid.Size(), evalWindowMargin)
	for x := m.window.Left; x <= m.window.Right; x++ {
		for y := m.window.Top; y <= m.window.Bottom; y++ {
			idx := y*m.size + x
			if grid.At(x, y) != CellEmpty {
				m.black[idx] = 0
				m.white[idx] = 0
				continue
			}
			m.black[idx] = cellValue(grid, x, y, CellBlack, scores)
			m.white[idx] = cellValue(grid, x, y, CellWhite, scores)
		}
	}
}

func (m *valueMap) at(x, y int) (black, white int) {
	if !m.window.contains(x, y) {
		return 0, 0
	}
	idx := y*m.size + x
	return m.black[idx], m.white[idx]
}

// selectCandidates ranks every empty cell by black + white + static weight
// and keeps the best width of them. Ties keep column-major scan order.
// buf is reused as the backing array.
func selectCandidates(grid *Grid, values *valueMap, static staticTable, width int, buf []Candidate) []Candidate {
	out := buf[:0]
	size := grid.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if grid.At(x, y) != CellEmpty {
				continue
			}
			black, white := values.at(x, y)
			out = append(out, Candidate{X: x, Y: y, Score: black + white + static.At(x, y)})
		}
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	if len(out) > width {
		out = out[:width]
	}
	return out
}
