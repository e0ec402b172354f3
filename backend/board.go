package main

import "fmt"

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

// Bounds is the smallest rectangle holding every stone on the grid.
// Left > Right marks a grid with no stones.
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func EmptyBounds() Bounds {
	return Bounds{Left: 0, Top: 0, Right: -1, Bottom: -1}
}

func (b Bounds) IsEmpty() bool {
	return b.Left > b.Right || b.Top > b.Bottom
}

func (b Bounds) include(x, y int) Bounds {
	if b.IsEmpty() {
		return Bounds{Left: x, Top: y, Right: x, Bottom: y}
	}
	if x < b.Left {
		b.Left = x
	}
	if y < b.Top {
		b.Top = y
	}
	if x > b.Right {
		b.Right = x
	}
	if y > b.Bottom {
		b.Bottom = y
	}
	return b
}

func (b Bounds) contains(x, y int) bool {
	return x >= b.Left && x <= b.Right && y >= b.Top && y <= b.Bottom
}

// window expands the box by margin on every side and clamps it to the grid.
// An empty box yields the margin square around the middle cell.
func (b Bounds) window(size, margin int) Bounds {
	if b.IsEmpty() {
		center := (size - 1) / 2
		b = Bounds{Left: center, Top: center, Right: center, Bottom: center}
	}
	w := Bounds{
		Left:   b.Left - margin,
		Top:    b.Top - margin,
		Right:  b.Right + margin,
		Bottom: b.Bottom + margin,
	}
	if w.Left < 0 {
		w.Left = 0
	}
	if w.Top < 0 {
		w.Top = 0
	}
	if w.Right > size-1 {
		w.Right = size - 1
	}
	if w.Bottom > size-1 {
		w.Bottom = size - 1
	}
	return w
}

type Grid struct {
	size   int
	cells  []Cell
	bounds Bounds
}

func NewGrid(size int) *Grid {
	g := &Grid{}
	g.Reset(size)
	return g
}

func (g *Grid) Reset(size int) {
	g.size = size
	g.cells = make([]Cell, size*size)
	g.bounds = EmptyBounds()
}

// GridFromRows builds a grid from rows of {0,1,2} values indexed [row][column].
func GridFromRows(rows [][]int) (*Grid, error) {
	size := len(rows)
	if size == 0 {
		return nil, fmt.Errorf("empty board")
	}
	g := NewGrid(size)
	for y, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), size)
		}
		for x, value := range row {
			switch value {
			case 0:
			case 1:
				g.Place(x, y, CellBlack)
			case 2:
				g.Place(x, y, CellWhite)
			default:
				return nil, fmt.Errorf("cell (%d,%d) has invalid value %d", x, y, value)
			}
		}
	}
	return g, nil
}

func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) Bounds() Bounds {
	return g.bounds
}

// SetBounds overrides the tracked box. Callers that keep their own box use it
// to hand the engine the exact bounds they maintain.
func (g *Grid) SetBounds(b Bounds) {
	g.bounds = b
}

func (g *Grid) At(x, y int) Cell {
	return g.cells[g.index(x, y)]
}

// Place puts a stone and grows the bounding box. It is the caller-side apply;
// the engine itself only uses probe/undo.
func (g *Grid) Place(x, y int, cell Cell) {
	g.cells[g.index(x, y)] = cell
	if cell != CellEmpty {
		g.bounds = g.bounds.include(x, y)
	}
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

func (g *Grid) IsEmpty(x, y int) bool {
	return g.InBounds(x, y) && g.At(x, y) == CellEmpty
}

func (g *Grid) CountEmpty() int {
	count := 0
	for _, cell := range g.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (g *Grid) CountStones() int {
	return len(g.cells) - g.CountEmpty()
}

func (g *Grid) Clone() *Grid {
	clone := &Grid{size: g.size, bounds: g.bounds}
	clone.cells = make([]Cell, len(g.cells))
	copy(clone.cells, g.cells)
	return clone
}

// Equal reports whether both grids hold the same cells and the same box.
func (g *Grid) Equal(other *Grid) bool {
	if g.size != other.size || g.bounds != other.bounds {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.size)
	for y := 0; y < g.size; y++ {
		rows[y] = make([]int, g.size)
		for x := 0; x < g.size; x++ {
			rows[y][x] = cellToInt(g.At(x, y))
		}
	}
	return rows
}

func (g *Grid) index(x, y int) int {
	return y*g.size + x
}

// probe is a transient placement made during search. undo restores the cell
// and the bounding box to exactly what they were before the probe.
type probe struct {
	grid       *Grid
	idx        int
	prevCell   Cell
	prevBounds Bounds
}

func (g *Grid) probe(x, y int, cell Cell) probe {
	idx := g.index(x, y)
	p := probe{grid: g, idx: idx, prevCell: g.cells[idx], prevBounds: g.bounds}
	g.cells[idx] = cell
	g.bounds = g.bounds.include(x, y)
	return p
}

func (p probe) undo() {
	p.grid.cells[p.idx] = p.prevCell
	p.grid.bounds = p.prevBounds
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func (c Cell) opponent() Cell {
	switch c {
	case CellBlack:
		return CellWhite
	case CellWhite:
		return CellBlack
	}
	panic(fmt.Sprintf("cell %d has no opponent", int(c)))
}

// mustStone panics on anything but Black or White: scoring an empty or
// out-of-range color is a caller bug, not a position worth zero.
func mustStone(c Cell) Cell {
	if c != CellBlack && c != CellWhite {
		panic(fmt.Sprintf("invalid stone color %d", int(c)))
	}
	return c
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellBlack:
		return 1
	case CellWhite:
		return 2
	default:
		return 0
	}
}

func intToCell(value int) (Cell, error) {
	switch value {
	case 1:
		return CellBlack, nil
	case 2:
		return CellWhite, nil
	default:
		return CellEmpty, fmt.Errorf("invalid color %d", value)
	}
}
