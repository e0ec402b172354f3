package main

import "sync"

type ZobristTable struct {
	size  int
	cells []uint64
	side  uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[int]*ZobristTable
}

var zobristTables = &zobristStore{tables: make(map[int]*ZobristTable)}

func GetZobrist(size int) *ZobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	if table, ok := zobristTables.tables[size]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(size)}
	table := &ZobristTable{size: size, cells: make([]uint64, size*size*2)}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	table.side = rng.next()
	zobristTables.tables[size] = table
	return table
}

func (z *ZobristTable) stone(x, y int, cell Cell) uint64 {
	idx := (y*z.size + x) * 2
	if cell == CellWhite {
		idx++
	}
	return z.cells[idx]
}

// HashGrid keys a grid together with the color about to move.
func HashGrid(grid *Grid, toMove Cell) uint64 {
	z := GetZobrist(grid.Size())
	var hash uint64
	size := grid.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cell := grid.At(x, y)
			if cell == CellEmpty {
				continue
			}
			hash ^= z.stone(x, y, cell)
		}
	}
	if toMove == CellWhite {
		hash ^= z.side
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
