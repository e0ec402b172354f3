package main

// staticTable holds the positional weight of every cell: the distance to the
// nearest edge, so it is symmetric about the center and grows toward it.
type staticTable struct {
	size    int
	weights []int
}

func newStaticTable(size int) staticTable {
	t := staticTable{size: size, weights: make([]int, size*size)}
	last := size - 1
	for i := 0; i <= last/2; i++ {
		for j := 0; j <= last/2; j++ {
			w := minInt(i, j)
			t.set(i, j, w)
			t.set(last-i, j, w)
			t.set(i, last-j, w)
			t.set(last-i, last-j, w)
		}
	}
	return t
}

func (t staticTable) At(x, y int) int {
	return t.weights[y*t.size+x]
}

func (t staticTable) set(x, y, w int) {
	t.weights[y*t.size+x] = w
}

func minInt(values ...int) int {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
