package main

import "testing"

func TestStaticTableSymmetricAndCentered(t *testing.T) {
	for _, size := range []int{6, 15, 19} {
		table := newStaticTable(size)
		last := size - 1
		for x := 0; x < size; x++ {
			for y := 0; y < size; y++ {
				w := table.At(x, y)
				if w != table.At(last-x, y) || w != table.At(x, last-y) || w != table.At(last-x, last-y) {
					t.Fatalf("size %d: weight at (%d,%d) is not mirrored", size, x, y)
				}
				if w < 0 || w > last/2 {
					t.Fatalf("size %d: weight %d at (%d,%d) out of range", size, w, x, y)
				}
			}
		}
		if table.At(0, 0) != 0 {
			t.Fatalf("size %d: expected corner weight 0", size)
		}
	}
	table := newStaticTable(19)
	if table.At(9, 9) != 9 || table.At(3, 10) != 3 {
		t.Fatalf("unexpected weights: center=%d (3,10)=%d", table.At(9, 9), table.At(3, 10))
	}
}
