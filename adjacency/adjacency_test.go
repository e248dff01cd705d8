package adjacency

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, 2}, {0, 0}} {
		if _, err := Build(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Build(%d, %d) error = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestBuild1x1(t *testing.T) {
	x, err := Build(1, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := x.Neighbors(0); len(got) != 0 {
		t.Errorf("Neighbors(0) = %v, want none", got)
	}
}

func TestBuild3x3Order(t *testing.T) {
	x, err := Build(3, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 0 1 2
	// 3 4 5
	// 6 7 8
	want := map[int][]int{
		0: {1, 4, 3},
		2: {5, 4, 1},
		4: {5, 8, 7, 6, 3, 0, 1, 2},
		6: {7, 3, 4},
		8: {7, 4, 5},
	}
	for cell, wantNeighbors := range want {
		if diff := cmp.Diff(x.Neighbors(cell), wantNeighbors); diff != "" {
			t.Errorf("Neighbors(%d) mismatch (-got +want)\n%s", cell, diff)
		}
	}
}

func TestBuildNeighborsInBoundsAndSymmetric(t *testing.T) {
	x, err := Build(4, 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for cell := 0; cell < x.NumCells(); cell++ {
		r, c := x.Coord(cell)
		if x.Cell(r, c) != cell {
			t.Fatalf("Coord/Cell round trip failed for %d", cell)
		}
		for _, n := range x.Neighbors(cell) {
			nr, nc := x.Coord(n)
			if n == cell || abs(nr-r) > 1 || abs(nc-c) > 1 {
				t.Errorf("cell %d has non-adjacent neighbor %d", cell, n)
			}
			found := false
			for _, back := range x.Neighbors(n) {
				if back == cell {
					found = true
				}
			}
			if !found {
				t.Errorf("neighbor relation not symmetric between %d and %d", cell, n)
			}
		}
	}
}

func TestCacheSharesIndex(t *testing.T) {
	c, err := NewCache(2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	a, err := c.Get(4, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := c.Get(4, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("Cache built a second Index for the same shape")
	}

	if _, err := c.Get(0, 4); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Get(0, 4) error = %v, want ErrInvalidDimensions", err)
	}

	c.Get(5, 5)
	c.Get(6, 6)
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
