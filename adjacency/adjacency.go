// Package adjacency precomputes the king-move neighbors of every cell in a
// rows x cols grid.  The table depends only on the grid shape, so one Index can
// serve every board of that shape.
package adjacency

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

var ErrInvalidDimensions = errors.New("grid dimensions must be positive")

// Scan order for neighbors: right, down-right, down, down-left, left, up-left,
// up, up-right.
var directions = [8][2]int{
	{0, 1},
	{1, 1},
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, -1},
	{-1, 0},
	{-1, 1},
}

// Index holds, for each cell in row-major order, the row-major indices of its
// in-bounds neighbors.  It is immutable after Build.
type Index struct {
	Rows int
	Cols int

	neighbors [][]int
}

// Build computes the Index for a rows x cols grid.
func Build(rows, cols int) (*Index, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("while building adjacency for %dx%d: %w", rows, cols, ErrInvalidDimensions)
	}

	// All neighbor lists share one backing array.
	backing := make([]int, 0, rows*cols*len(directions))
	neighbors := make([][]int, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			start := len(backing)
			for _, d := range directions {
				i, j := r+d[0], c+d[1]
				if i < 0 || i >= rows || j < 0 || j >= cols {
					continue
				}
				backing = append(backing, i*cols+j)
			}
			neighbors[r*cols+c] = backing[start:len(backing):len(backing)]
		}
	}

	return &Index{
		Rows:      rows,
		Cols:      cols,
		neighbors: neighbors,
	}, nil
}

// NumCells returns Rows*Cols.
func (x *Index) NumCells() int {
	return x.Rows * x.Cols
}

// Neighbors returns the neighbor cell indices of cell.  Callers must not
// modify the returned slice.
func (x *Index) Neighbors(cell int) []int {
	return x.neighbors[cell]
}

// Cell converts a coordinate to its row-major index.
func (x *Index) Cell(r, c int) int {
	return r*x.Cols + c
}

// Coord converts a row-major index back to (row, col).
func (x *Index) Coord(cell int) (r, c int) {
	return cell / x.Cols, cell % x.Cols
}

type shape struct {
	rows, cols int
}

// Cache hands out shared Index values keyed by grid shape, evicting the least
// recently used shapes once full.  It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache
}

const DefaultCacheSize = 64

// NewCache creates a Cache holding at most size shapes.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("while creating adjacency LRU: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns the Index for rows x cols, building it on a miss.
func (c *Cache) Get(rows, cols int) (*Index, error) {
	key := shape{rows: rows, cols: cols}
	if v, ok := c.entries.Get(key); ok {
		return v.(*Index), nil
	}

	x, err := Build(rows, cols)
	if err != nil {
		return nil, err
	}

	// Two goroutines may both build on a miss; the tables are identical, so
	// whichever lands last simply wins.
	c.entries.Add(key, x)
	return x, nil
}

// Len reports how many shapes are cached.
func (c *Cache) Len() int {
	return c.entries.Len()
}
