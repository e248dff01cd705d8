// Package board holds the letter grids that the solver reads.
//
// A cell holds one uppercase letter.  The letter 'Q' stands for the "Qu" tile.
package board

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadLetter      = errors.New("tile is not a letter A-Z or Qu")
	ErrNotRectangular = errors.New("board rows must all have the same length")
	ErrBadHeader      = errors.New("board header must be two non-negative integers")
)

// MaxParsedCells bounds the board size Parse will allocate for.
const MaxParsedCells = 1 << 19

// Board is the read-only view of a grid that the solver consumes.
type Board interface {
	Rows() int
	Cols() int
	LetterAt(r, c int) byte
}

// Grid is a row-major Board.
type Grid struct {
	NumRows int
	NumCols int
	Cells   []byte
}

var _ Board = Grid{}

func NewGrid(numRows, numCols int) Grid {
	return Grid{
		NumRows: numRows,
		NumCols: numCols,
		Cells:   make([]byte, numRows*numCols),
	}
}

// NewGridFromRows builds a Grid with one string per row, one letter per cell.
// Lowercase letters are accepted and stored uppercase.
func NewGridFromRows(rows []string) (Grid, error) {
	if len(rows) == 0 {
		return NewGrid(0, 0), nil
	}

	g := NewGrid(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != g.NumCols {
			return Grid{}, fmt.Errorf("row %d has %d letters, row 0 has %d: %w", r, len(row), g.NumCols, ErrNotRectangular)
		}
		for c := 0; c < len(row); c++ {
			l, ok := normalizeLetter(row[c])
			if !ok {
				return Grid{}, fmt.Errorf("at (%d, %d): %q: %w", r, c, row[c], ErrBadLetter)
			}
			g.Set(r, c, l)
		}
	}
	return g, nil
}

func (g Grid) Rows() int {
	return g.NumRows
}

func (g Grid) Cols() int {
	return g.NumCols
}

func (g Grid) LetterAt(r, c int) byte {
	return g.Cells[r*g.NumCols+c]
}

func (g Grid) Set(r, c int, letter byte) {
	g.Cells[r*g.NumCols+c] = letter
}

// RowStrings returns the grid as one string per row, Q tiles as a single 'Q'.
func (g Grid) RowStrings() []string {
	rows := make([]string, g.NumRows)
	for r := 0; r < g.NumRows; r++ {
		rows[r] = string(g.Cells[r*g.NumCols : (r+1)*g.NumCols])
	}
	return rows
}

// DisplayString renders the grid boxed, one tile per column, Q shown as Qu.
func (g Grid) DisplayString() string {
	b := strings.Builder{}

	b.WriteRune('┌')
	for c := 0; c < g.NumCols; c++ {
		b.WriteString("───")
	}
	b.WriteRune('┐')
	b.WriteRune('\n')

	for r := 0; r < g.NumRows; r++ {
		b.WriteRune('│')
		for c := 0; c < g.NumCols; c++ {
			l := g.LetterAt(r, c)
			if l == 'Q' {
				b.WriteString(" Qu")
			} else {
				b.WriteRune(' ')
				b.WriteByte(l)
				b.WriteRune(' ')
			}
		}
		b.WriteRune('│')
		b.WriteRune('\n')
	}

	b.WriteRune('└')
	for c := 0; c < g.NumCols; c++ {
		b.WriteString("───")
	}
	b.WriteRune('┘')
	b.WriteRune('\n')

	return b.String()
}

// Copy returns a Grid that shares no storage with g.
func (g Grid) Copy() Grid {
	cp := NewGrid(g.NumRows, g.NumCols)
	copy(cp.Cells, g.Cells)
	return cp
}

func normalizeLetter(l byte) (byte, bool) {
	if l >= 'a' && l <= 'z' {
		l = l - 'a' + 'A'
	}
	if l < 'A' || l > 'Z' {
		return 0, false
	}
	return l, true
}

func parseTile(tile string) (byte, error) {
	switch strings.ToUpper(tile) {
	case "QU", "Q":
		return 'Q', nil
	}
	if len(tile) != 1 {
		return 0, fmt.Errorf("%q: %w", tile, ErrBadLetter)
	}
	l, ok := normalizeLetter(tile[0])
	if !ok {
		return 0, fmt.Errorf("%q: %w", tile, ErrBadLetter)
	}
	return l, nil
}

// Parse reads the board file format: a header line "rows cols" followed by
// rows lines of cols whitespace-separated tiles.  A tile is a single letter or
// "Qu".
func Parse(text string) (Grid, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	dims := [2]int{}
	for i := range dims {
		tok, ok := next()
		if !ok {
			return Grid{}, fmt.Errorf("while reading header: %w", ErrBadHeader)
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v < 0 {
			return Grid{}, fmt.Errorf("while reading header token %q: %w", tok, ErrBadHeader)
		}
		dims[i] = v
	}
	if dims[0] != 0 && dims[1] > MaxParsedCells/dims[0] {
		return Grid{}, fmt.Errorf("%dx%d board exceeds %d cells: %w", dims[0], dims[1], MaxParsedCells, ErrBadHeader)
	}

	g := NewGrid(dims[0], dims[1])
	for r := 0; r < g.NumRows; r++ {
		for c := 0; c < g.NumCols; c++ {
			tok, ok := next()
			if !ok {
				return Grid{}, fmt.Errorf("board ended before tile (%d, %d) of %dx%d: %w", r, c, g.NumRows, g.NumCols, ErrNotRectangular)
			}
			l, err := parseTile(tok)
			if err != nil {
				return Grid{}, fmt.Errorf("at (%d, %d): %w", r, c, err)
			}
			g.Set(r, c, l)
		}
	}

	if tok, ok := next(); ok {
		return Grid{}, fmt.Errorf("unexpected trailing tile %q after %dx%d board: %w", tok, g.NumRows, g.NumCols, ErrNotRectangular)
	}
	if err := sc.Err(); err != nil {
		return Grid{}, fmt.Errorf("while scanning board: %w", err)
	}

	return g, nil
}

// Format renders g in the format Parse reads.
func Format(g Grid) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%d %d\n", g.NumRows, g.NumCols)
	for r := 0; r < g.NumRows; r++ {
		for c := 0; c < g.NumCols; c++ {
			if c > 0 {
				b.WriteRune(' ')
			}
			l := g.LetterAt(r, c)
			if l == 'Q' {
				b.WriteString("Qu")
			} else {
				b.WriteByte(l)
			}
		}
		b.WriteRune('\n')
	}
	return b.String()
}
