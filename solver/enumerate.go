package solver

import (
	"row-major/boggle/adjacency"
	"row-major/boggle/board"
	"row-major/boggle/trie"
)

// frame is one cell on the current path.  next is the position in the cell's
// neighbor list where scanning resumes after the path returns to this cell.
type frame struct {
	cell int
	node *trie.Node
	next int
}

// enumerator walks every simple path from one start cell at a time, following
// the trie so that a path is abandoned as soon as its letters stop being a
// prefix of some word.  The walk uses an explicit frame stack, so path length
// is bounded only by the number of cells.
//
// An enumerator's scratch state is private; concurrent searches each need
// their own.
type enumerator struct {
	trie    *trie.Trie
	adj     *adjacency.Index
	letters []byte

	visited []bool
	stack   []frame
	path    []byte
}

func newEnumerator(t *trie.Trie, adj *adjacency.Index, letters []byte) *enumerator {
	return &enumerator{
		trie:    t,
		adj:     adj,
		letters: letters,
		visited: make([]bool, adj.NumCells()),
		stack:   make([]frame, 0, adj.NumCells()),
		path:    make([]byte, 0, 2*adj.NumCells()),
	}
}

func (e *enumerator) push(cell int, node *trie.Node, found WordSet) {
	e.stack = append(e.stack, frame{cell: cell, node: node})
	e.visited[cell] = true
	e.path = append(e.path, e.letters[cell])
	if e.letters[cell] == 'Q' {
		e.path = append(e.path, 'U')
	}
	if node.Terminal() {
		found.Add(string(e.path))
	}
}

func (e *enumerator) pop() {
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	e.visited[top.cell] = false
	n := 1
	if e.letters[top.cell] == 'Q' {
		n = 2
	}
	e.path = e.path[:len(e.path)-n]
}

// searchFrom adds to found every word spelled by a simple path starting at
// start.  Scratch state is back to all-clear when it returns.
func (e *enumerator) searchFrom(start int, found WordSet) {
	first := e.trie.ChildOfRoot(e.letters[start])
	if first == nil {
		// No word begins with this tile.
		return
	}
	e.push(start, first, found)

	for len(e.stack) != 0 {
		top := &e.stack[len(e.stack)-1]
		neighbors := e.adj.Neighbors(top.cell)

		advanced := false
		for top.next < len(neighbors) {
			n := neighbors[top.next]
			top.next++

			if e.visited[n] {
				continue
			}
			child := e.trie.Child(top.node, e.letters[n])
			if child == nil {
				continue
			}

			// top is invalidated by the append in push.
			e.push(n, child, found)
			advanced = true
			break
		}

		if !advanced {
			e.pop()
		}
	}
}

// letterSlice copies a Board into the row-major layout used by the
// adjacency index.
func letterSlice(b board.Board) []byte {
	rows, cols := b.Rows(), b.Cols()
	letters := make([]byte, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			letters[r*cols+c] = b.LetterAt(r, c)
		}
	}
	return letters
}
