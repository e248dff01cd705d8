// Package solver finds every dictionary word that a board spells along a
// simple path of king-move adjacent tiles, and scores words by length.
package solver

import (
	"context"
	"fmt"
	"sort"

	"row-major/boggle/adjacency"
	"row-major/boggle/board"
	"row-major/boggle/trie"

	"github.com/cespare/xxhash"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var defaultAdjacencyCache *adjacency.Cache

func init() {
	c, err := adjacency.NewCache(adjacency.DefaultCacheSize)
	if err != nil {
		panic(fmt.Sprintf("while creating default adjacency cache: %v", err))
	}
	defaultAdjacencyCache = c
}

// Solver holds a dictionary trie.  The trie is never modified after New, so
// one Solver may serve any number of concurrent Solve calls.
type Solver struct {
	trie        *trie.Trie
	fingerprint uint64

	adjCache *adjacency.Cache
	workers  int
}

type Option func(*Solver)

// WithWorkers spreads the start cells of each board across n goroutines.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		s.workers = n
	}
}

// WithAdjacencyCache makes the Solver share adjacency tables through c instead
// of the package default.
func WithAdjacencyCache(c *adjacency.Cache) Option {
	return func(s *Solver) {
		s.adjCache = c
	}
}

// New builds a Solver over words, each of which must be uppercase A-Z.
func New(words []string, opts ...Option) (*Solver, error) {
	t, err := trie.NewFromWords(words)
	if err != nil {
		return nil, fmt.Errorf("while building dictionary trie: %w", err)
	}

	s := &Solver{
		trie:        t,
		fingerprint: fingerprint(words),
		adjCache:    defaultAdjacencyCache,
		workers:     1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// fingerprint hashes the set of words, so the same dictionary in any order
// with any duplicates gets the same value.
func fingerprint(words []string) uint64 {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)

	h := xxhash.New()
	for i, w := range sorted {
		if i > 0 && sorted[i-1] == w {
			continue
		}
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	return h.Sum64()
}

// Trie exposes the dictionary for read-only queries.
func (s *Solver) Trie() *trie.Trie {
	return s.trie
}

// Fingerprint identifies the dictionary this Solver was built from.
func (s *Solver) Fingerprint() uint64 {
	return s.fingerprint
}

// Solve returns every distinct dictionary word on b.
//
// ctx is checked before each start cell.  If it expires, Solve returns the
// words found so far along with the context's error.
func (s *Solver) Solve(ctx context.Context, b board.Board) (WordSet, error) {
	tracer := otel.Tracer("row-major/boggle/solver")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Solver.Solve")
	defer span.End()

	rows, cols := b.Rows(), b.Cols()
	span.SetAttributes(attribute.Int("rows", rows), attribute.Int("cols", cols))

	found := WordSet{}
	if rows <= 0 || cols <= 0 {
		return found, nil
	}

	letters := letterSlice(b)
	for i, l := range letters {
		if l < 'A' || l > 'Z' {
			err := fmt.Errorf("letter %q at (%d, %d) is not A-Z: %w", l, i/cols, i%cols, ErrInvalidArgument)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	adj, err := s.adjCache.Get(rows, cols)
	if err != nil {
		err := fmt.Errorf("while fetching adjacency for %dx%d: %w", rows, cols, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	workers := s.workers
	if workers > len(letters) {
		workers = len(letters)
	}

	if workers <= 1 {
		err = s.searchCells(ctx, adj, letters, 0, 1, found)
	} else {
		sets := make([]WordSet, workers)
		eg := &errgroup.Group{}
		for w := 0; w < workers; w++ {
			w := w
			sets[w] = WordSet{}
			eg.Go(func() error {
				return s.searchCells(ctx, adj, letters, w, workers, sets[w])
			})
		}
		err = eg.Wait()
		for _, set := range sets {
			found.Union(set)
		}
	}

	span.SetAttributes(attribute.Int("words_found", len(found)))

	if err != nil {
		err := fmt.Errorf("while solving %dx%d board: %w", rows, cols, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return found, err
	}

	return found, nil
}

// searchCells runs the start cells offset, offset+stride, ... with one private
// enumerator.
func (s *Solver) searchCells(ctx context.Context, adj *adjacency.Index, letters []byte, offset, stride int, found WordSet) error {
	e := newEnumerator(s.trie, adj, letters)
	for cell := offset; cell < len(letters); cell += stride {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.searchFrom(cell, found)
	}
	return nil
}
