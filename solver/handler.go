package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"row-major/boggle/board"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const maxRequestBytes = 1 << 20

// ResultCache stores solved boards.  Implementations must be safe for
// concurrent use.
type ResultCache interface {
	Get(ctx context.Context, fingerprint uint64, g board.Grid) (words []string, found bool, err error)
	Put(ctx context.Context, fingerprint uint64, g board.Grid, words []string) error
}

// Handler serves solve and score requests over HTTP/JSON.
type Handler struct {
	solver *Solver

	cache        ResultCache
	sem          *semaphore.Weighted
	limiter      *rate.Limiter
	solveTimeout time.Duration
}

type HandlerOpt func(*Handler)

func WithResultCache(c ResultCache) HandlerOpt {
	return func(h *Handler) {
		h.cache = c
	}
}

// WithMaxConcurrentSolves bounds how many boards are solved at once.  Requests
// beyond the limit wait for a slot until their context ends.
func WithMaxConcurrentSolves(n int64) HandlerOpt {
	return func(h *Handler) {
		h.sem = semaphore.NewWeighted(n)
	}
}

// WithRateLimiter rejects solve requests with 429 once l runs dry.
func WithRateLimiter(l *rate.Limiter) HandlerOpt {
	return func(h *Handler) {
		h.limiter = l
	}
}

func WithSolveTimeout(d time.Duration) HandlerOpt {
	return func(h *Handler) {
		h.solveTimeout = d
	}
}

func NewHandler(s *Solver, opts ...HandlerOpt) *Handler {
	h := &Handler{
		solver:       s,
		sem:          semaphore.NewWeighted(16),
		solveTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register installs the handler's endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/solve", h.ServeSolve)
	mux.HandleFunc("/score", h.ServeScore)
}

type solveRequest struct {
	// Rows holds one string per board row.  'Q' is the Qu tile.
	Rows []string

	// Board is an alternative to Rows, in the board file format.
	Board string
}

type solveResponse struct {
	Rows   []string
	Words  []string
	Score  int
	Cached bool
}

type scoreRequest struct {
	Word *string
}

type scoreResponse struct {
	Score int
}

func readJSON(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	reqBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, "bad request: could not read body", http.StatusBadRequest)
		return false
	}

	if err := json.Unmarshal(reqBody, target); err != nil {
		http.Error(w, fmt.Sprintf("bad request: invalid JSON: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	respBody, err := json.Marshal(v)
	if err != nil {
		glog.Errorf("Error while marshaling response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	w.Write(respBody)
}

func (req *solveRequest) grid() (board.Grid, error) {
	if len(req.Rows) == 0 && req.Board != "" {
		return board.Parse(req.Board)
	}
	return board.NewGridFromRows(req.Rows)
}

func (h *Handler) ServeSolve(w http.ResponseWriter, r *http.Request) {
	tracer := otel.Tracer("row-major/boggle/solver")
	ctx, span := tracer.Start(r.Context(), "Handler.ServeSolve")
	defer span.End()

	req := &solveRequest{}
	if !readJSON(w, r, req) {
		return
	}

	g, err := req.grid()
	if err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("rows", g.Rows()), attribute.Int("cols", g.Cols()))

	resp := &solveResponse{
		Rows: g.RowStrings(),
	}

	if h.cache != nil {
		words, found, err := h.cache.Get(ctx, h.solver.Fingerprint(), g)
		if err != nil {
			// Fall through to solving.
			glog.Errorf("Error reading result cache: %v", err)
		} else if found {
			resp.Words = words
			resp.Score = h.solver.TotalScore(wordSetOf(words))
			resp.Cached = true
			span.SetAttributes(attribute.Bool("cached", true))
			writeJSON(w, resp)
			return
		}
	}

	if h.limiter != nil && !h.limiter.Allow() {
		http.Error(w, "too many solve requests", http.StatusTooManyRequests)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.solveTimeout)
	defer cancel()

	if err := h.sem.Acquire(ctx, 1); err != nil {
		if errors.Is(err, context.Canceled) {
			writeCanceled(w, resp.Rows, err)
			return
		}
		http.Error(w, "solver busy", http.StatusServiceUnavailable)
		return
	}
	words, err := h.solver.Solve(ctx, g)
	h.sem.Release(1)

	switch {
	case errors.Is(err, ErrInvalidArgument):
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "solve timed out", http.StatusGatewayTimeout)
		return
	case errors.Is(err, context.Canceled):
		writeCanceled(w, resp.Rows, err)
		return
	case err != nil:
		glog.Errorf("Error solving board %v: %v", resp.Rows, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp.Words = words.Sorted()
	resp.Score = h.solver.TotalScore(words)

	if h.cache != nil {
		if err := h.cache.Put(ctx, h.solver.Fingerprint(), g, resp.Words); err != nil {
			glog.Errorf("Error writing result cache: %v", err)
		}
	}

	writeJSON(w, resp)
}

func (h *Handler) ServeScore(w http.ResponseWriter, r *http.Request) {
	tracer := otel.Tracer("row-major/boggle/solver")
	_, span := tracer.Start(r.Context(), "Handler.ServeScore")
	defer span.End()

	req := &scoreRequest{}
	if !readJSON(w, r, req) {
		return
	}

	score, err := h.solver.ScoreOfOptional(req.Word)
	if err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}

	writeJSON(w, &scoreResponse{Score: score})
}

// writeCanceled answers a request whose client has gone away.
func writeCanceled(w http.ResponseWriter, rows []string, err error) {
	glog.V(1).Infof("Solve of board %v canceled: %v", rows, err)
	http.Error(w, "request canceled", http.StatusServiceUnavailable)
}

func wordSetOf(words []string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}
