package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"row-major/boggle/board"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/time/rate"
)

type memCache struct {
	lock    sync.Mutex
	entries map[string][]string
}

func (c *memCache) key(fingerprint uint64, g board.Grid) string {
	return fmt.Sprintf("%016x/%s", fingerprint, board.Format(g))
}

func (c *memCache) Get(ctx context.Context, fingerprint uint64, g board.Grid) ([]string, bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	words, ok := c.entries[c.key(fingerprint, g)]
	return words, ok, nil
}

func (c *memCache) Put(ctx context.Context, fingerprint uint64, g board.Grid, words []string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries[c.key(fingerprint, g)] = words
	return nil
}

func newTestServer(t *testing.T, opts ...HandlerOpt) *httptest.Server {
	t.Helper()
	s := mustSolver(t, []string{"CAT", "CATS", "AT"})
	mux := http.NewServeMux()
	NewHandler(s, opts...).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return resp, respBody
}

func TestHandlerSolve(t *testing.T) {
	srv := newTestServer(t)

	resp, body := post(t, srv.URL+"/solve", `{"Rows": ["CA", "TS"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, body %q", resp.StatusCode, body)
	}

	got := &solveResponse{}
	if err := json.Unmarshal(body, got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := &solveResponse{
		Rows:  []string{"CA", "TS"},
		Words: []string{"AT", "CAT", "CATS"},
		Score: 2,
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Bad response; diff (-got +want)\n%s", diff)
	}
}

func TestHandlerSolveBoardText(t *testing.T) {
	srv := newTestServer(t)

	resp, body := post(t, srv.URL+"/solve", `{"Board": "2 2\nC A\nT S\n"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, body %q", resp.StatusCode, body)
	}

	got := &solveResponse{}
	if err := json.Unmarshal(body, got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff(got.Words, []string{"AT", "CAT", "CATS"}); diff != "" {
		t.Errorf("Bad words; diff (-got +want)\n%s", diff)
	}
}

func TestHandlerSolveUsesCache(t *testing.T) {
	cache := &memCache{entries: map[string][]string{}}
	srv := newTestServer(t, WithResultCache(cache))

	for i, wantCached := range []bool{false, true} {
		resp, body := post(t, srv.URL+"/solve", `{"Rows": ["CA", "TS"]}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Status = %d, body %q", resp.StatusCode, body)
		}

		got := &solveResponse{}
		if err := json.Unmarshal(body, got); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.Cached != wantCached {
			t.Errorf("request %d: Cached = %v, want %v", i, got.Cached, wantCached)
		}
		if got.Score != 2 {
			t.Errorf("request %d: Score = %d, want 2", i, got.Score)
		}
	}
}

func TestHandlerSolveBadRequests(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{
		`{"Rows": ["CA", "T"]}`,
		`{"Rows": ["C1"]}`,
		`{"Board": "x"}`,
		`not json`,
	} {
		resp, respBody := post(t, srv.URL+"/solve", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %s: status = %d (%q), want 400", body, resp.StatusCode, respBody)
		}
	}

	resp, err := http.Get(srv.URL + "/solve")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /solve status = %d, want 405", resp.StatusCode)
	}
}

func TestHandlerSolveRateLimited(t *testing.T) {
	srv := newTestServer(t, WithRateLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))

	resp, _ := post(t, srv.URL+"/solve", `{"Rows": ["CA", "TS"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("First request status = %d, want 200", resp.StatusCode)
	}

	resp, _ = post(t, srv.URL+"/solve", `{"Rows": ["CA", "TS"]}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Second request status = %d, want 429", resp.StatusCode)
	}
}

func TestHandlerSolveCanceled(t *testing.T) {
	h := NewHandler(mustSolver(t, []string{"CAT", "CATS", "AT"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(`{"Rows": ["CA", "TS"]}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeSolve(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", rec.Code)
	}
	if diff := cmp.Diff(rec.Body.String(), "request canceled\n"); diff != "" {
		t.Errorf("Bad body; diff (-got +want)\n%s", diff)
	}
}

func TestHandlerSolveOversizedBoardText(t *testing.T) {
	srv := newTestServer(t)

	resp, body := post(t, srv.URL+"/solve", `{"Board": "3037000500 3037000500"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Status = %d, body %q; want 400", resp.StatusCode, body)
	}
}

func TestHandlerScore(t *testing.T) {
	srv := newTestServer(t)

	testCases := []struct {
		body       string
		wantStatus int
		wantScore  int
	}{
		{`{"Word": "CATS"}`, http.StatusOK, 1},
		{`{"Word": "DOGS"}`, http.StatusOK, 0},
		{`{"Word": null}`, http.StatusBadRequest, 0},
		{`{}`, http.StatusBadRequest, 0},
	}

	for _, tc := range testCases {
		resp, body := post(t, srv.URL+"/score", tc.body)
		if resp.StatusCode != tc.wantStatus {
			t.Errorf("POST %s: status = %d, want %d", tc.body, resp.StatusCode, tc.wantStatus)
			continue
		}
		if tc.wantStatus != http.StatusOK {
			continue
		}

		got := &scoreResponse{}
		if err := json.Unmarshal(body, got); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.Score != tc.wantScore {
			t.Errorf("POST %s: score = %d, want %d", tc.body, got.Score, tc.wantScore)
		}
	}
}
