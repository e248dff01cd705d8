package healthz

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestHandler(t *testing.T) {
	var ready atomic.Bool

	testCases := []struct {
		name  string
		h     *Handler
		setup func()
		want  int
	}{
		{"Liveness", New(nil), func() {}, http.StatusOK},
		{"NotReady", New(ready.Load), func() { ready.Store(false) }, http.StatusServiceUnavailable},
		{"Ready", New(ready.Load), func() { ready.Store(true) }, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			rec := httptest.NewRecorder()
			tc.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
