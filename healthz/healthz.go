// Package healthz serves liveness and readiness probes.
package healthz

import "net/http"

// Handler answers 200 once ready reports true, and 503 before that.  A nil
// ready func means always ready, which suits a liveness probe.
type Handler struct {
	ready func() bool
}

func New(ready func() bool) *Handler {
	return &Handler{ready: ready}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready() {
		http.Error(w, "503 not ready", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("200 OK"))
}
