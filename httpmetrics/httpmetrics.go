// Package httpmetrics records per-handler request counts and latencies with
// OpenCensus.
package httpmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang/glog"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	keyHandler = tag.MustNewKey("handler")
	keyMethod  = tag.MustNewKey("method")
	keyCode    = tag.MustNewKey("code")
)

var (
	requestCount   = stats.Int64("boggle/requests", "Requests handled", stats.UnitDimensionless)
	requestLatency = stats.Float64("boggle/request_latency", "Time spent handling a request", stats.UnitMilliseconds)
)

var (
	RequestCountView = &view.View{
		Name:        "boggle/requests",
		Description: "Counter of requests that have been handled",
		TagKeys:     []tag.Key{keyHandler, keyMethod, keyCode},
		Measure:     requestCount,
		Aggregation: view.Count(),
	}

	RequestLatencyView = &view.View{
		Name:        "boggle/request_latency",
		Description: "Distribution of request handling latency",
		TagKeys:     []tag.Key{keyHandler, keyCode},
		Measure:     requestLatency,
		Aggregation: view.Distribution(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	}
)

// RegisterViews registers the package's views with the default exporter set.
func RegisterViews() error {
	return view.Register(RequestCountView, RequestLatencyView)
}

// statusRecorder captures the status code written by the inner handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// Wrapper records metrics for every request passed to inner.
type Wrapper struct {
	name  string
	inner http.Handler
}

// New wraps inner, tagging its measurements with name.
func New(name string, inner http.Handler) *Wrapper {
	return &Wrapper{
		name:  name,
		inner: inner,
	}
}

func (h *Wrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

	h.inner.ServeHTTP(rec, r)

	elapsed := time.Since(start)
	glog.V(1).Infof("Served handler=%q path=%q code=%d elapsed=%v remoteaddr=%q", h.name, r.URL.Path, rec.code, elapsed, r.Header["X-Forwarded-For"])

	stats.RecordWithOptions(
		r.Context(),
		stats.WithTags(
			tag.Insert(keyHandler, h.name),
			tag.Insert(keyMethod, r.Method),
			tag.Insert(keyCode, strconv.Itoa(rec.code)),
		),
		stats.WithMeasurements(
			requestCount.M(1),
			requestLatency.M(float64(elapsed)/float64(time.Millisecond)),
		))
}
