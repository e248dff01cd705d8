// boggled serves board solving and word scoring over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"row-major/boggle/dictionary"
	"row-major/boggle/healthz"
	"row-major/boggle/httpmetrics"
	"row-major/boggle/solvecache"
	"row-major/boggle/solver"

	"contrib.go.opencensus.io/exporter/stackdriver"
	cloudmetrics "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	cloudtrace "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"github.com/golang/glog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/time/rate"
)

var (
	listen               = flag.String("listen", "0.0.0.0:8080", "Server address:port for the solve API.")
	debugListen          = flag.String("debug-listen", "127.0.0.1:8001", "Server address:port for debug endpoint.")
	dictionarySource     = flag.String("dictionary", "", "Word list to load, either a local path or gs://bucket/object.")
	cacheDir             = flag.String("cache-dir", "", "Directory for the solved-board cache.  Empty disables caching.")
	clearCache           = flag.Bool("clear-cache", false, "Remove existing cache contents on startup?")
	cacheTTL             = flag.Duration("cache-ttl", 24*time.Hour, "How long solved boards stay cached.  Zero keeps them forever.")
	workers              = flag.Int("workers", 1, "Goroutines used to search a single board.")
	maxConcurrentSolves  = flag.Int64("max-concurrent-solves", 16, "How many boards may be solved at once.")
	solveRateLimit       = flag.Float64("solve-rate-limit", 0, "Solve requests per second to admit.  Zero disables limiting.")
	solveTimeout         = flag.Duration("solve-timeout", 10*time.Second, "Deadline for a single solve.")
	monitoring           = flag.Bool("monitoring", false, "Enable monitoring?")
	monitoringProject    = flag.String("monitoring-project", "", "Override project used for monitoring integration.  If not specified, the project associated with Application Default Credentials is used.")
	monitoringTraceRatio = flag.Float64("monitoring-trace-ratio", 0.0001, "What ratio of traces should be exported?")
	stackdriverViews     = flag.Bool("enable-stackdriver-views", false, "Export HTTP request views through the OpenCensus Stackdriver exporter?")
)

func main() {
	flag.Parse()

	glog.CopyStandardLogTo("INFO")

	glog.Infof("flags:")
	glog.Infof("listen: %q", *listen)
	glog.Infof("debug-listen: %q", *debugListen)
	glog.Infof("dictionary: %q", *dictionarySource)
	glog.Infof("cache-dir: %q", *cacheDir)
	glog.Infof("workers: %d", *workers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *dictionarySource == "" {
		glog.Fatalf("--dictionary is required")
	}

	if *monitoring {
		metricsOpts := []cloudmetrics.Option{}
		traceOpts := []cloudtrace.Option{}
		if *monitoringProject != "" {
			metricsOpts = append(metricsOpts, cloudmetrics.WithProjectID(*monitoringProject))
			traceOpts = append(traceOpts, cloudtrace.WithProjectID(*monitoringProject))
		}

		_, traceShutdown, err := cloudtrace.InstallNewPipeline(traceOpts, sdktrace.WithSampler(sdktrace.TraceIDRatioBased(*monitoringTraceRatio)))
		if err != nil {
			glog.Fatalf("Failed to install Cloud Trace OpenTelemetry trace pipeline: %v", err)
		}
		defer traceShutdown()

		pusher, err := cloudmetrics.InstallNewPipeline(metricsOpts)
		if err != nil {
			glog.Fatalf("Failed to install Cloud Metrics OpenTelemetry meter pipeline: %v", err)
		}
		defer pusher.Stop(ctx)
	}

	if err := httpmetrics.RegisterViews(); err != nil {
		glog.Fatalf("Failed to register HTTP metric views: %v", err)
	}
	if *stackdriverViews {
		exporter, err := stackdriver.NewExporter(stackdriver.Options{
			ProjectID:         *monitoringProject,
			MetricPrefix:      "boggled",
			ReportingInterval: 60 * time.Second,
		})
		if err != nil {
			glog.Fatalf("Failed to create Stackdriver exporter: %v", err)
		}
		if err := exporter.StartMetricsExporter(); err != nil {
			glog.Fatalf("Failed to start Stackdriver metrics exporter: %v", err)
		}
		defer exporter.Flush()
		defer exporter.StopMetricsExporter()
	}

	// The debug server comes up first so that readiness reflects dictionary
	// loading.
	var ready atomic.Bool
	debugServeMux := http.NewServeMux()
	debugServeMux.Handle("/healthz", healthz.New(nil))
	debugServeMux.Handle("/readyz", healthz.New(ready.Load))
	debugServer := &http.Server{
		Addr:    *debugListen,
		Handler: debugServeMux,

		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		if err := debugServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("Debug server died: %v", err)
		}
	}()

	words, _, err := dictionary.Load(ctx, *dictionarySource)
	if err != nil {
		glog.Fatalf("Failed to load dictionary: %v", err)
	}

	s, err := solver.New(words, solver.WithWorkers(*workers))
	if err != nil {
		glog.Fatalf("Failed to build solver: %v", err)
	}
	glog.Infof("Built dictionary trie: words=%d nodes=%d fingerprint=%016x", s.Trie().Len(), s.Trie().NodeCount(), s.Fingerprint())

	handlerOpts := []solver.HandlerOpt{
		solver.WithMaxConcurrentSolves(*maxConcurrentSolves),
		solver.WithSolveTimeout(*solveTimeout),
	}
	if *solveRateLimit > 0 {
		handlerOpts = append(handlerOpts, solver.WithRateLimiter(rate.NewLimiter(rate.Limit(*solveRateLimit), int(*maxConcurrentSolves))))
	}
	if *cacheDir != "" {
		cache, err := solvecache.Open(*cacheDir, *clearCache, solvecache.WithTTL(*cacheTTL))
		if err != nil {
			glog.Fatalf("Failed to open solve cache: %v", err)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				glog.Errorf("Error closing solve cache: %v", err)
			}
		}()
		handlerOpts = append(handlerOpts, solver.WithResultCache(cache))
	}

	h := solver.NewHandler(s, handlerOpts...)

	serveMux := http.NewServeMux()
	serveMux.Handle("/solve", httpmetrics.New("solve", http.HandlerFunc(h.ServeSolve)))
	serveMux.Handle("/score", httpmetrics.New("score", http.HandlerFunc(h.ServeScore)))

	server := &http.Server{
		Addr:    *listen,
		Handler: serveMux,

		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("Error while serving http: %v", err)
		}
	}()

	ready.Store(true)
	glog.Infof("Serving")

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	<-signalCh

	glog.Infof("Shutting down")
	ready.Store(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("Error shutting down server: %v", err)
	}
	if err := debugServer.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("Error shutting down debug server: %v", err)
	}

	glog.Flush()
}
