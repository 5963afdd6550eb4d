// Package metrics
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scriptscraper_pages_fetched_total",
			Help: "Pages fetched, labeled by pipeline stage and outcome.",
		},
		[]string{"stage", "outcome"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scriptscraper_fetch_duration_seconds",
			Help:    "Duration of page fetches in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	LinksCollected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scriptscraper_links_collected_total",
			Help: "Hrefs collected from content containers.",
		},
	)
	TranscriptBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scriptscraper_transcript_bytes_written_total",
			Help: "Bytes of transcript text written to disk.",
		},
	)
	Faults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scriptscraper_faults_total",
			Help: "Faults that ended a run, labeled by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(PagesFetched)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(LinksCollected)
	prometheus.MustRegister(TranscriptBytes)
	prometheus.MustRegister(Faults)
}

// ObserveFetch records one fetch attempt for stage.
func ObserveFetch(stage string, started time.Time, err error) {
	FetchDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	PagesFetched.WithLabelValues(stage, outcome).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Exposing Prometheus metrics", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Failed to start Prometheus metrics server", "error", err)
		return err
	}
	return nil
}
