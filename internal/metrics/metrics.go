// Package metrics exposes Prometheus collectors for page loads.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matheuskafuri/trendly/internal/pager"
)

// Recorder implements pager.Observer.
type Recorder struct {
	registry *prometheus.Registry
	fetches  *prometheus.CounterVec
	articles *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ pager.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendly_fetches_total",
				Help: "Page fetches by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		articles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendly_articles_added_total",
				Help: "Distinct articles merged into the session.",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendly_fetch_duration_seconds",
				Help:    "Duration of page fetches.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
	r.registry.MustRegister(r.fetches, r.articles, r.duration)
	return r
}

func (r *Recorder) Observe(e pager.Event) {
	kind := string(e.Kind)
	r.fetches.WithLabelValues(kind, string(e.Outcome)).Inc()
	if e.Added > 0 {
		r.articles.WithLabelValues(kind).Add(float64(e.Added))
	}
	r.duration.WithLabelValues(kind).Observe(e.Duration.Seconds())
}

// Handler serves /metrics and /healthz.
func (r *Recorder) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	return mux
}

// Serve runs the metrics endpoint on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
