package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PlanGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_plan_generations_total",
			Help: "Total number of query plan generations by outcome",
		},
		[]string{"status"},
	)

	SearchPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_search_pages_total",
			Help: "Total number of search result pages requested",
		},
		[]string{"provider", "status"},
	)

	SearchHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_search_hits_total",
			Help: "Total raw organic hits returned by search providers",
		},
		[]string{"provider"},
	)

	SearchPageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scout_search_page_duration_seconds",
			Help:    "Duration of search page requests in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	ProfilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_profiles_total",
			Help: "Total ingested hits by registry outcome",
		},
		[]string{"outcome"},
	)
)

// RecordPlan counts one plan generation attempt.
func RecordPlan(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	PlanGenerationsTotal.WithLabelValues(status).Inc()
}

// RecordPage records a single provider page request.
func RecordPage(provider string, hits int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	} else if hits == 0 {
		status = "empty"
	}

	SearchPagesTotal.WithLabelValues(provider, status).Inc()
	SearchPageDuration.WithLabelValues(provider).Observe(d.Seconds())
	if hits > 0 {
		SearchHitsTotal.WithLabelValues(provider).Add(float64(hits))
	}
}

// RecordProfile counts one registry ingest outcome (new, duplicate, rejected).
func RecordProfile(outcome string) {
	ProfilesTotal.WithLabelValues(outcome).Inc()
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
// Listen failures are reported on errc when it is non-nil.
func Start(port int, errc chan<- error) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if errc != nil {
				errc <- fmt.Errorf("metrics server: %w", err)
			}
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
