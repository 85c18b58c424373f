package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "certicredia",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "certicredia",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// Profile mutation metrics
	profileMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "certicredia",
			Subsystem: "profile",
			Name:      "mutations_total",
			Help:      "Total number of compliance profile mutations",
		},
		[]string{"operation"},
	)

	aggregateRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "certicredia",
			Subsystem: "scoring",
			Name:      "aggregate_runs_total",
			Help:      "Total number of aggregate recomputations",
		},
	)

	// Accreditation lifecycle metrics
	caseTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "certicredia",
			Subsystem: "accreditation",
			Name:      "transitions_total",
			Help:      "Total number of accreditation case transitions",
		},
		[]string{"from", "to", "outcome"},
	)

	auditFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "certicredia",
			Subsystem: "audit",
			Name:      "failures_total",
			Help:      "Total number of failed mandatory audit writes",
		},
	)
)

// RecordProfileMutation increments the mutation counter for an operation
func RecordProfileMutation(operation string) {
	profileMutationsTotal.WithLabelValues(operation).Inc()
}

// RecordAggregateRun increments the aggregate recomputation counter
func RecordAggregateRun() {
	aggregateRunsTotal.Inc()
}

// RecordCaseTransition increments the transition counter
func RecordCaseTransition(from, to, outcome string) {
	caseTransitionsTotal.WithLabelValues(from, to, outcome).Inc()
}

// RecordAuditFailure increments the audit failure counter
func RecordAuditFailure() {
	auditFailuresTotal.Inc()
}

// Handler returns the prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware instruments HTTP requests with prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := strconv.Itoa(ww.status)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
