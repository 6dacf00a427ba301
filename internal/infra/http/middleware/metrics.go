package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_synced_total",
			Help: "Leads newly stored, by ingestion path",
		},
		[]string{"source"},
	)

	leadsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_fetched_total",
			Help: "Leads fetched from the remote source, duplicates included",
		},
	)

	syncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Campaign sync runs by outcome",
		},
		[]string{"status"},
	)

	rateLimitDeferrals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_deferrals_total",
			Help: "Pages skipped because their cooldown window was open",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadsSynced(source string, n int) {
	if n > 0 {
		leadsSynced.WithLabelValues(source).Add(float64(n))
	}
}

func RecordLeadsFetched(n int) {
	if n > 0 {
		leadsFetched.Add(float64(n))
	}
}

func RecordSyncRun(status string) {
	syncRuns.WithLabelValues(status).Inc()
}

func RecordRateLimitDeferrals(n int) {
	if n > 0 {
		rateLimitDeferrals.Add(float64(n))
	}
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
