package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Lease protocol metrics
	SessionsOpenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_opened_total",
			Help: "Total number of metered sessions opened",
		},
	)

	SessionsClosedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_closed_total",
			Help: "Total number of metered sessions closed and priced",
		},
	)

	LeaseConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lease_conflicts_total",
			Help: "Open attempts rejected because the station was already leased",
		},
	)

	ReleaseFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "release_failures_total",
			Help: "Release calls that failed after a session was priced",
		},
	)

	ForcedReleasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconciler_forced_releases_total",
			Help: "Stations force-released by the reconciler",
		},
	)
)

// RecordHTTPRequest records count and duration for one handled request.
func RecordHTTPRequest(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HTTPRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request except the scrape endpoint itself.
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			HTTPRequestsInFlight.WithLabelValues(service).Inc()
			defer HTTPRequestsInFlight.WithLabelValues(service).Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			RecordHTTPRequest(service, r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}
