package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
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

	remoteRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_call_retries_total",
			Help: "Total number of retried remote calls",
		},
		[]string{"operation"},
	)

	mockFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mock_fallbacks_total",
			Help: "Total number of results served from simulated data",
		},
		[]string{"operation"},
	)

	crmSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_sync_total",
			Help: "Total number of CRM exports",
		},
		[]string{"platform", "status"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)

	leadsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_generated_total",
			Help: "Total number of leads produced by searches",
		},
		[]string{"source"},
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

// Metrics records request counts and latency labelled by the matched chi
// route, so lead ids do not end up in label values.
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
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Recorder exposes the domain counters to the use cases.
type Recorder struct{}

func (Recorder) RemoteRetry(operation string) {
	remoteRetries.WithLabelValues(operation).Inc()
}

func (Recorder) MockFallback(operation string) {
	mockFallbacks.WithLabelValues(operation).Inc()
}

func (Recorder) CRMSync(platform, status string) {
	crmSyncs.WithLabelValues(platform, status).Inc()
}

func (Recorder) IntegrationError(service string) {
	RecordIntegrationError(service)
}

func (Recorder) LeadsGenerated(source string, n int) {
	if n > 0 {
		leadsGenerated.WithLabelValues(source).Add(float64(n))
	}
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
