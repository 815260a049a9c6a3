// internal/metrics/prometheus.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
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
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Evaluation metrics
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Total number of evaluations by resulting status",
		},
		[]string{"source", "status"},
	)

	findingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_findings_total",
			Help: "Total number of alarm and warning findings by rule",
		},
		[]string{"severity", "code"},
	)

	unitStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unit_status_code",
			Help: "Current status block code per unit (0 unknown, 1 running, 2 warning, 3 alarm, 4 source error)",
		},
		[]string{"unit"},
	)

	// Device IO metrics
	sourceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_errors_total",
			Help: "Total number of failed parameter polls",
		},
		[]string{"unit"},
	)

	statusWriteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "status_write_errors_total",
			Help: "Total number of failed status block writes",
		},
		[]string{"unit"},
	)

	eventPublishErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_errors_total",
			Help: "Total number of failed transition event publishes",
		},
		[]string{"unit"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency.
// path must be a route pattern, never a raw URL, to bound label cardinality.
func Middleware(path func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			p := path(r)
			httpRequestsTotal.WithLabelValues(r.Method, p, strconv.Itoa(wrapped.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, p).Observe(time.Since(start).Seconds())
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// --- Evaluation helpers ---

// RecordEvaluation records one evaluation outcome.
// source is "api" or "poll".
func RecordEvaluation(source, status string, alarmCodes, warningCodes []string) {
	evaluationsTotal.WithLabelValues(source, status).Inc()
	for _, c := range alarmCodes {
		findingsTotal.WithLabelValues("alarm", c).Inc()
	}
	for _, c := range warningCodes {
		findingsTotal.WithLabelValues("warning", c).Inc()
	}
}

// RecordUnitStatus sets the current status code of a unit.
func RecordUnitStatus(unit string, code uint16) {
	unitStatus.WithLabelValues(unit).Set(float64(code))
}

// RecordSourceError counts one failed poll.
func RecordSourceError(unit string) {
	sourceErrorsTotal.WithLabelValues(unit).Inc()
}

// RecordStatusWriteError counts one failed status block write.
func RecordStatusWriteError(unit string) {
	statusWriteErrorsTotal.WithLabelValues(unit).Inc()
}

// RecordEventPublishError counts one failed transition publish.
func RecordEventPublishError(unit string) {
	eventPublishErrorsTotal.WithLabelValues(unit).Inc()
}
