package httpx

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
			Name: "planner_http_requests_total",
			Help: "Total number of handled HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request handling time in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AppointmentsCreated counts accepted appointments by kind.
	AppointmentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_appointments_created_total",
			Help: "Total number of appointments created, by kind.",
		},
		[]string{"kind"},
	)

	// AppointmentsRejected counts availability rejections by resource.
	AppointmentsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_appointments_rejected_total",
			Help: "Total number of creations rejected by the availability check, by contested resource.",
		},
		[]string{"resource"},
	)
)

func WithMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusCapturingResponseWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
