package gateway

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tracks the number of outbound calls to the gateway.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_gateway_requests_total",
			Help: "Total number of gateway API requests made (by method and status).",
		},
		[]string{"method", "status"},
	)

	// Measures duration of gateway API requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_gateway_request_duration_seconds",
			Help:    "Duration of gateway API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"method"},
	)

	// Counts session-expired signals raised on 401 responses.
	SessionExpirations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_session_expirations_total",
			Help: "Number of session-expired signals emitted by the request gateway.",
		},
	)
)

func observeRequest(method, status string, start time.Time) {
	RequestsTotal.WithLabelValues(method, status).Inc()
	RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// StartMetricsServer exposes /metrics on addr in the background.
func StartMetricsServer(addr string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(addr, mux) //nolint:errcheck
	}()
}
