package lib

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total bookings created by outcome",
		},
		[]string{"status"},
	)

	paymentsReviewed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_reviewed_total",
			Help: "Total payment reviews by decision",
		},
		[]string{"decision"},
	)
)

func TrackRequest(method, path, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func TrackBookingCreated(status string) {
	bookingsCreated.WithLabelValues(status).Inc()
}

func TrackPaymentReviewed(decision string) {
	paymentsReviewed.WithLabelValues(decision).Inc()
}
