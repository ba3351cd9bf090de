// Package metrics exposes Prometheus counters and histograms for the gateway
// and the payment processor. Every helper is a no-op until Init has run.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "hotel_ledger_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	paymentRequests   *prometheus.CounterVec
	paymentsProcessed *prometheus.CounterVec
	paymentLatency    *prometheus.HistogramVec

	outboxPublished *prometheus.CounterVec
	outboxBatchSize prometheus.Histogram

	bookingsCreated *prometheus.CounterVec

	workerPoolRunning prometheus.Gauge
)

// Init registers all collectors on the default registry
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		paymentRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payment_requests_total",
				Help: "Payment requests received by the gateway by outcome",
			},
			[]string{"outcome"},
		)
		paymentsProcessed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payments_processed_total",
				Help: "Payment requests handled by the processor by result",
			},
			[]string{"result"},
		)
		paymentLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "payment_processing_seconds",
				Help:    "Time to apply a payment request in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		outboxPublished = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "outbox_messages_total",
				Help: "Outbox messages handled by the poller by result",
			},
			[]string{"result"},
		)
		outboxBatchSize = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "outbox_batch_size",
				Help:    "Pending outbox messages fetched per poll",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		)

		bookingsCreated = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bookings_created_total",
				Help: "Bookings created by resource category and settlement mode",
			},
			[]string{"category", "settlement"},
		)

		workerPoolRunning = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "worker_pool_running",
				Help: "Payment workers currently running",
			},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			paymentRequests,
			paymentsProcessed,
			paymentLatency,
			outboxPublished,
			outboxBatchSize,
			bookingsCreated,
			workerPoolRunning,
		)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records one served request. route is the matched route
// pattern, not the raw path.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

// IncPaymentRequest counts a gateway payment request by outcome
func IncPaymentRequest(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	if paymentRequests != nil {
		paymentRequests.WithLabelValues(outcome).Inc()
	}
}

// ObservePaymentProcessed records the result and duration of one processed request
func ObservePaymentProcessed(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if paymentsProcessed != nil {
		paymentsProcessed.WithLabelValues(result).Inc()
	}
	if paymentLatency != nil {
		paymentLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncOutboxMessage counts an outbox message by result
func IncOutboxMessage(result string) {
	if result == "" {
		result = resultSuccess
	}
	if outboxPublished != nil {
		outboxPublished.WithLabelValues(result).Inc()
	}
}

// ObserveOutboxBatch records how many messages one poll picked up
func ObserveOutboxBatch(size int) {
	if outboxBatchSize != nil {
		outboxBatchSize.Observe(float64(size))
	}
}

// IncBookingCreated counts a new booking
func IncBookingCreated(category, settlement string) {
	if settlement == "" {
		settlement = "none"
	}
	if bookingsCreated != nil {
		bookingsCreated.WithLabelValues(category, settlement).Inc()
	}
}

// SetWorkerPoolRunning reports the number of busy workers
func SetWorkerPoolRunning(n int) {
	if workerPoolRunning != nil {
		workerPoolRunning.Set(float64(n))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	PaymentResultCompleted = "completed"
	PaymentResultFailed    = "failed"
	PaymentResultRetry     = "retry"
	PaymentResultDLQ       = "dlq"

	PaymentOutcomeAccepted  = "accepted"
	PaymentOutcomeDuplicate = "duplicate"
	PaymentOutcomeRejected  = "rejected"

	OutboxResultPublished = "published"
	OutboxResultRetry     = "retry"
	OutboxResultAbandoned = "abandoned"
)
