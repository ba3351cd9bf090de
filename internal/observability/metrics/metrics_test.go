package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestHelpersRecord(t *testing.T) {
	Init()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/bookings/:id", "200"))
	ObserveHTTPRequest("GET", "/api/v1/bookings/:id", http.StatusOK, 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/bookings/:id", "200")))

	before = testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	ObserveHTTPRequest("GET", "", http.StatusNotFound, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))

	before = testutil.ToFloat64(paymentsProcessed.WithLabelValues(PaymentResultCompleted))
	ObservePaymentProcessed(PaymentResultCompleted, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(paymentsProcessed.WithLabelValues(PaymentResultCompleted)))

	before = testutil.ToFloat64(paymentRequests.WithLabelValues(PaymentOutcomeDuplicate))
	IncPaymentRequest(PaymentOutcomeDuplicate)
	assert.Equal(t, before+1, testutil.ToFloat64(paymentRequests.WithLabelValues(PaymentOutcomeDuplicate)))

	before = testutil.ToFloat64(bookingsCreated.WithLabelValues("room", "none"))
	IncBookingCreated("room", "")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCreated.WithLabelValues("room", "none")))

	before = testutil.ToFloat64(outboxPublished.WithLabelValues(OutboxResultAbandoned))
	IncOutboxMessage(OutboxResultAbandoned)
	assert.Equal(t, before+1, testutil.ToFloat64(outboxPublished.WithLabelValues(OutboxResultAbandoned)))

	SetWorkerPoolRunning(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(workerPoolRunning))

	ObserveOutboxBatch(7)
}

func TestHandlerExposesCollectors(t *testing.T) {
	Init()
	IncPaymentRequest(PaymentOutcomeAccepted)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hotel_ledger_payment_requests_total")
}
