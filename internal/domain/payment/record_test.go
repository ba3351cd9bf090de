package payment

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestNewRecord(t *testing.T) {
	req := &shared.PaymentRequest{
		PaymentID:      uuid.New(),
		InvoiceID:      uuid.New(),
		Amount:         8000,
		Method:         "card",
		IdempotencyKey: "key-1",
		CorrelationID:  "corr-1",
		Timestamp:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	rec := NewRecord(req, shared.PaymentStatusPending)

	assert.Equal(t, req.PaymentID, rec.PaymentID)
	assert.Equal(t, req.InvoiceID, rec.InvoiceID)
	assert.Equal(t, int64(8000), rec.Amount)
	assert.Zero(t, rec.AppliedAmount)
	assert.Equal(t, "card", rec.Method)
	assert.Equal(t, shared.PaymentStatusPending, rec.Status)
	assert.Equal(t, req.Timestamp, rec.CreatedAt)
	assert.Nil(t, rec.ProcessedAt)
	assert.False(t, rec.Final())

	noTimestamp := NewRecord(&shared.PaymentRequest{PaymentID: uuid.New()}, shared.PaymentStatusFailed)
	assert.False(t, noTimestamp.CreatedAt.IsZero())
	assert.True(t, noTimestamp.Final())
}

func TestErrDuplicateRecord_Is(t *testing.T) {
	id := uuid.New()
	err := fmt.Errorf("insert: %w", ErrDuplicateRecord{PaymentID: id})

	assert.True(t, errors.Is(err, ErrDuplicateRecord{}))
	assert.True(t, errors.Is(err, ErrDuplicateRecord{PaymentID: id}))
	assert.False(t, errors.Is(err, ErrDuplicateRecord{PaymentID: uuid.New()}))
}
