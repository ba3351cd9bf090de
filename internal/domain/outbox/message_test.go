package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *payment.Record {
	return &payment.Record{
		PaymentID:       uuid.New(),
		InvoiceID:       uuid.New(),
		Amount:          15000,
		AppliedAmount:   12000,
		Method:          "cash",
		Status:          shared.PaymentStatusProcessing,
		InvoiceStatus:   "paid",
		RemainingAmount: 0,
		CreatedAt:       time.Now().Add(-time.Minute).Truncate(time.Millisecond),
	}
}

func TestNewMessage(t *testing.T) {
	record := testRecord()

	beforeCreation := time.Now()
	msg, err := NewMessage(record)
	afterCreation := time.Now()

	require.NoError(t, err)
	assert.Equal(t, record.PaymentID, msg.PaymentID)
	assert.Equal(t, record.InvoiceID, msg.InvoiceID)
	assert.Equal(t, shared.OutboxStatusPending, msg.Status)
	assert.Equal(t, 0, msg.Attempts)
	assert.Nil(t, msg.LastAttemptAt)
	assert.WithinDuration(t, beforeCreation, msg.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)

	var decoded payment.Record
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, int64(12000), decoded.AppliedAmount)
}

func TestMessage_StateChanges(t *testing.T) {
	initialTime := time.Now().Add(-time.Hour)

	t.Run("IncrementAttempts", func(t *testing.T) {
		msg := &Message{Attempts: 1, LastAttemptAt: &initialTime}
		msg.IncrementAttempts()

		assert.Equal(t, 2, msg.Attempts)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
	})

	t.Run("MarkAsProcessed", func(t *testing.T) {
		msg := &Message{Status: shared.OutboxStatusPending, LastAttemptAt: &initialTime}
		msg.MarkAsProcessed()

		assert.Equal(t, shared.OutboxStatusProcessed, msg.Status)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
	})

	t.Run("MarkAsFailed", func(t *testing.T) {
		msg := &Message{Status: shared.OutboxStatusPending, LastAttemptAt: &initialTime}
		msg.MarkAsFailed()

		assert.Equal(t, shared.OutboxStatusFailedToPublish, msg.Status)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
	})
}

func TestMessage_GetPaymentRecord(t *testing.T) {
	original := testRecord()
	payload, err := json.Marshal(original)
	require.NoError(t, err)

	msg := &Message{Payload: payload}
	decoded, err := msg.GetPaymentRecord()

	require.NoError(t, err)
	assert.Equal(t, original.PaymentID, decoded.PaymentID)
	assert.Equal(t, original.Amount, decoded.Amount)
	assert.Equal(t, original.Status, decoded.Status)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))

	_, err = (&Message{Payload: json.RawMessage(`{"amount":`)}).GetPaymentRecord()
	assert.Error(t, err)
}
