package shared

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRequest is the Kafka message asking the processor to apply a payment to an invoice
type PaymentRequest struct {
	PaymentID      uuid.UUID `json:"payment_id"`
	InvoiceID      uuid.UUID `json:"invoice_id"`
	Amount         int64     `json:"amount"` // Stored in cents/minor units
	Method         string    `json:"method"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	CorrelationID  string    `json:"correlation_id"`
	Timestamp      time.Time `json:"timestamp"`
}
