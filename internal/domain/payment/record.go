// Package payment holds the audit trail of payment requests kept in the
// document store. Every request ends up as exactly one record.
package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// Record is the history entry of one payment request
type Record struct {
	PaymentID       uuid.UUID            `json:"payment_id" bson:"payment_id"`
	InvoiceID       uuid.UUID            `json:"invoice_id" bson:"invoice_id"`
	Amount          int64                `json:"amount" bson:"amount"`                 // Stored in cents/minor units
	AppliedAmount   int64                `json:"applied_amount" bson:"applied_amount"` // Part of Amount actually credited
	Method          string               `json:"method" bson:"method"`
	IdempotencyKey  string               `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CorrelationID   string               `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Status          shared.PaymentStatus `json:"status" bson:"status"`
	FailureReason   string               `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	InvoiceStatus   string               `json:"invoice_status,omitempty" bson:"invoice_status,omitempty"`
	RemainingAmount int64                `json:"remaining_amount" bson:"remaining_amount"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	ProcessedAt     *time.Time           `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}

// NewRecord starts the history of a request in the given status
func NewRecord(req *shared.PaymentRequest, status shared.PaymentStatus) *Record {
	createdAt := req.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &Record{
		PaymentID:      req.PaymentID,
		InvoiceID:      req.InvoiceID,
		Amount:         req.Amount,
		Method:         req.Method,
		IdempotencyKey: req.IdempotencyKey,
		CorrelationID:  req.CorrelationID,
		Status:         status,
		CreatedAt:      createdAt,
	}
}

// Final reports whether the record reached COMPLETED or FAILED
func (r *Record) Final() bool {
	return r.Status == shared.PaymentStatusCompleted || r.Status == shared.PaymentStatusFailed
}
