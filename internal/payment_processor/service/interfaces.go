package service

import (
	"context"

	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
)

// ProcessingService defines the interface for processing payment requests.
type ProcessingService interface {
	ProcessPayment(ctx context.Context, request *shared.PaymentRequest) error
}

// PaymentValidator validates payment requests before processing
type PaymentValidator interface {
	Validate(ctx context.Context, request *shared.PaymentRequest) error
	CheckIdempotency(ctx context.Context, request *shared.PaymentRequest) (bool, error)
}

// InvoiceManager locks the target invoice and applies the payment to it
type InvoiceManager interface {
	LockAndApplyPayment(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest) (*invoice.Entry, int64, error)
}

// OutboxManager writes the applied payment to the outbox in the same transaction
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest, updated *invoice.Entry, applied int64) error
}

// FailureRecorder records refused payments in the payment history
type FailureRecorder interface {
	RecordFailure(ctx context.Context, request *shared.PaymentRequest, reason shared.FailureReason) error
}
