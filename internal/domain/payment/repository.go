package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// Repository manages payment record persistence with pagination support
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*Record, error)
	ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*Record, error)
	CountByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status shared.PaymentStatus, reason string) error

	// Save inserts or replaces the record keyed by payment id
	Save(ctx context.Context, record *Record) error
}

// ErrDuplicateRecord indicates payment id uniqueness violation
type ErrDuplicateRecord struct {
	PaymentID uuid.UUID
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate payment record: " + e.PaymentID.String()
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	return t.PaymentID == uuid.Nil || e.PaymentID == t.PaymentID
}
