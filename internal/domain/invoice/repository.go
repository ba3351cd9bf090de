package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Filter narrows List results. Zero fields are ignored.
type Filter struct {
	Status    Status
	ClientID  *uuid.UUID
	BookingID *uuid.UUID
}

// Repository defines invoice ledger persistence operations
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Entry, error)
	Count(ctx context.Context, filter Filter) (int64, error)

	// GetOpenByBookingID returns the pending or partial entries of a booking
	GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*Entry, error)

	// Update writes amounts, status and method in one statement, guarded by version
	Update(ctx context.Context, entry *Entry) error

	// LockForUpdate acquires a row lock for the surrounding transaction
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Entry, error)
	WithTx(tx pgx.Tx) Repository
}
