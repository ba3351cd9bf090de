package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Filter narrows List results. Zero fields are ignored.
type Filter struct {
	ResourceID *uuid.UUID
	ClientID   *uuid.UUID
	Status     Status
}

// Repository defines booking persistence operations
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Booking, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// LockResource row-locks the booked resource so overlap checks and inserts
	// for it run one transaction at a time
	LockResource(ctx context.Context, resourceID uuid.UUID) error

	// HasOverlap reports whether a confirmed booking of the resource intersects [from, to)
	HasOverlap(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (bool, error)

	// UpdateStatus writes the new status only if the stored version still equals version-1
	UpdateStatus(ctx context.Context, b *Booking) error

	// LockForUpdate acquires a row lock for the surrounding transaction
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error)
	WithTx(tx pgx.Tx) Repository
}
