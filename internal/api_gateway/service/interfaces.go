package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/assignment"
	"github.com/hotel-booking-ledger/internal/domain/booking"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/pricing"
	"github.com/hotel-booking-ledger/internal/domain/resource"
)

// ResourceService defines the interface for the resource catalog and live quotes
type ResourceService interface {
	// ListResources returns every resource, or those of one category when category is set
	ListResources(ctx context.Context, category resource.Category) ([]*resource.Resource, error)

	// GetResource returns NotFoundError if the resource doesn't exist
	GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error)

	// Quote prices a prospective booking without writing anything
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

// BookingService defines the interface for booking lifecycle operations
type BookingService interface {
	// CreateBooking prices and stores a confirmed booking, opening an invoice
	// in the same transaction when a settlement is requested.
	// Returns ConflictError if the resource is already booked for the window.
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error)

	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)

	// ListBookings returns one page of bookings and the total count matching filter
	ListBookings(ctx context.Context, filter booking.Filter, page, perPage int) ([]*booking.Booking, int64, error)

	// TransitionBooking completes or cancels a confirmed booking.
	// Cancelling also cancels the booking's open invoices.
	TransitionBooking(ctx context.Context, id uuid.UUID, to booking.Status) (*booking.Booking, error)

	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

// InvoiceService defines the interface for the invoice ledger
type InvoiceService interface {
	CreateInvoice(ctx context.Context, params invoice.NewEntryParams) (*invoice.Entry, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Entry, error)
	ListInvoices(ctx context.Context, filter invoice.Filter, page, perPage int) ([]*invoice.Entry, int64, error)

	// CancelInvoice voids a pending or partial invoice, InvalidStateError otherwise
	CancelInvoice(ctx context.Context, id uuid.UUID) (*invoice.Entry, error)
}

// PaymentService defines the interface for asynchronous payment requests
type PaymentService interface {
	// RequestPayment validates the payment against the invoice and hands it to
	// the processor. Returns the payment id and whether it was accepted earlier
	// under the same idempotency key.
	RequestPayment(ctx context.Context, input PaymentInput) (uuid.UUID, bool, error)

	// GetPayment returns NotFoundError if no record exists for the id
	GetPayment(ctx context.Context, paymentID uuid.UUID) (*payment.Record, error)

	// ListPayments returns the payment history of an invoice, newest first
	ListPayments(ctx context.Context, invoiceID uuid.UUID, page, perPage int) ([]*payment.Record, int64, error)
}

// AssignmentService defines the interface for staff task assignments
type AssignmentService interface {
	Assign(ctx context.Context, params assignment.NewTaskParams) (*assignment.Task, error)

	// Complete marks an open task done, InvalidStateError otherwise
	Complete(ctx context.Context, id uuid.UUID, at time.Time) (*assignment.Task, error)

	// ListForStaff returns the tasks of a staff member with shift dates in [from, to]
	ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*assignment.Task, error)
}

// IdempotencyKeys binds client idempotency keys to the payment request they first carried
type IdempotencyKeys interface {
	Reserve(ctx context.Context, key string, b payment.KeyBinding) (payment.KeyBinding, bool, error)
	Release(ctx context.Context, key string) error
}

// QuoteInput describes a prospective booking. A zero CheckOut falls back to
// the default window of the resource's category.
type QuoteInput struct {
	ResourceID uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Extras     []pricing.Extra
}

// QuoteResult is a quote together with the range it was computed for
type QuoteResult struct {
	Resource *resource.Resource
	Range    pricing.DateRange
	Quote    pricing.Quote
}

// Settlement selects whether an invoice is opened with a new booking
type Settlement string

const (
	SettlementNone     Settlement = "none"
	SettlementPayLater Settlement = "pay_later"
	SettlementPayNow   Settlement = "pay_now"
)

// Valid reports whether s is a known settlement; empty means none
func (s Settlement) Valid() bool {
	switch s {
	case "", SettlementNone, SettlementPayLater, SettlementPayNow:
		return true
	}
	return false
}

// CreateBookingInput carries a booking request after transport decoding
type CreateBookingInput struct {
	ResourceID uuid.UUID
	RoomID     *uuid.UUID
	ClientID   *uuid.UUID
	GuestName  string
	CheckIn    time.Time
	CheckOut   time.Time
	Extras     []pricing.Extra
	CreatedBy  *uuid.UUID
	Settlement Settlement
	Method     invoice.Method // Required for pay_now
	DueDate    *time.Time
}

// BookingResult is the stored booking and the invoice opened with it, if any
type BookingResult struct {
	Booking *booking.Booking
	Invoice *invoice.Entry
	Quote   pricing.Quote
}

// PaymentInput carries a payment request after transport decoding
type PaymentInput struct {
	InvoiceID      uuid.UUID
	Amount         int64
	Method         invoice.Method
	IdempotencyKey string
	CorrelationID  string
}
