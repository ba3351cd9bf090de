package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// Status is the settlement state of a ledger entry
type Status string

const (
	StatusPending   Status = "pending"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Type is the ledger classification shown in reports, derived from Status
type Type string

const (
	TypePayment Type = "payment"
	TypeRefund  Type = "refund"
	TypePending Type = "pending"
	TypePartial Type = "partial"
)

// Method is how a payment was taken
type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
)

// Valid reports whether m is a known payment method
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

// TypeFor maps a status onto its ledger type
func TypeFor(s Status) Type {
	switch s {
	case StatusPaid:
		return TypePayment
	case StatusCancelled:
		return TypeRefund
	case StatusPartial:
		return TypePartial
	default:
		return TypePending
	}
}

// DeriveStatus is the status implied by an amount and what has been paid on it
func DeriveStatus(amount, paid int64) Status {
	switch {
	case paid >= amount:
		return StatusPaid
	case paid > 0:
		return StatusPartial
	default:
		return StatusPending
	}
}

// Entry is one charge in the invoice ledger and its running settlement
type Entry struct {
	ID              uuid.UUID  `json:"id"`
	BookingID       *uuid.UUID `json:"booking_id,omitempty"`
	Description     string     `json:"description"`
	Amount          int64      `json:"amount"`           // Stored in cents/minor units
	PaidAmount      int64      `json:"paid_amount"`      // Stored in cents/minor units
	RemainingAmount int64      `json:"remaining_amount"` // Stored in cents/minor units
	Status          Status     `json:"status"`
	Type            Type       `json:"type"`
	Method          Method     `json:"method,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	LastPaymentAt   *time.Time `json:"last_payment_at,omitempty"`
	ClientID        *uuid.UUID `json:"client_id,omitempty"`
	StaffID         *uuid.UUID `json:"staff_id,omitempty"`
	Category        string     `json:"category,omitempty"`
	Subcategory     string     `json:"subcategory,omitempty"`
	Version         int        `json:"version"` // For optimistic locking
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewEntryParams describes a charge to open
type NewEntryParams struct {
	BookingID   *uuid.UUID
	Description string
	Amount      int64
	DueDate     *time.Time
	ClientID    *uuid.UUID
	StaffID     *uuid.UUID
	Category    string
	Subcategory string
}

// NewEntry opens a pending entry with nothing paid
func NewEntry(p NewEntryParams) (*Entry, error) {
	if p.Amount <= 0 {
		return nil, shared.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return nil, shared.ValidationError{Field: "description", Reason: "is required"}
	}

	now := time.Now().UTC()
	return &Entry{
		ID:              uuid.New(),
		BookingID:       p.BookingID,
		Description:     description,
		Amount:          p.Amount,
		PaidAmount:      0,
		RemainingAmount: p.Amount,
		Status:          StatusPending,
		Type:            TypePending,
		DueDate:         p.DueDate,
		ClientID:        p.ClientID,
		StaffID:         p.StaffID,
		Category:        p.Category,
		Subcategory:     p.Subcategory,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// CheckPayable returns the error a payment against the entry would fail with, if any
func (e *Entry) CheckPayable(amount int64, method Method) error {
	if amount <= 0 {
		return shared.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !method.Valid() {
		return shared.ValidationError{Field: "method", Reason: "unknown payment method " + string(method)}
	}
	switch e.Status {
	case StatusCancelled, StatusPaid:
		return shared.InvalidStateError{Entity: "invoice", ID: e.ID, From: string(e.Status), To: string(StatusPaid)}
	}
	return nil
}

// ApplyPayment records amount against the entry and returns the part that was
// applied. A payment larger than what remains settles the entry and the
// surplus is not applied.
func (e *Entry) ApplyPayment(amount int64, method Method, at time.Time) (int64, error) {
	if err := e.CheckPayable(amount, method); err != nil {
		return 0, err
	}

	applied := amount
	if applied > e.RemainingAmount {
		applied = e.RemainingAmount
	}

	e.PaidAmount += applied
	if e.PaidAmount > e.Amount {
		e.PaidAmount = e.Amount
	}
	e.RemainingAmount = e.Amount - e.PaidAmount
	if e.RemainingAmount < 0 {
		e.RemainingAmount = 0
	}
	e.Status = DeriveStatus(e.Amount, e.PaidAmount)
	e.Type = TypeFor(e.Status)
	e.Method = method
	paidAt := at.UTC()
	e.LastPaymentAt = &paidAt
	e.UpdatedAt = paidAt
	e.Version++

	return applied, nil
}

// Cancel voids a pending or partially paid entry
func (e *Entry) Cancel(at time.Time) error {
	if e.Status != StatusPending && e.Status != StatusPartial {
		return shared.InvalidStateError{Entity: "invoice", ID: e.ID, From: string(e.Status), To: string(StatusCancelled)}
	}

	e.Status = StatusCancelled
	e.Type = TypeFor(e.Status)
	e.UpdatedAt = at.UTC()
	e.Version++
	return nil
}
