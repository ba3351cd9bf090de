package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/pricing"
	"github.com/hotel-booking-ledger/internal/domain/resource"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// Status is the lifecycle state of a booking
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Booking reserves a resource for a window at a price fixed on creation
type Booking struct {
	ID         uuid.UUID         `json:"id"`
	ResourceID uuid.UUID         `json:"resource_id"`
	RoomID     *uuid.UUID        `json:"room_id,omitempty"`
	Category   resource.Category `json:"category"`
	GuestName  string            `json:"guest_name"`
	ClientID   *uuid.UUID        `json:"client_id,omitempty"`
	CheckIn    time.Time         `json:"check_in"`
	CheckOut   time.Time         `json:"check_out"`
	Units      int               `json:"units"`
	Amount     int64             `json:"amount"` // Stored in cents/minor units
	Extras     []pricing.Extra   `json:"extras"`
	Status     Status            `json:"status"`
	CreatedBy  *uuid.UUID        `json:"created_by,omitempty"`
	Version    int               `json:"version"` // For optimistic locking
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewBookingParams carries everything needed to open a booking. Quote must
// come from pricing.Engine for the same resource and range.
type NewBookingParams struct {
	Resource  *resource.Resource
	RoomID    *uuid.UUID
	GuestName string
	ClientID  *uuid.UUID
	Range     pricing.DateRange
	Quote     pricing.Quote
	CreatedBy *uuid.UUID
}

// NewBooking creates a confirmed booking with a snapshot of the quoted amount
func NewBooking(p NewBookingParams) (*Booking, error) {
	if p.Resource == nil {
		return nil, shared.ValidationError{Field: "resource_id", Reason: "is required"}
	}
	guest := strings.TrimSpace(p.GuestName)
	if guest == "" && p.ClientID == nil {
		return nil, shared.ValidationError{Field: "guest_name", Reason: "a guest name or a client is required"}
	}
	if err := p.Range.Validate(); err != nil {
		return nil, err
	}
	if p.Quote.Units < 1 {
		return nil, shared.ValidationError{Field: "units", Reason: "must be at least 1"}
	}

	extras := p.Quote.Extras
	if extras == nil {
		extras = []pricing.Extra{}
	}

	now := time.Now().UTC()
	return &Booking{
		ID:         uuid.New(),
		ResourceID: p.Resource.ID,
		RoomID:     p.RoomID,
		Category:   p.Resource.Category,
		GuestName:  guest,
		ClientID:   p.ClientID,
		CheckIn:    p.Range.From,
		CheckOut:   p.Range.To,
		Units:      p.Quote.Units,
		Amount:     p.Quote.Amount,
		Extras:     extras,
		Status:     StatusConfirmed,
		CreatedBy:  p.CreatedBy,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Transition moves a confirmed booking to completed or canceled.
// Every other move is an InvalidStateError.
func (b *Booking) Transition(to Status) error {
	if to != StatusCompleted && to != StatusCanceled {
		return shared.InvalidStateError{Entity: "booking", ID: b.ID, From: string(b.Status), To: string(to)}
	}
	if b.Status != StatusConfirmed {
		return shared.InvalidStateError{Entity: "booking", ID: b.ID, From: string(b.Status), To: string(to)}
	}

	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	b.Version++
	return nil
}
