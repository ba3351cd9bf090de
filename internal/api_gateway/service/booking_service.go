package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/booking"
	"github.com/hotel-booking-ledger/internal/domain/client"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/pricing"
	"github.com/hotel-booking-ledger/internal/domain/resource"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/observability/metrics"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// BookingServiceImpl implements the BookingService interface
type BookingServiceImpl struct {
	db           persistence.TxBeginner
	bookingRepo  booking.Repository
	invoiceRepo  invoice.Repository
	catalog      resource.Catalog
	directory    client.Directory
	engine       *pricing.Engine
	overlapCheck bool
	logger       *slog.Logger
}

// BookingServiceDeps groups the collaborators of the booking service
type BookingServiceDeps struct {
	DB           persistence.TxBeginner
	Bookings     booking.Repository
	Invoices     invoice.Repository
	Catalog      resource.Catalog
	Directory    client.Directory
	Engine       *pricing.Engine
	OverlapCheck bool
}

// NewBookingService creates a new booking service
func NewBookingService(logger *slog.Logger, deps BookingServiceDeps) BookingService {
	return &BookingServiceImpl{
		db:           deps.DB,
		bookingRepo:  deps.Bookings,
		invoiceRepo:  deps.Invoices,
		catalog:      deps.Catalog,
		directory:    deps.Directory,
		engine:       deps.Engine,
		overlapCheck: deps.OverlapCheck,
		logger:       logger,
	}
}

// CreateBooking validates the request, prices it and stores the booking with
// its invoice in one transaction. Nothing is written when validation fails.
func (s *BookingServiceImpl) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error) {
	if !input.Settlement.Valid() {
		return nil, shared.ValidationError{Field: "settlement", Reason: "unknown settlement " + string(input.Settlement)}
	}
	settlement := input.Settlement
	if settlement == "" {
		settlement = SettlementNone
	}
	if settlement == SettlementPayNow && !input.Method.Valid() {
		return nil, shared.ValidationError{Field: "method", Reason: "a valid payment method is required to pay now"}
	}
	if input.ResourceID == uuid.Nil {
		return nil, shared.ValidationError{Field: "resource_id", Reason: "is required"}
	}

	res, err := s.catalog.GetByID(ctx, input.ResourceID)
	if err != nil {
		return nil, err
	}

	guestName := input.GuestName
	if input.ClientID != nil {
		c, err := s.directory.FindByID(ctx, *input.ClientID)
		if err != nil {
			return nil, err
		}
		if guestName == "" {
			guestName = c.Name
		}
	}

	r := pricing.DateRange{From: input.CheckIn, To: input.CheckOut}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.engine.Quote(res, r, input.Extras)
	if err != nil {
		return nil, err
	}

	b, err := booking.NewBooking(booking.NewBookingParams{
		Resource:  res,
		RoomID:    input.RoomID,
		GuestName: guestName,
		ClientID:  input.ClientID,
		Range:     r,
		Quote:     quote,
		CreatedBy: input.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	var entry *invoice.Entry
	if settlement != SettlementNone {
		entry, err = invoice.NewEntry(invoice.NewEntryParams{
			BookingID:   &b.ID,
			Description: fmt.Sprintf("%s %s to %s", res.Name, b.CheckIn.Format(time.DateOnly), b.CheckOut.Format(time.DateOnly)),
			Amount:      b.Amount,
			DueDate:     input.DueDate,
			ClientID:    input.ClientID,
			StaffID:     input.CreatedBy,
			Category:    string(res.Category),
			Subcategory: res.Name,
		})
		if err != nil {
			return nil, err
		}
		if settlement == SettlementPayNow {
			if _, err := entry.ApplyPayment(entry.Amount, input.Method, time.Now()); err != nil {
				return nil, err
			}
		}
	}

	err = persistence.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		bookings := s.bookingRepo.WithTx(tx)

		if s.overlapCheck {
			if err := bookings.LockResource(ctx, b.ResourceID); err != nil {
				return err
			}
			overlaps, err := bookings.HasOverlap(ctx, b.ResourceID, b.CheckIn, b.CheckOut)
			if err != nil {
				return err
			}
			if overlaps {
				return shared.ConflictError{Entity: "resource", ID: b.ResourceID, Reason: "already booked for the requested window"}
			}
		}

		if err := bookings.Create(ctx, b); err != nil {
			return err
		}
		if entry != nil {
			return s.invoiceRepo.WithTx(tx).Create(ctx, entry)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create booking",
			"resource_id", input.ResourceID.String(),
			"settlement", string(settlement),
			"error", err,
		)
		return nil, err
	}

	metrics.IncBookingCreated(string(res.Category), string(settlement))
	s.logger.Info("Booking created",
		"booking_id", b.ID.String(),
		"resource_id", b.ResourceID.String(),
		"units", b.Units,
		"amount", b.Amount,
		"settlement", string(settlement),
	)

	return &BookingResult{Booking: b, Invoice: entry, Quote: quote}, nil
}

// GetBooking retrieves a booking by its ID
func (s *BookingServiceImpl) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// ListBookings returns one page of bookings and the total count
func (s *BookingServiceImpl) ListBookings(ctx context.Context, filter booking.Filter, page, perPage int) ([]*booking.Booking, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, shared.ValidationError{Field: "status", Reason: "unknown booking status " + string(filter.Status)}
	}
	offset := (page - 1) * perPage

	bookings, err := s.bookingRepo.List(ctx, filter, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.bookingRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// TransitionBooking locks the booking, applies the transition and writes it
// back under the version guard
func (s *BookingServiceImpl) TransitionBooking(ctx context.Context, id uuid.UUID, to booking.Status) (*booking.Booking, error) {
	var updated *booking.Booking

	err := persistence.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		bookings := s.bookingRepo.WithTx(tx)

		b, err := bookings.LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := b.Transition(to); err != nil {
			return err
		}
		if err := bookings.UpdateStatus(ctx, b); err != nil {
			return err
		}

		if to == booking.StatusCanceled {
			if err := s.cancelOpenInvoices(ctx, s.invoiceRepo.WithTx(tx), b.ID); err != nil {
				return err
			}
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking transitioned", "booking_id", id.String(), "status", string(to))
	return updated, nil
}

func (s *BookingServiceImpl) cancelOpenInvoices(ctx context.Context, invoices invoice.Repository, bookingID uuid.UUID) error {
	entries, err := invoices.GetOpenByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, entry := range entries {
		if err := entry.Cancel(now); err != nil {
			return err
		}
		if err := invoices.Update(ctx, entry); err != nil {
			return err
		}
		s.logger.Info("Invoice cancelled with booking", "invoice_id", entry.ID.String(), "booking_id", bookingID.String())
	}
	return nil
}

// DeleteBooking removes a booking in any state
func (s *BookingServiceImpl) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Booking deleted", "booking_id", id.String())
	return nil
}
