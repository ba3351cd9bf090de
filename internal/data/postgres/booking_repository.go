package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/booking"
	"github.com/hotel-booking-ledger/internal/domain/pricing"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// BookingRepository implements the booking.Repository interface for PostgreSQL
type BookingRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewBookingRepository creates a new PostgreSQL booking repository
func NewBookingRepository(logger *slog.Logger, db *persistence.PostgresDB) booking.Repository {
	return &BookingRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *BookingRepository) WithTx(tx pgx.Tx) booking.Repository {
	return &BookingRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const bookingColumns = `id, resource_id, room_id, category, guest_name, client_id, check_in, check_out, units, amount, extras, status, created_by, version, created_at, updated_at`

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		b      booking.Booking
		extras []byte
	)
	err := row.Scan(
		&b.ID,
		&b.ResourceID,
		&b.RoomID,
		&b.Category,
		&b.GuestName,
		&b.ClientID,
		&b.CheckIn,
		&b.CheckOut,
		&b.Units,
		&b.Amount,
		&extras,
		&b.Status,
		&b.CreatedBy,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Extras = []pricing.Extra{}
	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &b.Extras); err != nil {
			return nil, fmt.Errorf("failed to decode extras of booking %s: %w", b.ID, err)
		}
	}
	return &b, nil
}

// Create stores a new booking. Only extras with a positive quantity are persisted.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (id, resource_id, room_id, category, guest_name, client_id, check_in, check_out, units, amount, extras, status, created_by, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	extras, err := json.Marshal(pricing.SelectedExtras(b.Extras))
	if err != nil {
		return fmt.Errorf("failed to encode extras: %w", err)
	}

	_, err = r.querier.Exec(ctx, query,
		b.ID,
		b.ResourceID,
		b.RoomID,
		string(b.Category),
		b.GuestName,
		b.ClientID,
		b.CheckIn,
		b.CheckOut,
		b.Units,
		b.Amount,
		extras,
		string(b.Status),
		b.CreatedBy,
		b.Version,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create booking", "booking_id", b.ID.String(), "error", err)
		return shared.StoreError{Op: "create booking", Err: err}
	}

	return nil
}

// GetByID retrieves a booking by its ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	b, err := scanBooking(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Entity: "booking", ID: id}
		}
		r.logger.Error("Failed to get booking", "id", id.String(), "error", err)
		return nil, shared.StoreError{Op: "get booking", Err: err}
	}

	return b, nil
}

// LockForUpdate reads the booking under a row lock held until the transaction ends
func (r *BookingRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	b, err := scanBooking(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Entity: "booking", ID: id}
		}
		r.logger.Error("Failed to lock booking for update", "id", id.String(), "error", err)
		return nil, shared.StoreError{Op: "lock booking", Err: err}
	}

	return b, nil
}

// UpdateStatus persists a transition made by booking.Transition.
// Returns ConflictError if the row moved on since it was read.
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5
	`

	result, err := r.querier.Exec(ctx, query,
		string(b.Status),
		b.Version,
		b.UpdatedAt,
		b.ID,
		b.Version-1, // Check previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update booking status", "id", b.ID.String(), "error", err)
		return shared.StoreError{Op: "update booking", Err: err}
	}

	if result.RowsAffected() == 0 {
		return shared.ConflictError{Entity: "booking", ID: b.ID, Reason: "modified concurrently"}
	}

	return nil
}

// Delete removes a booking. Linked invoices keep their rows with booking_id cleared.
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete booking", "id", id.String(), "error", err)
		return shared.StoreError{Op: "delete booking", Err: err}
	}

	if result.RowsAffected() == 0 {
		return shared.NotFoundError{Entity: "booking", ID: id}
	}

	return nil
}

// LockResource takes the resources row lock for resourceID. Concurrent creates
// for the same resource queue here until the holder commits or rolls back.
func (r *BookingRepository) LockResource(ctx context.Context, resourceID uuid.UUID) error {
	var id uuid.UUID
	err := r.querier.QueryRow(ctx, `SELECT id FROM resources WHERE id = $1 FOR UPDATE`, resourceID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.NotFoundError{Entity: "resource", ID: resourceID}
		}
		r.logger.Error("Failed to lock resource", "resource_id", resourceID.String(), "error", err)
		return shared.StoreError{Op: "lock resource", Err: err}
	}
	return nil
}

// HasOverlap reports whether a confirmed booking of resourceID intersects [from, to)
func (r *BookingRepository) HasOverlap(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE resource_id = $1 AND status = 'confirmed' AND check_in < $3 AND check_out > $2
		)
	`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, resourceID, from, to).Scan(&exists); err != nil {
		r.logger.Error("Failed to check booking overlap", "resource_id", resourceID.String(), "error", err)
		return false, shared.StoreError{Op: "check overlap", Err: err}
	}

	return exists, nil
}

// bookingFilterClause renders the WHERE clause of f starting at placeholder 1
func bookingFilterClause(f booking.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.ResourceID != nil {
		args = append(args, *f.ResourceID)
		conds = append(conds, fmt.Sprintf("resource_id = $%d", len(args)))
	}
	if f.ClientID != nil {
		args = append(args, *f.ClientID)
		conds = append(conds, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// List returns bookings matching filter, newest check-in first
func (r *BookingRepository) List(ctx context.Context, filter booking.Filter, limit, offset int) ([]*booking.Booking, error) {
	where, args := bookingFilterClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		%s
		ORDER BY check_in DESC
		LIMIT $%d OFFSET $%d
	`, bookingColumns, where, len(args)-1, len(args))

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list bookings", "error", err)
		return nil, shared.StoreError{Op: "list bookings", Err: err}
	}
	defer rows.Close()

	bookings := make([]*booking.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			r.logger.Error("Failed to scan booking", "error", err)
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.StoreError{Op: "list bookings", Err: err}
	}

	return bookings, nil
}

// Count returns the number of bookings matching filter
func (r *BookingRepository) Count(ctx context.Context, filter booking.Filter) (int64, error) {
	where, args := bookingFilterClause(filter)
	query := "SELECT COUNT(*) FROM bookings " + where

	var total int64
	if err := r.querier.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count bookings", "error", err)
		return 0, shared.StoreError{Op: "count bookings", Err: err}
	}
	return total, nil
}
