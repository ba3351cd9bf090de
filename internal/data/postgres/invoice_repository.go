package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// InvoiceRepository implements the invoice.Repository interface for PostgreSQL
type InvoiceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL invoice ledger repository
func NewInvoiceRepository(logger *slog.Logger, db *persistence.PostgresDB) invoice.Repository {
	return &InvoiceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx, so the lock taken by LockForUpdate
// lasts until tx ends.
func (r *InvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	return &InvoiceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const invoiceColumns = `id, booking_id, description, amount, paid_amount, remaining_amount, status, type, COALESCE(method, ''), due_date, last_payment_at, client_id, staff_id, category, subcategory, version, created_at, updated_at`

func scanInvoice(row rowScanner) (*invoice.Entry, error) {
	var e invoice.Entry
	err := row.Scan(
		&e.ID,
		&e.BookingID,
		&e.Description,
		&e.Amount,
		&e.PaidAmount,
		&e.RemainingAmount,
		&e.Status,
		&e.Type,
		&e.Method,
		&e.DueDate,
		&e.LastPaymentAt,
		&e.ClientID,
		&e.StaffID,
		&e.Category,
		&e.Subcategory,
		&e.Version,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// nullableMethod stores an unset method as NULL
func nullableMethod(m invoice.Method) *string {
	if m == "" {
		return nil
	}
	s := string(m)
	return &s
}

// Create stores a new ledger entry
func (r *InvoiceRepository) Create(ctx context.Context, e *invoice.Entry) error {
	query := `
		INSERT INTO invoices (id, booking_id, description, amount, paid_amount, remaining_amount, status, type, method, due_date, last_payment_at, client_id, staff_id, category, subcategory, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.querier.Exec(ctx, query,
		e.ID,
		e.BookingID,
		e.Description,
		e.Amount,
		e.PaidAmount,
		e.RemainingAmount,
		string(e.Status),
		string(e.Type),
		nullableMethod(e.Method),
		e.DueDate,
		e.LastPaymentAt,
		e.ClientID,
		e.StaffID,
		e.Category,
		e.Subcategory,
		e.Version,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", "invoice_id", e.ID.String(), "error", err)
		return shared.StoreError{Op: "create invoice", Err: err}
	}

	return nil
}

// GetByID retrieves an entry by its ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1
	`

	e, err := scanInvoice(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Entity: "invoice", ID: id}
		}
		r.logger.Error("Failed to get invoice", "id", id.String(), "error", err)
		return nil, shared.StoreError{Op: "get invoice", Err: err}
	}

	return e, nil
}

// LockForUpdate obtains a row lock on the entry and returns its current state
func (r *InvoiceRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1
		FOR UPDATE
	`

	e, err := scanInvoice(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Entity: "invoice", ID: id}
		}
		r.logger.Error("Failed to lock invoice for update", "id", id.String(), "error", err)
		return nil, shared.StoreError{Op: "lock invoice", Err: err}
	}

	return e, nil
}

// Update writes paid and remaining amounts, status, type and method in a single
// statement, guarded by the version the entry was read at.
func (r *InvoiceRepository) Update(ctx context.Context, e *invoice.Entry) error {
	query := `
		UPDATE invoices
		SET paid_amount = $1, remaining_amount = $2, status = $3, type = $4, method = $5, last_payment_at = $6, version = $7, updated_at = $8
		WHERE id = $9 AND version = $10
	`

	result, err := r.querier.Exec(ctx, query,
		e.PaidAmount,
		e.RemainingAmount,
		string(e.Status),
		string(e.Type),
		nullableMethod(e.Method),
		e.LastPaymentAt,
		e.Version,
		e.UpdatedAt,
		e.ID,
		e.Version-1, // Check previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update invoice", "id", e.ID.String(), "error", err)
		return shared.StoreError{Op: "update invoice", Err: err}
	}

	if result.RowsAffected() == 0 {
		return shared.ConflictError{Entity: "invoice", ID: e.ID, Reason: "modified concurrently"}
	}

	return nil
}

// GetOpenByBookingID returns the pending and partial entries of a booking, locked for update
func (r *InvoiceRepository) GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*invoice.Entry, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE booking_id = $1 AND status IN ('pending', 'partial')
		ORDER BY created_at ASC
		FOR UPDATE
	`

	rows, err := r.querier.Query(ctx, query, bookingID)
	if err != nil {
		r.logger.Error("Failed to get open invoices of booking", "booking_id", bookingID.String(), "error", err)
		return nil, shared.StoreError{Op: "get open invoices", Err: err}
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func collectInvoices(rows pgx.Rows) ([]*invoice.Entry, error) {
	entries := make([]*invoice.Entry, 0)
	for rows.Next() {
		e, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over invoices: %w", err)
	}
	return entries, nil
}

func invoiceFilterClause(f invoice.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.ClientID != nil {
		args = append(args, *f.ClientID)
		conds = append(conds, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if f.BookingID != nil {
		args = append(args, *f.BookingID)
		conds = append(conds, fmt.Sprintf("booking_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// List returns entries matching filter, newest first
func (r *InvoiceRepository) List(ctx context.Context, filter invoice.Filter, limit, offset int) ([]*invoice.Entry, error) {
	where, args := invoiceFilterClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, invoiceColumns, where, len(args)-1, len(args))

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list invoices", "error", err)
		return nil, shared.StoreError{Op: "list invoices", Err: err}
	}
	defer rows.Close()

	return collectInvoices(rows)
}

// Count returns the number of entries matching filter
func (r *InvoiceRepository) Count(ctx context.Context, filter invoice.Filter) (int64, error) {
	where, args := invoiceFilterClause(filter)

	var total int64
	if err := r.querier.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+where, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count invoices", "error", err)
		return 0, shared.StoreError{Op: "count invoices", Err: err}
	}
	return total, nil
}
