package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// InvoiceServiceImpl implements the InvoiceService interface
type InvoiceServiceImpl struct {
	db          persistence.TxBeginner
	invoiceRepo invoice.Repository
	logger      *slog.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(logger *slog.Logger, db persistence.TxBeginner, invoiceRepo invoice.Repository) InvoiceService {
	return &InvoiceServiceImpl{
		db:          db,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// CreateInvoice opens an ad-hoc pending charge
func (s *InvoiceServiceImpl) CreateInvoice(ctx context.Context, params invoice.NewEntryParams) (*invoice.Entry, error) {
	entry, err := invoice.NewEntry(params)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created", "invoice_id", entry.ID.String(), "amount", entry.Amount)
	return entry, nil
}

// GetInvoice retrieves an invoice by its ID
func (s *InvoiceServiceImpl) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

// ListInvoices returns one page of invoices and the total count
func (s *InvoiceServiceImpl) ListInvoices(ctx context.Context, filter invoice.Filter, page, perPage int) ([]*invoice.Entry, int64, error) {
	switch filter.Status {
	case "", invoice.StatusPending, invoice.StatusPartial, invoice.StatusPaid, invoice.StatusCancelled:
	default:
		return nil, 0, shared.ValidationError{Field: "status", Reason: "unknown invoice status " + string(filter.Status)}
	}
	offset := (page - 1) * perPage

	entries, err := s.invoiceRepo.List(ctx, filter, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// CancelInvoice locks the invoice and cancels it under the version guard
func (s *InvoiceServiceImpl) CancelInvoice(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	var cancelled *invoice.Entry

	err := persistence.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		invoices := s.invoiceRepo.WithTx(tx)

		entry, err := invoices.LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := entry.Cancel(time.Now()); err != nil {
			return err
		}
		if err := invoices.Update(ctx, entry); err != nil {
			return err
		}

		cancelled = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice cancelled", "invoice_id", id.String())
	return cancelled, nil
}
