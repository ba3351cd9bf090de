package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/payment_processor/service"
	"github.com/jackc/pgx/v5"
)

// InvoiceManagerImpl implements the InvoiceManager interface
type InvoiceManagerImpl struct {
	invoiceRepo invoice.Repository
	logger      *slog.Logger
	now         func() time.Time
}

// NewInvoiceManager creates a new InvoiceManagerImpl
func NewInvoiceManager(invoiceRepo invoice.Repository, logger *slog.Logger) service.InvoiceManager {
	return &InvoiceManagerImpl{
		invoiceRepo: invoiceRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// LockAndApplyPayment locks the invoice row, applies the payment in memory and
// writes it back guarded by the version. It returns the updated entry and the
// part of the amount that was applied.
func (m *InvoiceManagerImpl) LockAndApplyPayment(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest) (*invoice.Entry, int64, error) {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	invoiceRepoTx := m.invoiceRepo.WithTx(tx)

	entry, err := invoiceRepoTx.LockForUpdate(ctx, request.InvoiceID)
	if err != nil {
		if errors.Is(err, shared.NotFoundError{}) {
			logger.Warn("Invoice not found for lock", "payment_id", request.PaymentID.String(), "invoice_id", request.InvoiceID.String())
		} else {
			logger.Error("Failed to lock invoice", "payment_id", request.PaymentID.String(), "invoice_id", request.InvoiceID.String(), "error", err)
		}
		return nil, 0, err
	}
	logger.Debug("Invoice locked", "payment_id", request.PaymentID.String(), "invoice_id", entry.ID.String(),
		"remaining", entry.RemainingAmount, "ver", entry.Version)

	applied, err := entry.ApplyPayment(request.Amount, invoice.Method(request.Method), m.now())
	if err != nil {
		logger.Warn("Payment refused by invoice", "payment_id", request.PaymentID.String(), "status", string(entry.Status), "error", err)
		return nil, 0, err
	}
	if applied < request.Amount {
		logger.Info("Payment exceeds remaining amount, surplus not applied",
			"payment_id", request.PaymentID.String(), "requested", request.Amount, "applied", applied)
	}

	if err = invoiceRepoTx.Update(ctx, entry); err != nil {
		if errors.Is(err, shared.ConflictError{}) {
			logger.Warn("Concurrent modification on invoice update", "payment_id", request.PaymentID.String(), "invoice_id", entry.ID.String())
		} else {
			logger.Error("Failed to update invoice", "payment_id", request.PaymentID.String(), "invoice_id", entry.ID.String(), "error", err)
		}
		return nil, 0, err
	}

	return entry, applied, nil
}
