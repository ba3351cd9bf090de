package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/outbox"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/payment_processor/service"
	"github.com/jackc/pgx/v5"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry stores the outcome of an applied payment for the poller
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest, updated *invoice.Entry, applied int64) error {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	// ProcessedAt is set by the poller
	record := payment.NewRecord(request, shared.PaymentStatusProcessing)
	record.AppliedAmount = applied
	record.InvoiceStatus = string(updated.Status)
	record.RemainingAmount = updated.RemainingAmount

	outboxMessage, err := outbox.NewMessage(record)
	if err != nil {
		logger.Error("Failed to create new outbox message (marshal payload)",
			"payment_id", request.PaymentID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message payload for payment %s: %w", request.PaymentID.String(), err)
	}

	if err = m.outboxRepo.WithTx(tx).Create(ctx, outboxMessage); err != nil {
		logger.Error("Failed to create outbox message",
			"payment_id", request.PaymentID.String(),
			"invoice_id", request.InvoiceID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message for payment %s: %w", request.PaymentID.String(), err)
	}
	logger.Info("Outbox message created",
		"payment_id", request.PaymentID.String(),
		"outbox_id", outboxMessage.ID,
	)

	return nil
}
