package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hotel-booking-ledger/internal/domain/outbox"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// HistoryPublisher moves an applied payment from the outbox into the payment history
type HistoryPublisher interface {
	PublishToHistory(ctx context.Context, message *outbox.Message) error
}

type HistoryPublisherImpl struct {
	outboxRepo outbox.Repository
	records    payment.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewHistoryPublisher(
	outboxRepo outbox.Repository,
	records payment.Repository,
	logger *slog.Logger,
) HistoryPublisher {
	return &HistoryPublisherImpl{
		outboxRepo: outboxRepo,
		records:    records,
		logger:     logger,
		now:        time.Now,
	}
}

// PublishToHistory writes the COMPLETED record and marks the message PROCESSED.
// Writing the record is an upsert, so a retry after a failed status update is safe.
func (p *HistoryPublisherImpl) PublishToHistory(ctx context.Context, message *outbox.Message) error {
	record, err := message.GetPaymentRecord()
	if err != nil {
		p.logger.Error("Failed to unmarshal payment record from outbox payload",
			"outbox_id", message.ID, "payment_id", message.PaymentID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if record.CorrelationID != "" {
		logger = p.logger.With("correlation_id", record.CorrelationID)
	}

	existing, err := p.records.GetByPaymentID(ctx, record.PaymentID)
	if err != nil && !errors.Is(err, shared.NotFoundError{}) {
		logger.Error("Failed to check existing payment record before publishing", "payment_id", record.PaymentID, "error", err)
		return fmt.Errorf("failed to check existing payment record %s: %w", record.PaymentID, err)
	}

	if existing != nil && existing.Status == shared.PaymentStatusCompleted {
		logger.Info("Payment record already COMPLETED", "payment_id", record.PaymentID)
	} else {
		record.Status = shared.PaymentStatusCompleted
		record.FailureReason = ""
		processedAt := p.now().UTC()
		record.ProcessedAt = &processedAt
		if existing != nil && record.IdempotencyKey == "" {
			record.IdempotencyKey = existing.IdempotencyKey
		}

		if err := p.records.Save(ctx, record); err != nil {
			logger.Error("Failed to save payment record", "payment_id", record.PaymentID, "error", err)
			return fmt.Errorf("failed to save payment record %s: %w", record.PaymentID, err)
		}
		logger.Info("Payment record COMPLETED",
			"payment_id", record.PaymentID, "applied", record.AppliedAmount, "invoice_status", record.InvoiceStatus)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "payment_id", message.PaymentID, "error", err,
		)
		return fmt.Errorf("history write for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.PaymentID, message.ID, err)
	}

	return nil
}
