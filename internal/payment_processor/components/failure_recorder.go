package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/payment_processor/service"
)

type FailureRecorderImpl struct {
	records payment.Repository
	logger  *slog.Logger
}

func NewFailureRecorder(records payment.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		records: records,
		logger:  logger,
	}
}

// RecordFailure marks the payment FAILED in the history, creating the record
// when the gateway never wrote one
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, request *shared.PaymentRequest, reason shared.FailureReason) error {
	logger := r.logger
	if request.CorrelationID != "" {
		logger = r.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Recording failed payment", "payment_id", request.PaymentID.String(), "reason", string(reason))

	existing, err := r.records.GetByPaymentID(ctx, request.PaymentID)
	if err != nil && !errors.Is(err, shared.NotFoundError{}) {
		logger.Error("Failed to get existing payment record", "payment_id", request.PaymentID.String(), "error", err)
		return err
	}

	if existing != nil {
		if existing.Status == shared.PaymentStatusFailed {
			logger.Info("Payment record already marked as FAILED", "payment_id", request.PaymentID.String())
			return nil
		}
		if err := r.records.UpdateStatus(ctx, request.PaymentID, shared.PaymentStatusFailed, string(reason)); err != nil {
			logger.Error("Failed to update payment record to FAILED", "payment_id", request.PaymentID.String(), "error", err)
			return err
		}
		return nil
	}

	record := payment.NewRecord(request, shared.PaymentStatusFailed)
	record.FailureReason = string(reason)
	now := time.Now().UTC()
	record.ProcessedAt = &now

	if err := r.records.Create(ctx, record); err != nil {
		if errors.Is(err, payment.ErrDuplicateRecord{}) {
			// Created concurrently by the gateway; fall back to an update
			return r.records.UpdateStatus(ctx, request.PaymentID, shared.PaymentStatusFailed, string(reason))
		}
		logger.Error("Failed to create FAILED payment record", "payment_id", request.PaymentID.String(), "error", err)
		return err
	}
	return nil
}
