package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/outbox"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/payment_processor/service"
)

type PaymentValidatorImpl struct {
	records    payment.Repository
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewPaymentValidator(records payment.Repository, outboxRepo outbox.Repository, logger *slog.Logger) service.PaymentValidator {
	return &PaymentValidatorImpl{
		records:    records,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Validate checks the request shape. Invoice state is checked under the row lock.
func (v *PaymentValidatorImpl) Validate(ctx context.Context, request *shared.PaymentRequest) error {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	if request.PaymentID == uuid.Nil {
		return shared.ValidationError{Field: "payment_id", Reason: "is required"}
	}
	if request.InvoiceID == uuid.Nil {
		logger.Warn("Payment without invoice", "payment_id", request.PaymentID.String())
		return shared.ValidationError{Field: "invoice_id", Reason: "is required"}
	}
	if request.Amount <= 0 {
		logger.Warn("Invalid amount", "payment_id", request.PaymentID.String(), "amount", request.Amount)
		return shared.ValidationError{Field: "amount", Reason: fmt.Sprintf("must be positive: %d", request.Amount)}
	}
	if !invoice.Method(request.Method).Valid() {
		logger.Warn("Unknown payment method", "payment_id", request.PaymentID.String(), "method", request.Method)
		return shared.ValidationError{Field: "method", Reason: "unknown payment method " + request.Method}
	}

	return nil
}

// CheckIdempotency reports whether the payment was already handled. A final
// history record or an outbox row both mean a redelivery.
func (v *PaymentValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.PaymentRequest) (bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	record, err := v.records.GetByPaymentID(ctx, request.PaymentID)
	if err != nil && !errors.Is(err, shared.NotFoundError{}) {
		logger.Error("Failed to check payment history for idempotency", "payment_id", request.PaymentID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for payment %s: %w", request.PaymentID.String(), err)
	}
	if record != nil && record.Final() {
		logger.Info("Payment already processed (idempotency)", "payment_id", request.PaymentID.String(), "status", string(record.Status))
		return true, nil
	}

	// Applied but not yet published by the poller
	message, err := v.outboxRepo.GetByPaymentID(ctx, request.PaymentID)
	var notFound outbox.ErrMessageNotFound
	if err != nil && !errors.As(err, &notFound) {
		logger.Error("Failed to check outbox for idempotency", "payment_id", request.PaymentID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for payment %s: %w", request.PaymentID.String(), err)
	}
	if message != nil {
		logger.Info("Payment already applied, awaiting publication", "payment_id", request.PaymentID.String(), "outbox_id", message.ID)
		return true, nil
	}

	return false, nil
}
