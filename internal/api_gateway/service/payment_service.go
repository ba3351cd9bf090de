package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/observability/metrics"
	"github.com/hotel-booking-ledger/internal/platform/messaging/producers"
)

// PaymentServiceImpl implements the PaymentService interface
type PaymentServiceImpl struct {
	invoiceRepo invoice.Repository
	records     payment.Repository
	keys        IdempotencyKeys
	producer    producers.MessagePublisher
	logger      *slog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(logger *slog.Logger, invoiceRepo invoice.Repository, records payment.Repository, keys IdempotencyKeys, producer producers.MessagePublisher) PaymentService {
	return &PaymentServiceImpl{
		invoiceRepo: invoiceRepo,
		records:     records,
		keys:        keys,
		producer:    producer,
		logger:      logger,
	}
}

// RequestPayment checks the payment against the current invoice, reserves the
// idempotency key and publishes the request keyed by invoice so that payments
// of one invoice stay ordered on a partition.
func (s *PaymentServiceImpl) RequestPayment(ctx context.Context, input PaymentInput) (uuid.UUID, bool, error) {
	logger := s.logger.With("correlation_id", input.CorrelationID, "invoice_id", input.InvoiceID.String())

	if input.Amount <= 0 {
		metrics.IncPaymentRequest(metrics.PaymentOutcomeRejected)
		return uuid.Nil, false, shared.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	entry, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		metrics.IncPaymentRequest(metrics.PaymentOutcomeRejected)
		return uuid.Nil, false, err
	}
	if err := entry.CheckPayable(input.Amount, input.Method); err != nil {
		metrics.IncPaymentRequest(metrics.PaymentOutcomeRejected)
		return uuid.Nil, false, err
	}

	paymentID := uuid.New()
	if input.IdempotencyKey != "" {
		fingerprint := payment.RequestFingerprint(input.InvoiceID, input.Amount, string(input.Method))
		existing, reserved, err := s.keys.Reserve(ctx, input.IdempotencyKey, payment.KeyBinding{PaymentID: paymentID, Fingerprint: fingerprint})
		if err != nil {
			return uuid.Nil, false, err
		}
		if !reserved {
			if !existing.Matches(fingerprint) {
				logger.Warn("Idempotency key reused for a different payment",
					"idempotency_key", input.IdempotencyKey,
					"payment_id", existing.PaymentID.String(),
				)
				metrics.IncPaymentRequest(metrics.PaymentOutcomeRejected)
				return uuid.Nil, false, shared.ConflictError{
					Entity: "payment",
					ID:     existing.PaymentID,
					Reason: "idempotency key already used for a different invoice, amount or method",
				}
			}
			logger.Info("Found existing payment with idempotency key",
				"idempotency_key", input.IdempotencyKey,
				"payment_id", existing.PaymentID.String(),
			)
			metrics.IncPaymentRequest(metrics.PaymentOutcomeDuplicate)
			return existing.PaymentID, true, nil
		}
	}

	req := &shared.PaymentRequest{
		PaymentID:      paymentID,
		InvoiceID:      input.InvoiceID,
		Amount:         input.Amount,
		Method:         string(input.Method),
		IdempotencyKey: input.IdempotencyKey,
		CorrelationID:  input.CorrelationID,
		Timestamp:      time.Now().UTC(),
	}

	if err := s.records.Create(ctx, payment.NewRecord(req, shared.PaymentStatusPending)); err != nil {
		logger.Error("Failed to record payment request", "payment_id", paymentID.String(), "error", err)
		s.release(ctx, logger, input.IdempotencyKey)
		return uuid.Nil, false, err
	}

	if err := s.producer.Publish(ctx, input.InvoiceID.String(), req); err != nil {
		logger.Error("Failed to publish payment request",
			"payment_id", paymentID.String(),
			"amount", input.Amount,
			"error", err,
		)
		if updErr := s.records.UpdateStatus(ctx, paymentID, shared.PaymentStatusFailed, string(shared.FailureReasonUnknownError)); updErr != nil {
			logger.Error("Failed to mark unpublished payment as failed", "payment_id", paymentID.String(), "error", updErr)
		}
		s.release(ctx, logger, input.IdempotencyKey)
		return uuid.Nil, false, err
	}

	metrics.IncPaymentRequest(metrics.PaymentOutcomeAccepted)
	logger.Info("Payment request published",
		"payment_id", paymentID.String(),
		"amount", input.Amount,
		"method", string(input.Method),
	)

	return paymentID, false, nil
}

func (s *PaymentServiceImpl) release(ctx context.Context, logger *slog.Logger, key string) {
	if key == "" {
		return
	}
	if err := s.keys.Release(ctx, key); err != nil {
		logger.Warn("Idempotency key left reserved", "idempotency_key", key, "error", err)
	}
}

// GetPayment retrieves the history record of a payment
func (s *PaymentServiceImpl) GetPayment(ctx context.Context, paymentID uuid.UUID) (*payment.Record, error) {
	return s.records.GetByPaymentID(ctx, paymentID)
}

// ListPayments returns one page of an invoice's payment history and the total count
func (s *PaymentServiceImpl) ListPayments(ctx context.Context, invoiceID uuid.UUID, page, perPage int) ([]*payment.Record, int64, error) {
	if _, err := s.invoiceRepo.GetByID(ctx, invoiceID); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * perPage

	records, err := s.records.ListByInvoiceID(ctx, invoiceID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.records.CountByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
