package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/observability/metrics"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

type ProcessingServiceImpl struct {
	db              persistence.TxBeginner
	validator       PaymentValidator
	invoiceManager  InvoiceManager
	outboxManager   OutboxManager
	failureRecorder FailureRecorder
	logger          *slog.Logger
}

func NewProcessingService(
	db persistence.TxBeginner,
	validator PaymentValidator,
	invoiceManager InvoiceManager,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		db:              db,
		validator:       validator,
		invoiceManager:  invoiceManager,
		outboxManager:   outboxManager,
		failureRecorder: failureRecorder,
		logger:          logger,
	}
}

// ProcessPayment applies one payment request to its invoice.
//
// Business refusals are recorded as FAILED payments and return nil so the
// message is acknowledged. Any other error is returned and the message is
// redelivered; the invoice row lock and version guard make the retry safe.
func (s *ProcessingServiceImpl) ProcessPayment(ctx context.Context, request *shared.PaymentRequest) error {
	started := time.Now()
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing payment", "payment_id", request.PaymentID.String(), "invoice_id", request.InvoiceID.String())

	// 1. Validate the request
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Warn("Payment validation failed", "payment_id", request.PaymentID.String(), "error", err)
		return s.refuse(ctx, logger, request, err, started)
	}

	// 2. Skip requests that were already applied or refused
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		metrics.ObservePaymentProcessed(metrics.PaymentResultRetry, time.Since(started))
		return err
	}
	if skip {
		return nil
	}

	// 3. Lock, apply, write the outbox row and commit in one transaction
	var (
		updated *invoice.Entry
		applied int64
	)
	err = persistence.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		var txErr error
		updated, applied, txErr = s.invoiceManager.LockAndApplyPayment(ctx, tx, request)
		if txErr != nil {
			return txErr
		}
		return s.outboxManager.CreateOutboxEntry(ctx, tx, request, updated, applied)
	})
	if err != nil {
		if _, business := failureReasonFor(err); business {
			logger.Warn("Payment refused", "payment_id", request.PaymentID.String(), "error", err)
			return s.refuse(ctx, logger, request, err, started)
		}
		logger.Error("Payment processing failed, message will be retried", "payment_id", request.PaymentID.String(), "error", err)
		metrics.ObservePaymentProcessed(metrics.PaymentResultRetry, time.Since(started))
		return err
	}

	logger.Info("Payment applied",
		"payment_id", request.PaymentID.String(),
		"invoice_id", updated.ID.String(),
		"applied", applied,
		"remaining", updated.RemainingAmount,
		"status", string(updated.Status),
	)
	metrics.ObservePaymentProcessed(metrics.PaymentResultCompleted, time.Since(started))
	return nil
}

// refuse records a business failure and acknowledges the message. A failure
// that cannot be recorded is returned so the message is retried.
func (s *ProcessingServiceImpl) refuse(ctx context.Context, logger *slog.Logger, request *shared.PaymentRequest, cause error, started time.Time) error {
	reason, _ := failureReasonFor(cause)
	if err := s.failureRecorder.RecordFailure(ctx, request, reason); err != nil {
		logger.Error("Failed to record payment failure", "payment_id", request.PaymentID.String(), "reason", string(reason), "error", err)
		metrics.ObservePaymentProcessed(metrics.PaymentResultRetry, time.Since(started))
		return err
	}
	metrics.ObservePaymentProcessed(metrics.PaymentResultFailed, time.Since(started))
	return nil
}

// failureReasonFor maps a domain error to the reason stored on a FAILED
// payment. ok is false for infrastructure errors, which are retried instead.
func failureReasonFor(err error) (reason shared.FailureReason, ok bool) {
	var (
		notFound   shared.NotFoundError
		state      shared.InvalidStateError
		validation shared.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return shared.FailureReasonInvoiceNotFound, true
	case errors.As(err, &state):
		switch invoice.Status(state.From) {
		case invoice.StatusCancelled:
			return shared.FailureReasonInvoiceCancelled, true
		case invoice.StatusPaid:
			return shared.FailureReasonInvoiceAlreadyPaid, true
		}
		return shared.FailureReasonInvalidState, true
	case errors.As(err, &validation):
		switch validation.Field {
		case "amount":
			return shared.FailureReasonInvalidAmount, true
		case "method":
			return shared.FailureReasonInvalidMethod, true
		}
		return shared.FailureReasonUnknownError, true
	}
	return shared.FailureReasonUnknownError, false
}
