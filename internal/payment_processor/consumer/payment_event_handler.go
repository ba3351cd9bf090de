package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/observability/metrics"
	"github.com/hotel-booking-ledger/internal/payment_processor/service"
	"github.com/hotel-booking-ledger/internal/platform/messaging/producers"
)

// PaymentEventHandler handles payment request messages from Kafka
type PaymentEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

func NewPaymentEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *PaymentEventHandler {
	return &PaymentEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage decodes one message and hands it to the processing service.
// A nil return commits the offset.
func (h *PaymentEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.PaymentRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal payment request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				metrics.ObservePaymentProcessed(metrics.PaymentResultDLQ, 0)
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received payment request for processing",
		"payment_id", request.PaymentID.String(),
		"invoice_id", request.InvoiceID.String(),
		"method", request.Method,
		"amount", request.Amount,
	)

	if err := h.processingService.ProcessPayment(ctx, &request); err != nil {
		logger.Error("Failed to process payment",
			"payment_id", request.PaymentID.String(),
			"invoice_id", request.InvoiceID.String(),
			"error", err,
		)
		return fmt.Errorf("processing payment %s failed: %w", request.PaymentID.String(), err)
	}

	logger.Info("Payment handled", "payment_id", request.PaymentID.String())
	return nil
}
