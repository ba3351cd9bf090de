package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/api_gateway/middleware"
	"github.com/hotel-booking-ledger/internal/api_gateway/service"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// IdempotencyKeyHeader lets clients retry a payment request safely
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler handles HTTP requests for payments against invoices
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(logger *slog.Logger, paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Create accepts a payment for asynchronous processing and answers 202.
// A repeated idempotency key answers 200 with the original payment id.
func (h *PaymentHandler) Create(c *gin.Context) {
	invoiceID, ok := parseInvoiceID(c, h.logger)
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := toMinorUnits("amount", req.Amount)
	if err != nil {
		respondError(c, h.logger, "request payment", err)
		return
	}

	idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
	if idempotencyKey == "" {
		idempotencyKey = req.IdempotencyKey
	}

	paymentID, duplicate, err := h.paymentService.RequestPayment(c.Request.Context(), service.PaymentInput{
		InvoiceID:      invoiceID,
		Amount:         amount,
		Method:         invoice.Method(req.Method),
		IdempotencyKey: idempotencyKey,
		CorrelationID:  middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondError(c, h.logger, "request payment", err)
		return
	}

	response := PaymentAcceptedResponse{
		PaymentID: paymentID.String(),
		InvoiceID: invoiceID.String(),
		Status:    string(shared.PaymentStatusPending),
		Duplicate: duplicate,
	}
	if duplicate {
		RespondOK(c, response)
		return
	}
	RespondAccepted(c, response)
}

// GetByID retrieves the history record of a payment, returning 404 if not found
func (h *PaymentHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid payment ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid payment ID")
		return
	}

	record, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get payment", err)
		return
	}

	RespondOK(c, mapPaymentToResponse(record))
}

// ListByInvoice retrieves the paginated payment history of an invoice
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, ok := parseInvoiceID(c, h.logger)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, total, err := h.paymentService.ListPayments(c.Request.Context(), invoiceID, pagination.Page, pagination.PerPage)
	if err != nil {
		respondError(c, h.logger, "list payments", err)
		return
	}

	response := make([]PaymentResponse, 0, len(records))
	for _, record := range records {
		response = append(response, mapPaymentToResponse(record))
	}
	RespondWithPage(c, response, pagination, total)
}

// mapPaymentToResponse maps a payment record to a payment response DTO
func mapPaymentToResponse(r *payment.Record) PaymentResponse {
	return PaymentResponse{
		PaymentID:       r.PaymentID.String(),
		InvoiceID:       r.InvoiceID.String(),
		Amount:          formatMoney(r.Amount),
		AppliedAmount:   formatMoney(r.AppliedAmount),
		Method:          r.Method,
		Status:          string(r.Status),
		FailureReason:   r.FailureReason,
		InvoiceStatus:   r.InvoiceStatus,
		RemainingAmount: formatMoney(r.RemainingAmount),
		CreatedAt:       formatTime(r.CreatedAt),
		ProcessedAt:     formatOptionalTime(r.ProcessedAt),
	}
}
