package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/api_gateway/service"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
)

// InvoiceHandler handles HTTP requests for the invoice ledger
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(logger *slog.Logger, invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// Create opens an ad-hoc charge such as a minibar or laundry bill
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	params, err := mapCreateInvoiceRequest(&req)
	if err != nil {
		respondError(c, h.logger, "create invoice", err)
		return
	}

	entry, err := h.invoiceService.CreateInvoice(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.logger, "create invoice", err)
		return
	}

	RespondCreated(c, mapInvoiceToResponse(entry))
}

// GetByID retrieves an invoice by its ID, returning 404 if not found
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseInvoiceID(c, h.logger)
	if !ok {
		return
	}

	entry, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get invoice", err)
		return
	}

	RespondOK(c, mapInvoiceToResponse(entry))
}

// List returns a page of invoices filtered by status, client and booking
func (h *InvoiceHandler) List(c *gin.Context) {
	var query InvoiceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	filter := invoice.Filter{Status: invoice.Status(query.Status)}
	var err error
	if filter.ClientID, err = parseOptionalUUID("client_id", &query.ClientID); err != nil {
		respondError(c, h.logger, "list invoices", err)
		return
	}
	if filter.BookingID, err = parseOptionalUUID("booking_id", &query.BookingID); err != nil {
		respondError(c, h.logger, "list invoices", err)
		return
	}

	entries, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter, pagination.Page, pagination.PerPage)
	if err != nil {
		respondError(c, h.logger, "list invoices", err)
		return
	}

	response := make([]InvoiceResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, mapInvoiceToResponse(entry))
	}
	RespondWithPage(c, response, pagination, total)
}

// Cancel voids a pending or partially paid invoice
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := parseInvoiceID(c, h.logger)
	if !ok {
		return
	}

	entry, err := h.invoiceService.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "cancel invoice", err)
		return
	}

	RespondOK(c, mapInvoiceToResponse(entry))
}

func parseInvoiceID(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Error("Invalid invoice ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid invoice ID")
		return uuid.Nil, false
	}
	return id, true
}

func mapCreateInvoiceRequest(req *CreateInvoiceRequest) (invoice.NewEntryParams, error) {
	params := invoice.NewEntryParams{
		Description: req.Description,
		DueDate:     req.DueDate,
		Category:    req.Category,
		Subcategory: req.Subcategory,
	}

	var err error
	if params.Amount, err = toMinorUnits("amount", req.Amount); err != nil {
		return params, err
	}
	if params.BookingID, err = parseOptionalUUID("booking_id", req.BookingID); err != nil {
		return params, err
	}
	if params.ClientID, err = parseOptionalUUID("client_id", req.ClientID); err != nil {
		return params, err
	}
	if params.StaffID, err = parseOptionalUUID("staff_id", req.StaffID); err != nil {
		return params, err
	}
	return params, nil
}

// mapInvoiceToResponse maps a ledger entry to an invoice response DTO
func mapInvoiceToResponse(e *invoice.Entry) InvoiceResponse {
	return InvoiceResponse{
		ID:              e.ID.String(),
		BookingID:       formatOptionalUUID(e.BookingID),
		Description:     e.Description,
		Amount:          formatMoney(e.Amount),
		PaidAmount:      formatMoney(e.PaidAmount),
		RemainingAmount: formatMoney(e.RemainingAmount),
		Status:          string(e.Status),
		Type:            string(e.Type),
		Method:          string(e.Method),
		DueDate:         formatOptionalTime(e.DueDate),
		LastPaymentAt:   formatOptionalTime(e.LastPaymentAt),
		ClientID:        formatOptionalUUID(e.ClientID),
		StaffID:         formatOptionalUUID(e.StaffID),
		Category:        e.Category,
		Subcategory:     e.Subcategory,
		Version:         e.Version,
		CreatedAt:       formatTime(e.CreatedAt),
		UpdatedAt:       formatTime(e.UpdatedAt),
	}
}
