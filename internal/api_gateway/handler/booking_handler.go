package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/api_gateway/service"
	"github.com/hotel-booking-ledger/internal/domain/booking"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// BookingHandler handles HTTP requests for booking operations
type BookingHandler struct {
	bookingService service.BookingService
	logger         *slog.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(logger *slog.Logger, bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// Create prices and stores a booking, opening an invoice when settlement asks for one
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, err := mapCreateBookingRequest(&req)
	if err != nil {
		respondError(c, h.logger, "create booking", err)
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, "create booking", err)
		return
	}

	response := CreateBookingResponse{BookingResponse: mapBookingToResponse(result.Booking)}
	if result.Invoice != nil {
		inv := mapInvoiceToResponse(result.Invoice)
		response.Invoice = &inv
	}
	RespondCreated(c, response)
}

// GetByID retrieves a booking by its ID, returning 404 if not found
func (h *BookingHandler) GetByID(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get booking", err)
		return
	}

	RespondOK(c, mapBookingToResponse(b))
}

// List returns a page of bookings filtered by resource, client and status
func (h *BookingHandler) List(c *gin.Context) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	filter := booking.Filter{Status: booking.Status(query.Status)}
	var err error
	if filter.ResourceID, err = parseOptionalUUID("resource_id", &query.ResourceID); err != nil {
		respondError(c, h.logger, "list bookings", err)
		return
	}
	if filter.ClientID, err = parseOptionalUUID("client_id", &query.ClientID); err != nil {
		respondError(c, h.logger, "list bookings", err)
		return
	}

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), filter, pagination.Page, pagination.PerPage)
	if err != nil {
		respondError(c, h.logger, "list bookings", err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, mapBookingToResponse(b))
	}
	RespondWithPage(c, response, pagination, total)
}

// Complete moves a confirmed booking to completed
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, booking.StatusCompleted)
}

// Cancel moves a confirmed booking to canceled along with its open invoices
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, booking.StatusCanceled)
}

func (h *BookingHandler) transition(c *gin.Context, to booking.Status) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.bookingService.TransitionBooking(c.Request.Context(), id, to)
	if err != nil {
		respondError(c, h.logger, "transition booking", err)
		return
	}

	RespondOK(c, mapBookingToResponse(b))
}

// Delete removes a booking in any state
func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	if err := h.bookingService.DeleteBooking(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete booking", err)
		return
	}

	RespondNoContent(c)
}

func (h *BookingHandler) bookingID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid booking ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}

func mapCreateBookingRequest(req *CreateBookingRequest) (service.CreateBookingInput, error) {
	var input service.CreateBookingInput

	resourceID, err := uuid.Parse(req.ResourceID)
	if err != nil {
		return input, shared.ValidationError{Field: "resource_id", Reason: "must be a UUID"}
	}
	extras, err := mapExtrasFromRequest(req.Extras)
	if err != nil {
		return input, err
	}

	input = service.CreateBookingInput{
		ResourceID: resourceID,
		GuestName:  req.GuestName,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Extras:     extras,
		Settlement: service.Settlement(req.Settlement),
		Method:     invoice.Method(req.Method),
		DueDate:    req.DueDate,
	}
	if input.RoomID, err = parseOptionalUUID("room_id", req.RoomID); err != nil {
		return input, err
	}
	if input.ClientID, err = parseOptionalUUID("client_id", req.ClientID); err != nil {
		return input, err
	}
	if input.CreatedBy, err = parseOptionalUUID("created_by", req.CreatedBy); err != nil {
		return input, err
	}
	return input, nil
}

// mapBookingToResponse maps a booking entity to a booking response DTO
func mapBookingToResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID.String(),
		ResourceID: b.ResourceID.String(),
		RoomID:     formatOptionalUUID(b.RoomID),
		Category:   string(b.Category),
		GuestName:  b.GuestName,
		ClientID:   formatOptionalUUID(b.ClientID),
		CheckIn:    formatTime(b.CheckIn),
		CheckOut:   formatTime(b.CheckOut),
		Units:      b.Units,
		Amount:     formatMoney(b.Amount),
		Extras:     mapExtrasToResponse(b.Extras),
		Status:     string(b.Status),
		CreatedBy:  formatOptionalUUID(b.CreatedBy),
		Version:    b.Version,
		CreatedAt:  formatTime(b.CreatedAt),
		UpdatedAt:  formatTime(b.UpdatedAt),
	}
}
