package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotel-booking-ledger/internal/api_gateway/middleware"
)

// Error codes carried in ErrorInfo.Code. Clients branch on these, not on messages.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInvalidState    = "INVALID_STATE"
	CodeInternalError   = "INTERNAL_SERVER_ERROR"
)

// Response is the envelope of every booking, invoice and payment reply.
// Exactly one of Data and Error is set.
type Response struct {
	Data          any        `json:"data,omitempty"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	Meta          *MetaInfo  `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo describes the page of a listing
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

// newPageMeta derives the page count of total items split p.PerPage at a time
func newPageMeta(p PaginationParams, total int64) *MetaInfo {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = 1
	}
	items := int(total)
	return &MetaInfo{
		Page:       p.Page,
		PerPage:    perPage,
		TotalPages: (items + perPage - 1) / perPage,
		TotalItems: items,
	}
}

// write stamps the request's correlation id on the envelope and sends it
func write(c *gin.Context, status int, resp Response) {
	resp.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(status, resp)
}

func RespondWithData(c *gin.Context, status int, data any) {
	write(c, status, Response{Data: data})
}

// RespondWithPage sends one page of a listing with its paging metadata
func RespondWithPage(c *gin.Context, data any, p PaginationParams, total int64) {
	write(c, http.StatusOK, Response{Data: data, Meta: newPageMeta(p, total)})
}

func RespondWithError(c *gin.Context, status int, code, message string) {
	write(c, status, Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func RespondOK(c *gin.Context, data any) {
	RespondWithData(c, http.StatusOK, data)
}

func RespondCreated(c *gin.Context, data any) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondAccepted acknowledges a payment request queued for the processor
func RespondAccepted(c *gin.Context, data any) {
	RespondWithData(c, http.StatusAccepted, data)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondBadRequest rejects a body or query that failed to bind
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, CodeBadRequest, message)
}

func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, CodeNotFound, message)
}

// RespondConflict reports an overlapping booking, a reused idempotency key or
// a concurrent update that lost its version check
func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, CodeConflict, message)
}

// RespondValidationError sends a 400 for input the domain rejected
func RespondValidationError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, CodeValidationError, message)
}

// RespondInvalidState sends a 409 for a booking or invoice transition that is not allowed
func RespondInvalidState(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, CodeInvalidState, message)
}

func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, CodeInternalError, "An internal server error occurred")
}
