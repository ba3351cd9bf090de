package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtraRequest is one optional add-on of a quote or booking request
type ExtraRequest struct {
	ID       string          `json:"id" binding:"required"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" binding:"max=10000"`
}

// ExtraResponse represents a selected extra in API responses
type ExtraResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// ResourceResponse represents a bookable resource in API responses
type ResourceResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	BillingUnit   string `json:"billing_unit"`
	Capacity      int    `json:"capacity"`
	PricePerNight string `json:"price_per_night,omitempty"`
	PricePerHour  string `json:"price_per_hour,omitempty"`
}

// ResourceListQuery filters the resource catalog
type ResourceListQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=room vehicle meeting terrace restaurant"`
}

// QuoteRequest asks for the price of a prospective booking. Without
// check_out the category's default window is priced.
type QuoteRequest struct {
	ResourceID string         `json:"resource_id" binding:"required,uuid"`
	CheckIn    time.Time      `json:"check_in"`
	CheckOut   *time.Time     `json:"check_out,omitempty"`
	Extras     []ExtraRequest `json:"extras" binding:"omitempty,dive"`
}

// QuoteResponse is the price breakdown of a quote
type QuoteResponse struct {
	ResourceID   string          `json:"resource_id"`
	Category     string          `json:"category"`
	CheckIn      string          `json:"check_in"`
	CheckOut     string          `json:"check_out"`
	Units        int             `json:"units"`
	Unit         string          `json:"unit"`
	UnitPrice    string          `json:"unit_price"`
	BaseAmount   string          `json:"base_amount"`
	ExtrasAmount string          `json:"extras_amount"`
	Amount       string          `json:"amount"`
	Extras       []ExtraResponse `json:"extras"`
}

// CreateBookingRequest represents a request to create a new booking
type CreateBookingRequest struct {
	ResourceID string         `json:"resource_id" binding:"required,uuid"`
	RoomID     *string        `json:"room_id,omitempty" binding:"omitempty,uuid"`
	ClientID   *string        `json:"client_id,omitempty" binding:"omitempty,uuid"`
	GuestName  string         `json:"guest_name"`
	CheckIn    time.Time      `json:"check_in"`
	CheckOut   time.Time      `json:"check_out"`
	Extras     []ExtraRequest `json:"extras" binding:"omitempty,dive"`
	CreatedBy  *string        `json:"created_by,omitempty" binding:"omitempty,uuid"`
	Settlement string         `json:"settlement" binding:"omitempty,oneof=none pay_later pay_now"`
	Method     string         `json:"method,omitempty" binding:"omitempty,oneof=cash card transfer"`
	DueDate    *time.Time     `json:"due_date,omitempty"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID         string          `json:"id"`
	ResourceID string          `json:"resource_id"`
	RoomID     string          `json:"room_id,omitempty"`
	Category   string          `json:"category"`
	GuestName  string          `json:"guest_name"`
	ClientID   string          `json:"client_id,omitempty"`
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	Units      int             `json:"units"`
	Amount     string          `json:"amount"`
	Extras     []ExtraResponse `json:"extras"`
	Status     string          `json:"status"`
	CreatedBy  string          `json:"created_by,omitempty"`
	Version    int             `json:"version"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

// CreateBookingResponse is the stored booking and the invoice opened with it
type CreateBookingResponse struct {
	BookingResponse
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

// BookingListQuery filters the booking list
type BookingListQuery struct {
	ResourceID string `form:"resource_id" binding:"omitempty,uuid"`
	ClientID   string `form:"client_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=confirmed completed canceled"`
}

// CreateInvoiceRequest represents a request to open an ad-hoc charge
type CreateInvoiceRequest struct {
	BookingID   *string         `json:"booking_id,omitempty" binding:"omitempty,uuid"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	ClientID    *string         `json:"client_id,omitempty" binding:"omitempty,uuid"`
	StaffID     *string         `json:"staff_id,omitempty" binding:"omitempty,uuid"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
}

// InvoiceResponse represents an invoice ledger entry in API responses
type InvoiceResponse struct {
	ID              string `json:"id"`
	BookingID       string `json:"booking_id,omitempty"`
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	PaidAmount      string `json:"paid_amount"`
	RemainingAmount string `json:"remaining_amount"`
	Status          string `json:"status"`
	Type            string `json:"type"`
	Method          string `json:"method,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
	LastPaymentAt   string `json:"last_payment_at,omitempty"`
	ClientID        string `json:"client_id,omitempty"`
	StaffID         string `json:"staff_id,omitempty"`
	Category        string `json:"category,omitempty"`
	Subcategory     string `json:"subcategory,omitempty"`
	Version         int    `json:"version"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// InvoiceListQuery filters the invoice list
type InvoiceListQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending partial paid cancelled"`
	ClientID  string `form:"client_id" binding:"omitempty,uuid"`
	BookingID string `form:"booking_id" binding:"omitempty,uuid"`
}

// CreatePaymentRequest represents a request to pay against an invoice. The
// Idempotency-Key header takes precedence over the body field.
type CreatePaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method" binding:"required,oneof=cash card transfer"`
	IdempotencyKey string          `json:"idempotency_key,omitempty" binding:"max=255"`
}

// PaymentAcceptedResponse acknowledges a payment request handed to the processor
type PaymentAcceptedResponse struct {
	PaymentID string `json:"payment_id"`
	InvoiceID string `json:"invoice_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// PaymentResponse represents a payment history record in API responses
type PaymentResponse struct {
	PaymentID       string `json:"payment_id"`
	InvoiceID       string `json:"invoice_id"`
	Amount          string `json:"amount"`
	AppliedAmount   string `json:"applied_amount"`
	Method          string `json:"method"`
	Status          string `json:"status"`
	FailureReason   string `json:"failure_reason,omitempty"`
	InvoiceStatus   string `json:"invoice_status,omitempty"`
	RemainingAmount string `json:"remaining_amount"`
	CreatedAt       string `json:"created_at"`
	ProcessedAt     string `json:"processed_at,omitempty"`
}

// CreateAssignmentRequest represents a request to assign a task to a staff member
type CreateAssignmentRequest struct {
	StaffID     string  `json:"staff_id" binding:"required,uuid"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description,omitempty"`
	Shift       string  `json:"shift" binding:"required,oneof=morning afternoon night"`
	ShiftDate   string  `json:"shift_date" binding:"required,datetime=2006-01-02"`
	AssignedBy  *string `json:"assigned_by,omitempty" binding:"omitempty,uuid"`
}

// TaskResponse represents a staff task in API responses
type TaskResponse struct {
	ID          string `json:"id"`
	StaffID     string `json:"staff_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Shift       string `json:"shift"`
	ShiftDate   string `json:"shift_date"`
	Status      string `json:"status"`
	AssignedBy  string `json:"assigned_by,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// StaffTasksQuery bounds the shift dates of a staff task listing.
// Both ends default to a week starting today.
type StaffTasksQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
