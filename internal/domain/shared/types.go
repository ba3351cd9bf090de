package shared

// PaymentStatus tracks a payment request through the processor
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

// FailureReason categorises a payment the processor refused
type FailureReason string

const (
	FailureReasonInvoiceNotFound    FailureReason = "INVOICE_NOT_FOUND"
	FailureReasonInvoiceCancelled   FailureReason = "INVOICE_CANCELLED"
	FailureReasonInvoiceAlreadyPaid FailureReason = "INVOICE_ALREADY_PAID"
	FailureReasonInvalidAmount      FailureReason = "INVALID_AMOUNT"
	FailureReasonInvalidMethod      FailureReason = "INVALID_METHOD"
	FailureReasonInvalidState       FailureReason = "INVALID_STATE"
	FailureReasonUnknownError       FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
