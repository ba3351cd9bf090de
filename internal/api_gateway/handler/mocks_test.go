package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/api_gateway/service"
	"github.com/hotel-booking-ledger/internal/domain/assignment"
	"github.com/hotel-booking-ledger/internal/domain/booking"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/resource"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// PaginatedResponse is a generic version of Response for testing paginated data
type PaginatedResponse[T any] struct {
	Data          []T        `json:"data"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	Meta          *MetaInfo  `json:"meta,omitempty"`
}

// DataResponse is a generic version of Response for testing single items
type DataResponse[T any] struct {
	Data          T          `json:"data"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewBuffer(payload)
	}
	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) DataResponse[T] {
	t.Helper()
	var resp DataResponse[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func jsonUnmarshal(rr *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(rr.Body.Bytes(), v)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *ErrorInfo {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func int64Ptr(v int64) *int64 {
	return &v
}

func testRoom() *resource.Resource {
	return &resource.Resource{
		ID:            uuid.New(),
		Name:          "Suite 101",
		Category:      resource.CategoryRoom,
		Capacity:      2,
		PricePerNight: int64Ptr(10000),
	}
}

type MockResourceService struct {
	mock.Mock
}

func (m *MockResourceService) ListResources(ctx context.Context, category resource.Category) ([]*resource.Resource, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*resource.Resource), args.Error(1)
}

func (m *MockResourceService) GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resource.Resource), args.Error(1)
}

func (m *MockResourceService) Quote(ctx context.Context, input service.QuoteInput) (*service.QuoteResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuoteResult), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input service.CreateBookingInput) (*service.BookingResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingResult), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) ListBookings(ctx context.Context, filter booking.Filter, page, perPage int) ([]*booking.Booking, int64, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*booking.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingService) TransitionBooking(ctx context.Context, id uuid.UUID, to booking.Status) (*booking.Booking, error) {
	args := m.Called(ctx, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, params invoice.NewEntryParams) (*invoice.Entry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, filter invoice.Filter, page, perPage int) ([]*invoice.Entry, int64, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*invoice.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Entry), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RequestPayment(ctx context.Context, input service.PaymentInput) (uuid.UUID, bool, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*payment.Record, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Record), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, invoiceID uuid.UUID, page, perPage int) ([]*payment.Record, int64, error) {
	args := m.Called(ctx, invoiceID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*payment.Record), args.Get(1).(int64), args.Error(2)
}

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) Assign(ctx context.Context, params assignment.NewTaskParams) (*assignment.Task, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Task), args.Error(1)
}

func (m *MockAssignmentService) Complete(ctx context.Context, id uuid.UUID, at time.Time) (*assignment.Task, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Task), args.Error(1)
}

func (m *MockAssignmentService) ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*assignment.Task, error) {
	args := m.Called(ctx, staffID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Task), args.Error(1)
}
