package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/assignment"
	"github.com/hotel-booking-ledger/internal/domain/booking"
	"github.com/hotel-booking-ledger/internal/domain/client"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/resource"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resource.Resource), args.Error(1)
}

func (m *MockCatalog) ListByCategory(ctx context.Context, category resource.Category) ([]*resource.Resource, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*resource.Resource), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter booking.Filter, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) Count(ctx context.Context, filter booking.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) LockResource(ctx context.Context, resourceID uuid.UUID) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

func (m *MockBookingRepository) HasOverlap(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (bool, error) {
	args := m.Called(ctx, resourceID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) WithTx(tx pgx.Tx) booking.Repository {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(booking.Repository)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, entry *invoice.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, filter invoice.Filter, limit, offset int) ([]*invoice.Entry, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter invoice.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*invoice.Entry, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, entry *invoice.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockInvoiceRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(invoice.Repository)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, record *payment.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Record, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Record), args.Error(1)
}

func (m *MockPaymentRepository) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*payment.Record, error) {
	args := m.Called(ctx, invoiceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Record), args.Error(1)
}

func (m *MockPaymentRepository) CountByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status shared.PaymentStatus, reason string) error {
	args := m.Called(ctx, paymentID, status, reason)
	return args.Error(0)
}

func (m *MockPaymentRepository) Save(ctx context.Context, record *payment.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockIdempotencyKeys struct {
	mock.Mock
}

func (m *MockIdempotencyKeys) Reserve(ctx context.Context, key string, b payment.KeyBinding) (payment.KeyBinding, bool, error) {
	args := m.Called(ctx, key, b)
	return args.Get(0).(payment.KeyBinding), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyKeys) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockMessagingProducer struct {
	mock.Mock
}

func (m *MockMessagingProducer) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagingProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, task *assignment.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Task), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, task *assignment.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockAssignmentRepository) ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*assignment.Task, error) {
	args := m.Called(ctx, staffID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Task), args.Error(1)
}

func (m *MockAssignmentRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*assignment.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Task), args.Error(1)
}

func (m *MockAssignmentRepository) WithTx(tx pgx.Tx) assignment.Repository {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(assignment.Repository)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func testRoom() *resource.Resource {
	return &resource.Resource{
		ID:            uuid.New(),
		Name:          "Room 101",
		Category:      resource.CategoryRoom,
		Capacity:      2,
		PricePerNight: int64Ptr(10000),
	}
}

func testMeetingRoom() *resource.Resource {
	return &resource.Resource{
		ID:           uuid.New(),
		Name:         "Board Room",
		Category:     resource.CategoryMeeting,
		Capacity:     12,
		PricePerHour: int64Ptr(3000),
	}
}
