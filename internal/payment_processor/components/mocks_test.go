package components

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/outbox"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, entry *invoice.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceRepo) List(ctx context.Context, filter invoice.Filter, limit, offset int) ([]*invoice.Entry, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceRepo) Count(ctx context.Context, filter invoice.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepo) GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*invoice.Entry, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceRepo) Update(ctx context.Context, entry *invoice.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockInvoiceRepo) LockForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Entry), args.Error(1)
}

func (m *MockInvoiceRepo) WithTx(tx pgx.Tx) invoice.Repository {
	m.Called(tx)
	return m
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) PurgeProcessed(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepo) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	m.Called(tx)
	return m
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, record *payment.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Record, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Record), args.Error(1)
}

func (m *MockPaymentRepo) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*payment.Record, error) {
	args := m.Called(ctx, invoiceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Record), args.Error(1)
}

func (m *MockPaymentRepo) CountByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status shared.PaymentStatus, reason string) error {
	args := m.Called(ctx, paymentID, status, reason)
	return args.Error(0)
}

func (m *MockPaymentRepo) Save(ctx context.Context, record *payment.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func newPaymentRequest() *shared.PaymentRequest {
	return &shared.PaymentRequest{
		PaymentID:     uuid.New(),
		InvoiceID:     uuid.New(),
		Amount:        8000,
		Method:        "card",
		CorrelationID: "corr-1",
	}
}

func pendingInvoice(id uuid.UUID, amount int64) *invoice.Entry {
	return &invoice.Entry{
		ID:              id,
		Description:     "Suite 101",
		Amount:          amount,
		RemainingAmount: amount,
		Status:          invoice.StatusPending,
		Type:            invoice.TypePending,
		Version:         1,
	}
}
