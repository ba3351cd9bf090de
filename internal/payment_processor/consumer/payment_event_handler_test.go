package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessPayment(ctx context.Context, request *shared.PaymentRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestHandleMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	validRequest := &shared.PaymentRequest{
		PaymentID:      uuid.New(),
		InvoiceID:      uuid.New(),
		Amount:         12500,
		Method:         "cash",
		IdempotencyKey: "key1",
		CorrelationID:  "corr1",
		Timestamp:      time.Now(),
	}
	validJSON, err := json.Marshal(validRequest)
	require.NoError(t, err)

	var processing *MockProcessingService
	var dlq *MockDeadLetterPublisher

	tests := []struct {
		name          string
		value         []byte
		setupMocks    func()
		expectedError string
	}{
		{
			name:  "successful processing",
			value: validJSON,
			setupMocks: func() {
				processing.On("ProcessPayment", mock.Anything, mock.MatchedBy(func(req *shared.PaymentRequest) bool {
					return req.PaymentID == validRequest.PaymentID && req.Amount == 12500 && req.Method == "cash"
				})).Return(nil)
			},
		},
		{
			name:  "processing error is returned for redelivery",
			value: validJSON,
			setupMocks: func() {
				processing.On("ProcessPayment", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
			},
			expectedError: "processing payment",
		},
		{
			name:  "unmarshal error with successful DLQ publish",
			value: []byte("invalid json"),
			setupMocks: func() {
				dlq.On("PublishToDLQ", mock.Anything, "test-key", []byte("invalid json"), mock.AnythingOfType("string")).Return(nil)
			},
		},
		{
			name:  "unmarshal error with DLQ publish failure",
			value: []byte("invalid json"),
			setupMocks: func() {
				dlq.On("PublishToDLQ", mock.Anything, "test-key", []byte("invalid json"), mock.Anything).Return(errors.New("dlq error"))
			},
			expectedError: "failed to unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processing = &MockProcessingService{}
			dlq = &MockDeadLetterPublisher{}
			handler := NewPaymentEventHandler(logger, processing, dlq)

			tt.setupMocks()

			err := handler.HandleMessage(context.Background(), []byte("test-key"), tt.value)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			processing.AssertExpectations(t)
			dlq.AssertExpectations(t)
		})
	}
}

func TestHandleMessage_NoDLQConfigured(t *testing.T) {
	processing := &MockProcessingService{}
	handler := NewPaymentEventHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), processing, nil)

	err := handler.HandleMessage(context.Background(), []byte("k"), []byte("{"))

	assert.ErrorContains(t, err, "failed to unmarshal")
	processing.AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
}
