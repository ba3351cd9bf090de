package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCommander struct {
	mock.Mock
}

func (m *MockCommander) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewBoolResult(args.Bool(0), args.Error(1))
}

func (m *MockCommander) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

func (m *MockCommander) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return redis.NewIntResult(int64(args.Int(0)), args.Error(1))
}

func newTestStore(client Commander) *IdempotencyStore {
	return NewIdempotencyStore(slog.New(slog.NewTextHandler(io.Discard, nil)), client, time.Hour)
}

func TestIdempotencyStore_Reserve(t *testing.T) {
	ctx := context.Background()
	binding := payment.KeyBinding{PaymentID: uuid.New(), Fingerprint: "3f1c0d9a"}
	stored := binding.PaymentID.String() + ":3f1c0d9a"

	t.Run("first request reserves the key", func(t *testing.T) {
		client := new(MockCommander)
		client.On("SetNX", ctx, "idempotency:payment:k1", stored, time.Hour).Return(true, nil)

		got, reserved, err := newTestStore(client).Reserve(ctx, "k1", binding)
		require.NoError(t, err)
		assert.True(t, reserved)
		assert.Equal(t, binding, got)
		client.AssertExpectations(t)
	})

	t.Run("repeated key returns the original binding", func(t *testing.T) {
		original := uuid.New()
		client := new(MockCommander)
		client.On("SetNX", ctx, "idempotency:payment:k1", stored, time.Hour).Return(false, nil)
		client.On("Get", ctx, "idempotency:payment:k1").Return(original.String()+":77aa", nil)

		got, reserved, err := newTestStore(client).Reserve(ctx, "k1", binding)
		require.NoError(t, err)
		assert.False(t, reserved)
		assert.Equal(t, payment.KeyBinding{PaymentID: original, Fingerprint: "77aa"}, got)
	})

	t.Run("bare payment id has no fingerprint", func(t *testing.T) {
		original := uuid.New()
		client := new(MockCommander)
		client.On("SetNX", ctx, "idempotency:payment:k1", stored, time.Hour).Return(false, nil)
		client.On("Get", ctx, "idempotency:payment:k1").Return(original.String(), nil)

		got, reserved, err := newTestStore(client).Reserve(ctx, "k1", binding)
		require.NoError(t, err)
		assert.False(t, reserved)
		assert.Equal(t, payment.KeyBinding{PaymentID: original}, got)
	})

	t.Run("key expiring between calls is retried", func(t *testing.T) {
		client := new(MockCommander)
		client.On("SetNX", ctx, "idempotency:payment:k1", stored, time.Hour).Return(false, nil).Once()
		client.On("Get", ctx, "idempotency:payment:k1").Return("", redis.Nil).Once()
		client.On("SetNX", ctx, "idempotency:payment:k1", stored, time.Hour).Return(true, nil).Once()

		got, reserved, err := newTestStore(client).Reserve(ctx, "k1", binding)
		require.NoError(t, err)
		assert.True(t, reserved)
		assert.Equal(t, binding, got)
		client.AssertExpectations(t)
	})

	t.Run("redis unavailable", func(t *testing.T) {
		client := new(MockCommander)
		client.On("SetNX", ctx, "idempotency:payment:k1", stored, time.Hour).Return(false, errors.New("connection refused"))

		_, _, err := newTestStore(client).Reserve(ctx, "k1", binding)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("malformed stored value", func(t *testing.T) {
		client := new(MockCommander)
		client.On("SetNX", ctx, "idempotency:payment:k1", stored, time.Hour).Return(false, nil)
		client.On("Get", ctx, "idempotency:payment:k1").Return("not-a-uuid:abc", nil)

		_, _, err := newTestStore(client).Reserve(ctx, "k1", binding)
		assert.ErrorContains(t, err, "malformed payment id")
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := newTestStore(new(MockCommander)).Reserve(ctx, "", binding)
		assert.Error(t, err)
	})
}

func TestIdempotencyStore_LookupAndRelease(t *testing.T) {
	ctx := context.Background()
	paymentID := uuid.New()

	client := new(MockCommander)
	client.On("Get", ctx, "idempotency:payment:known").Return(paymentID.String()+":beef", nil)
	client.On("Get", ctx, "idempotency:payment:unknown").Return("", redis.Nil)
	client.On("Del", ctx, []string{"idempotency:payment:known"}).Return(1, nil)
	store := newTestStore(client)

	got, err := store.Lookup(ctx, "known")
	require.NoError(t, err)
	assert.Equal(t, payment.KeyBinding{PaymentID: paymentID, Fingerprint: "beef"}, got)

	got, err = store.Lookup(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, payment.KeyBinding{}, got)

	require.NoError(t, store.Release(ctx, "known"))
	client.AssertExpectations(t)
}
