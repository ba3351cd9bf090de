// Package redis keeps payment idempotency keys in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency:payment:"

// Commander is the subset of redis.Cmdable used by the store
type Commander interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyStore maps client idempotency keys to the payment request they first produced
type IdempotencyStore struct {
	client Commander
	ttl    time.Duration
	logger *slog.Logger
}

// NewIdempotencyStore creates a store whose keys expire after ttl
func NewIdempotencyStore(logger *slog.Logger, client Commander, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Reserve binds key to b unless it is already bound. When it is, the binding
// stored first is returned and reserved is false.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, b payment.KeyBinding) (payment.KeyBinding, bool, error) {
	if key == "" {
		return payment.KeyBinding{}, false, errors.New("idempotency key cannot be empty")
	}

	// The key can expire between SETNX and GET, so a miss is retried once.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, keyPrefix+key, encodeBinding(b), s.ttl).Result()
		if err != nil {
			s.logger.Error("Failed to reserve idempotency key", "idempotency_key", key, "error", err)
			return payment.KeyBinding{}, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		if ok {
			return b, true, nil
		}

		existing, err := s.lookup(ctx, key)
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return payment.KeyBinding{}, false, err
		}
		return existing, false, nil
	}

	return payment.KeyBinding{}, false, fmt.Errorf("idempotency key %q kept expiring during reservation", key)
}

// Lookup returns the binding of key, or the zero binding when there is none
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (payment.KeyBinding, error) {
	b, err := s.lookup(ctx, key)
	if errors.Is(err, redis.Nil) {
		return payment.KeyBinding{}, nil
	}
	return b, err
}

func (s *IdempotencyStore) lookup(ctx context.Context, key string) (payment.KeyBinding, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return payment.KeyBinding{}, err
		}
		s.logger.Error("Failed to read idempotency key", "idempotency_key", key, "error", err)
		return payment.KeyBinding{}, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	b, err := decodeBinding(value)
	if err != nil {
		return payment.KeyBinding{}, fmt.Errorf("idempotency key %q holds malformed payment id: %w", key, err)
	}
	return b, nil
}

// encodeBinding renders "<payment id>:<fingerprint>"
func encodeBinding(b payment.KeyBinding) string {
	if b.Fingerprint == "" {
		return b.PaymentID.String()
	}
	return b.PaymentID.String() + ":" + b.Fingerprint
}

// decodeBinding also accepts a bare payment id
func decodeBinding(value string) (payment.KeyBinding, error) {
	id, fingerprint, _ := strings.Cut(value, ":")
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return payment.KeyBinding{}, err
	}
	return payment.KeyBinding{PaymentID: paymentID, Fingerprint: fingerprint}, nil
}

// Release drops the key so the request can be retried, used when the payment
// could not be handed to the processor.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		s.logger.Error("Failed to release idempotency key", "idempotency_key", key, "error", err)
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
