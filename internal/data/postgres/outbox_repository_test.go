package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/outbox"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outboxRowColumns = []string{"id", "payment_id", "invoice_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	message := &outbox.Message{
		PaymentID: uuid.New(),
		InvoiceID: uuid.New(),
		Payload:   []byte(`{"amount":100}`),
		Status:    shared.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
	query := regexp.QuoteMeta("INSERT INTO payment_outbox (payment_id, invoice_id, payload, status, attempts, created_at)")

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(message.PaymentID, message.InvoiceID, message.Payload, message.Status, 0, message.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		require.NoError(t, repo.Create(ctx, message))
		assert.Equal(t, int64(42), message.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate payment", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(message.PaymentID, message.InvoiceID, message.Payload, message.Status, 0, message.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "payment_outbox_payment_id_key"})

		err := repo.Create(ctx, message)
		var dup outbox.ErrDuplicateMessage
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, message.PaymentID, dup.PaymentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(query).WillReturnError(dbErr)

		err := repo.Create(ctx, message)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to create outbox message")
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	now := time.Now()
	first := &outbox.Message{ID: 1, PaymentID: uuid.New(), InvoiceID: uuid.New(), Payload: []byte(`{}`), Status: shared.OutboxStatusPending, CreatedAt: now}
	second := &outbox.Message{ID: 2, PaymentID: uuid.New(), InvoiceID: uuid.New(), Payload: []byte(`{}`), Status: shared.OutboxStatusPending, Attempts: 2, CreatedAt: now, LastAttemptAt: &now}

	rows := pgxmock.NewRows(outboxRowColumns).
		AddRow(first.ID, first.PaymentID, first.InvoiceID, first.Payload, first.Status, first.Attempts, first.CreatedAt, nil).
		AddRow(second.ID, second.PaymentID, second.InvoiceID, second.Payload, second.Status, second.Attempts, second.CreatedAt, second.LastAttemptAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_outbox")).
		WithArgs(shared.OutboxStatusPending, 10).
		WillReturnRows(rows)

	messages, err := repo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first, messages[0])
	assert.Equal(t, second, messages[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_UpdateStatusAndAttempts(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment_outbox")).
		WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateStatus(ctx, 7, shared.OutboxStatusProcessed))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment_outbox")).
		WithArgs(shared.OutboxStatusFailedToPublish, pgxmock.AnyArg(), int64(8)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 8, shared.OutboxStatusFailedToPublish), outbox.ErrMessageNotFound{ID: 8})

	mock.ExpectExec(regexp.QuoteMeta("SET attempts = attempts + 1")).
		WithArgs(pgxmock.AnyArg(), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.IncrementAttempts(ctx, 7))

	cutoff := time.Now().Add(-24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM payment_outbox")).
		WithArgs(shared.OutboxStatusProcessed, cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	purged, err := repo.PurgeProcessed(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM payment_outbox")).
		WithArgs(shared.OutboxStatusProcessed, cutoff).
		WillReturnError(errors.New("statement timeout"))
	_, err = repo.PurgeProcessed(ctx, cutoff)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_GetByPaymentID(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	paymentID := uuid.New()
	query := regexp.QuoteMeta("WHERE payment_id = $1")

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(query).WithArgs(paymentID).WillReturnRows(
			pgxmock.NewRows(outboxRowColumns).AddRow(int64(3), paymentID, uuid.New(), []byte(`{}`), shared.OutboxStatusProcessed, 1, now, &now),
		)

		msg, err := repo.GetByPaymentID(ctx, paymentID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), msg.ID)
		assert.Equal(t, shared.OutboxStatusProcessed, msg.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(paymentID).WillReturnError(pgx.ErrNoRows)

		msg, err := repo.GetByPaymentID(ctx, paymentID)
		assert.Nil(t, msg)
		assert.ErrorAs(t, err, &outbox.ErrMessageNotFound{})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_WithTx(t *testing.T) {
	repo := &OutboxRepository{logger: newTestLogger()}

	mockTx := pgx.Tx(nil)
	txRepo, ok := repo.WithTx(mockTx).(*OutboxRepository)

	require.True(t, ok)
	assert.Equal(t, mockTx, txRepo.querier)
	assert.Equal(t, repo.logger, txRepo.logger)
}
