package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInvoiceServiceImpl_CreateInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(newTestLogger(), nil, repo)

		repo.On("Create", ctx, mock.AnythingOfType("*invoice.Entry")).Return(nil).Once()

		entry, err := service.CreateInvoice(ctx, invoice.NewEntryParams{Description: "Minibar", Amount: 4200, Category: "room", Subcategory: "minibar"})

		require.NoError(t, err)
		assert.Equal(t, invoice.StatusPending, entry.Status)
		assert.Equal(t, int64(4200), entry.RemainingAmount)
		repo.AssertExpectations(t)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(newTestLogger(), nil, repo)

		entry, err := service.CreateInvoice(ctx, invoice.NewEntryParams{Description: "Minibar", Amount: 0})

		assert.Nil(t, entry)
		assert.ErrorIs(t, err, shared.ValidationError{Field: "amount"})
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestInvoiceServiceImpl_ListInvoices(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(newTestLogger(), nil, repo)
		filter := invoice.Filter{Status: invoice.StatusPartial}
		entries := []*invoice.Entry{{ID: uuid.New()}}

		repo.On("List", ctx, filter, 20, 0).Return(entries, nil).Once()
		repo.On("Count", ctx, filter).Return(int64(1), nil).Once()

		result, total, err := service.ListInvoices(ctx, filter, 1, 20)

		assert.NoError(t, err)
		assert.Equal(t, entries, result)
		assert.Equal(t, int64(1), total)
		repo.AssertExpectations(t)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		service := NewInvoiceService(newTestLogger(), nil, new(MockInvoiceRepository))

		_, _, err := service.ListInvoices(ctx, invoice.Filter{Status: "overdue"}, 1, 20)

		assert.ErrorIs(t, err, shared.ValidationError{Field: "status"})
	})
}

func TestInvoiceServiceImpl_CancelInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("CancelPartial", func(t *testing.T) {
		db, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer db.Close()
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(newTestLogger(), db, repo)
		entry := &invoice.Entry{ID: uuid.New(), Amount: 20000, PaidAmount: 8000, RemainingAmount: 12000, Status: invoice.StatusPartial, Version: 2}

		db.ExpectBegin()
		repo.On("WithTx", mock.Anything).Return(repo).Once()
		repo.On("LockForUpdate", ctx, entry.ID).Return(entry, nil).Once()
		repo.On("Update", ctx, entry).Return(nil).Once()
		db.ExpectCommit()

		cancelled, err := service.CancelInvoice(ctx, entry.ID)

		require.NoError(t, err)
		assert.Equal(t, invoice.StatusCancelled, cancelled.Status)
		assert.Equal(t, 3, cancelled.Version)
		assert.NoError(t, db.ExpectationsWereMet())
		repo.AssertExpectations(t)
	})

	t.Run("AlreadyPaid", func(t *testing.T) {
		db, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer db.Close()
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(newTestLogger(), db, repo)
		entry := &invoice.Entry{ID: uuid.New(), Amount: 20000, PaidAmount: 20000, Status: invoice.StatusPaid, Version: 3}

		db.ExpectBegin()
		repo.On("WithTx", mock.Anything).Return(repo).Once()
		repo.On("LockForUpdate", ctx, entry.ID).Return(entry, nil).Once()
		db.ExpectRollback()

		cancelled, err := service.CancelInvoice(ctx, entry.ID)

		assert.Nil(t, cancelled)
		assert.ErrorIs(t, err, shared.InvalidStateError{Entity: "invoice", ID: entry.ID})
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.NoError(t, db.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer db.Close()
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(newTestLogger(), db, repo)
		id := uuid.New()

		db.ExpectBegin()
		repo.On("WithTx", mock.Anything).Return(repo).Once()
		repo.On("LockForUpdate", ctx, id).Return(nil, shared.NotFoundError{Entity: "invoice", ID: id}).Once()
		db.ExpectRollback()

		_, err = service.CancelInvoice(ctx, id)

		assert.ErrorIs(t, err, shared.NotFoundError{Entity: "invoice", ID: id})
		assert.NoError(t, db.ExpectationsWereMet())
	})
}
