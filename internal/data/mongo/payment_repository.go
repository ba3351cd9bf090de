// Package mongo stores the payment history in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

const (
	// PaymentCollectionName is the name of the payment history collection in MongoDB
	PaymentCollectionName = "payment_records"
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements the payment.Repository interface for MongoDB
type PaymentRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewPaymentRepository creates a new MongoDB payment history repository
func NewPaymentRepository(logger *slog.Logger, db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PaymentRepository) collection() *mongo.Collection {
	return r.db.Collection(PaymentCollectionName)
}

// EnsureIndexes creates the unique payment_id index and the invoice lookup index
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "payment_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("payment_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "invoice_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("invoice_id_created_at"),
		},
	})
	if err != nil {
		r.logger.Error("Failed to create payment record indexes", "error", err)
		return fmt.Errorf("failed to create payment record indexes: %w", err)
	}
	return nil
}

// Create stores a new record.
// Returns ErrDuplicateRecord if a record with the same payment ID exists.
func (r *PaymentRepository) Create(ctx context.Context, record *payment.Record) error {
	_, err := r.collection().InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return payment.ErrDuplicateRecord{PaymentID: record.PaymentID}
		}
		r.logger.Error("Failed to create payment record",
			"payment_id", record.PaymentID.String(),
			"error", err)
		return fmt.Errorf("failed to create payment record: %w", err)
	}

	return nil
}

// GetByPaymentID retrieves the record of a payment.
// Returns NotFoundError if the payment has no record yet.
func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Record, error) {
	var record payment.Record
	err := r.collection().FindOne(ctx, bson.M{"payment_id": paymentID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.NotFoundError{Entity: "payment", ID: paymentID}
		}
		r.logger.Error("Failed to get payment record",
			"payment_id", paymentID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get payment record: %w", err)
	}

	return &record, nil
}

// ListByInvoiceID retrieves paginated records of an invoice, newest first
func (r *PaymentRepository) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*payment.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection().Find(ctx, bson.M{"invoice_id": invoiceID}, opts)
	if err != nil {
		r.logger.Error("Failed to list payment records",
			"invoice_id", invoiceID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]*payment.Record, 0)
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode payment records",
			"invoice_id", invoiceID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode payment records: %w", err)
	}

	return records, nil
}

// CountByInvoiceID counts the records of an invoice
func (r *PaymentRepository) CountByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	count, err := r.collection().CountDocuments(ctx, bson.M{"invoice_id": invoiceID})
	if err != nil {
		r.logger.Error("Failed to count payment records",
			"invoice_id", invoiceID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count payment records: %w", err)
	}

	return count, nil
}

// UpdateStatus sets the status, failure reason and processed timestamp.
// Returns NotFoundError if the record doesn't exist.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status shared.PaymentStatus, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"failure_reason": reason,
			"processed_at":   time.Now().UTC(),
		},
	}

	result, err := r.collection().UpdateOne(ctx, bson.M{"payment_id": paymentID}, update)
	if err != nil {
		r.logger.Error("Failed to update payment record status",
			"payment_id", paymentID.String(),
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update payment record status: %w", err)
	}

	if result.MatchedCount == 0 {
		return shared.NotFoundError{Entity: "payment", ID: paymentID}
	}

	return nil
}

// Save replaces the record of the payment, inserting it when missing
func (r *PaymentRepository) Save(ctx context.Context, record *payment.Record) error {
	_, err := r.collection().ReplaceOne(ctx,
		bson.M{"payment_id": record.PaymentID},
		record,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		r.logger.Error("Failed to save payment record",
			"payment_id", record.PaymentID.String(),
			"status", string(record.Status),
			"error", err)
		return fmt.Errorf("failed to save payment record: %w", err)
	}

	return nil
}
