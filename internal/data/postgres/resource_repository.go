// Package postgres provides PostgreSQL implementations of the domain repositories.
// Writes that must move together run on a pgx.Tx handed in through WithTx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/resource"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// rowScanner is the part of pgx.Row and pgx.Rows used to decode one row
type rowScanner interface {
	Scan(dest ...any) error
}

// ResourceRepository implements resource.Catalog for PostgreSQL
type ResourceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewResourceRepository creates a new PostgreSQL resource catalog
func NewResourceRepository(logger *slog.Logger, db *persistence.PostgresDB) resource.Catalog {
	return &ResourceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const resourceColumns = `id, name, category, capacity, price_per_night, price_per_hour, created_at, updated_at`

func scanResource(row rowScanner) (*resource.Resource, error) {
	var res resource.Resource
	err := row.Scan(
		&res.ID,
		&res.Name,
		&res.Category,
		&res.Capacity,
		&res.PricePerNight,
		&res.PricePerHour,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetByID retrieves a resource by its ID
func (r *ResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	query := `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE id = $1
	`

	res, err := scanResource(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Entity: "resource", ID: id}
		}
		r.logger.Error("Failed to get resource", "id", id.String(), "error", err)
		return nil, shared.StoreError{Op: "get resource", Err: err}
	}

	return res, nil
}

// ListByCategory returns the resources of a category ordered by name.
// An empty category lists everything.
func (r *ResourceRepository) ListByCategory(ctx context.Context, category resource.Category) ([]*resource.Resource, error) {
	query := `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE ($1 = '' OR category = $1)
		ORDER BY name ASC
	`

	rows, err := r.querier.Query(ctx, query, string(category))
	if err != nil {
		r.logger.Error("Failed to list resources", "category", string(category), "error", err)
		return nil, shared.StoreError{Op: "list resources", Err: err}
	}
	defer rows.Close()

	resources := make([]*resource.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.StoreError{Op: "list resources", Err: err}
	}

	return resources, nil
}
