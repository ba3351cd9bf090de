package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/client"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// ClientRepository implements client.Directory for PostgreSQL
type ClientRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewClientRepository(logger *slog.Logger, db *persistence.PostgresDB) client.Directory {
	return &ClientRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// FindByID returns NotFoundError when no client has the id
func (r *ClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, '')
		FROM clients
		WHERE id = $1
	`

	var c client.Client
	err := r.querier.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Entity: "client", ID: id}
		}
		r.logger.Error("Failed to find client", "id", id.String(), "error", err)
		return nil, shared.StoreError{Op: "find client", Err: err}
	}

	return &c, nil
}
