package resource

import (
	"context"

	"github.com/google/uuid"
)

// Catalog is the read side of the resource inventory
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListByCategory(ctx context.Context, category Category) ([]*Resource, error)
}
