package client

import (
	"context"

	"github.com/google/uuid"
)

// Client is a guest record from the client directory
type Client struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
}

// Directory looks up guests by id
type Directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
}
