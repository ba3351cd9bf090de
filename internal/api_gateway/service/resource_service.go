package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/pricing"
	"github.com/hotel-booking-ledger/internal/domain/resource"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// ResourceServiceImpl implements the ResourceService interface
type ResourceServiceImpl struct {
	catalog resource.Catalog
	engine  *pricing.Engine
}

// NewResourceService creates a new resource service
func NewResourceService(catalog resource.Catalog, engine *pricing.Engine) ResourceService {
	return &ResourceServiceImpl{
		catalog: catalog,
		engine:  engine,
	}
}

// ListResources lists the catalog, filtered by category when one is given
func (s *ResourceServiceImpl) ListResources(ctx context.Context, category resource.Category) ([]*resource.Resource, error) {
	if category != "" && !category.Valid() {
		return nil, shared.ValidationError{Field: "category", Reason: "unknown resource category " + string(category)}
	}
	return s.catalog.ListByCategory(ctx, category)
}

// GetResource retrieves a resource by its ID
func (s *ResourceServiceImpl) GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	return s.catalog.GetByID(ctx, id)
}

// Quote runs the same pricing as booking creation
func (s *ResourceServiceImpl) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if input.ResourceID == uuid.Nil {
		return nil, shared.ValidationError{Field: "resource_id", Reason: "is required"}
	}

	res, err := s.catalog.GetByID(ctx, input.ResourceID)
	if err != nil {
		return nil, err
	}

	r, err := quoteRange(input.CheckIn, input.CheckOut, res.Category)
	if err != nil {
		return nil, err
	}

	q, err := s.engine.Quote(res, r, input.Extras)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{Resource: res, Range: r, Quote: q}, nil
}

// quoteRange fills a missing end with the category's default window
func quoteRange(checkIn, checkOut time.Time, category resource.Category) (pricing.DateRange, error) {
	if checkIn.IsZero() {
		return pricing.DateRange{}, shared.ValidationError{Field: "check_in", Reason: "is required"}
	}
	if checkOut.IsZero() {
		return pricing.DefaultRange(checkIn, category), nil
	}
	r := pricing.DateRange{From: checkIn, To: checkOut}
	if err := r.Validate(); err != nil {
		return pricing.DateRange{}, err
	}
	return r, nil
}
