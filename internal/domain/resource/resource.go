// Package resource describes the bookable inventory: rooms, meeting rooms,
// vehicles, terraces and restaurant spaces.
package resource

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// Category tags a resource and decides how it is billed
type Category string

const (
	CategoryRoom       Category = "room"
	CategoryVehicle    Category = "vehicle"
	CategoryMeeting    Category = "meeting"
	CategoryTerrace    Category = "terrace"
	CategoryRestaurant Category = "restaurant"
)

// BillingBasis is the unit a category is charged in
type BillingBasis string

const (
	BillingNightly BillingBasis = "night"
	BillingHourly  BillingBasis = "hour"
)

// Basis reports how the category is billed. ok is false for unknown categories.
func (c Category) Basis() (basis BillingBasis, ok bool) {
	switch c {
	case CategoryRoom, CategoryVehicle:
		return BillingNightly, true
	case CategoryMeeting, CategoryTerrace, CategoryRestaurant:
		return BillingHourly, true
	default:
		return "", false
	}
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	_, ok := c.Basis()
	return ok
}

// Resource is a bookable unit with either a nightly or an hourly price
type Resource struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Capacity      int       `json:"capacity"`
	PricePerNight *int64    `json:"price_per_night,omitempty"` // Stored in cents/minor units
	PricePerHour  *int64    `json:"price_per_hour,omitempty"`  // Stored in cents/minor units
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks that exactly the price matching the category's basis is set
func (r *Resource) Validate() error {
	basis, ok := r.Category.Basis()
	if !ok {
		return shared.ValidationError{Field: "category", Reason: "unknown resource category " + string(r.Category)}
	}
	if r.Capacity < 0 {
		return shared.ValidationError{Field: "capacity", Reason: "must not be negative"}
	}

	switch basis {
	case BillingNightly:
		if r.PricePerNight == nil || r.PricePerHour != nil {
			return shared.ValidationError{Field: "price_per_night", Reason: string(r.Category) + " must carry a nightly price only"}
		}
	case BillingHourly:
		if r.PricePerHour == nil || r.PricePerNight != nil {
			return shared.ValidationError{Field: "price_per_hour", Reason: string(r.Category) + " must carry an hourly price only"}
		}
	}

	if r.UnitPrice() < 0 {
		return shared.ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	return nil
}

// UnitPrice returns the nightly or hourly price, whichever the category uses
func (r *Resource) UnitPrice() int64 {
	basis, _ := r.Category.Basis()
	switch basis {
	case BillingNightly:
		if r.PricePerNight != nil {
			return *r.PricePerNight
		}
	case BillingHourly:
		if r.PricePerHour != nil {
			return *r.PricePerHour
		}
	}
	return 0
}
