package pricing

import (
	"time"

	"github.com/hotel-booking-ledger/internal/domain/resource"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// DateRange is the billed window of a booking
type DateRange struct {
	From time.Time
	To   time.Time
}

// Duration returns To - From
func (r DateRange) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// Validate rejects an unset end or an end that is not after the start
func (r DateRange) Validate() error {
	if r.From.IsZero() {
		return shared.ValidationError{Field: "check_in", Reason: "is required"}
	}
	if r.To.IsZero() {
		return shared.ValidationError{Field: "check_out", Reason: "is required"}
	}
	if !r.To.After(r.From) {
		return shared.ValidationError{Field: "check_out", Reason: "must be after check_in"}
	}
	return nil
}

// DefaultRange is the fallback window used when a form has no end date yet:
// one day for nightly categories, two hours for hourly ones.
func DefaultRange(from time.Time, category resource.Category) DateRange {
	basis, _ := category.Basis()
	if basis == resource.BillingHourly {
		return DateRange{From: from, To: from.Add(2 * time.Hour)}
	}
	return DateRange{From: from, To: from.AddDate(0, 0, 1)}
}

// BillableUnits returns the number of nights or hours charged for r.
// Nights are whole days rounded down, hours are rounded up, and both are at least 1.
func BillableUnits(r DateRange, category resource.Category) (int, error) {
	basis, ok := category.Basis()
	if !ok {
		return 0, shared.ValidationError{Field: "category", Reason: "unknown resource category " + string(category)}
	}

	d := r.Duration()
	var units int64
	switch basis {
	case resource.BillingNightly:
		units = int64(d / (24 * time.Hour))
	case resource.BillingHourly:
		units = int64(d / time.Hour)
		if d%time.Hour > 0 {
			units++
		}
	}

	if units < 1 {
		units = 1
	}
	return int(units), nil
}
