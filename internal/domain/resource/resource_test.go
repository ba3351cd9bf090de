package resource

import (
	"errors"
	"testing"

	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func price(v int64) *int64 { return &v }

func TestCategory_Basis(t *testing.T) {
	tests := []struct {
		category Category
		basis    BillingBasis
		ok       bool
	}{
		{CategoryRoom, BillingNightly, true},
		{CategoryVehicle, BillingNightly, true},
		{CategoryMeeting, BillingHourly, true},
		{CategoryTerrace, BillingHourly, true},
		{CategoryRestaurant, BillingHourly, true},
		{Category("spa"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			basis, ok := tt.category.Basis()
			assert.Equal(t, tt.basis, basis)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ok, tt.category.Valid())
		})
	}
}

func TestResource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		res     Resource
		wantErr bool
	}{
		{"room with nightly price", Resource{Category: CategoryRoom, PricePerNight: price(10000)}, false},
		{"meeting with hourly price", Resource{Category: CategoryMeeting, PricePerHour: price(3000)}, false},
		{"room with hourly price", Resource{Category: CategoryRoom, PricePerHour: price(3000)}, true},
		{"room with both prices", Resource{Category: CategoryRoom, PricePerNight: price(1), PricePerHour: price(1)}, true},
		{"terrace without price", Resource{Category: CategoryTerrace}, true},
		{"negative price", Resource{Category: CategoryVehicle, PricePerNight: price(-5)}, true},
		{"negative capacity", Resource{Category: CategoryRoom, Capacity: -1, PricePerNight: price(1)}, true},
		{"unknown category", Resource{Category: "spa", PricePerHour: price(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.res.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, shared.ValidationError{}))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResource_UnitPrice(t *testing.T) {
	room := Resource{Category: CategoryRoom, PricePerNight: price(10000)}
	meeting := Resource{Category: CategoryMeeting, PricePerHour: price(3000)}
	broken := Resource{Category: CategoryMeeting, PricePerNight: price(3000)}

	assert.Equal(t, int64(10000), room.UnitPrice())
	assert.Equal(t, int64(3000), meeting.UnitPrice())
	assert.Equal(t, int64(0), broken.UnitPrice())
}
