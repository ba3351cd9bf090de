// Package pricing computes booking amounts. The same Engine backs the live
// quote endpoint and the authoritative computation at booking creation.
package pricing

import (
	"github.com/hotel-booking-ledger/internal/domain/resource"
)

// Quote is the breakdown of a computed amount
type Quote struct {
	Units        int                   `json:"units"`
	Unit         resource.BillingBasis `json:"unit"`
	UnitPrice    int64                 `json:"unit_price"`
	BaseAmount   int64                 `json:"base_amount"`
	ExtrasAmount int64                 `json:"extras_amount"`
	Amount       int64                 `json:"amount"`
	Extras       []Extra               `json:"extras"`
}

// Engine is stateless; the zero value is ready to use
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Quote prices res over r with the given extras
func (e *Engine) Quote(res *resource.Resource, r DateRange, extras []Extra) (Quote, error) {
	if err := res.Validate(); err != nil {
		return Quote{}, err
	}

	units, err := BillableUnits(r, res.Category)
	if err != nil {
		return Quote{}, err
	}

	extrasAmount, err := SumExtras(extras)
	if err != nil {
		return Quote{}, err
	}

	basis, _ := res.Category.Basis()
	unitPrice := res.UnitPrice()
	base, err := mulAmount("amount", unitPrice, int64(units))
	if err != nil {
		return Quote{}, err
	}
	amount, err := addAmount("amount", base, extrasAmount)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Units:        units,
		Unit:         basis,
		UnitPrice:    unitPrice,
		BaseAmount:   base,
		ExtrasAmount: extrasAmount,
		Amount:       amount,
		Extras:       SelectedExtras(extras),
	}, nil
}

// ComputeAmount returns only the total of Quote
func (e *Engine) ComputeAmount(res *resource.Resource, r DateRange, extras []Extra) (int64, error) {
	q, err := e.Quote(res, r, extras)
	if err != nil {
		return 0, err
	}
	return q.Amount, nil
}
