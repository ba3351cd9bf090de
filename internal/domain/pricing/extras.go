package pricing

import (
	"fmt"

	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// Extra is an optional add-on (breakfast, parking, projector) charged per unit
type Extra struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Total is UnitPrice × Quantity, or 0 when the extra is not selected.
// Callers format it only after SumExtras accepted the same extras.
func (e Extra) Total() int64 {
	if e.Quantity <= 0 {
		return 0
	}
	return e.UnitPrice * int64(e.Quantity)
}

// SumExtras totals the selected extras. Entries with a quantity of zero or
// less are skipped, never subtracted. A total beyond int64 is a ValidationError.
func SumExtras(extras []Extra) (int64, error) {
	var total int64
	for i, e := range extras {
		if e.UnitPrice < 0 {
			return 0, shared.ValidationError{Field: fmt.Sprintf("extras[%d].price", i), Reason: "must not be negative"}
		}
		if e.Quantity <= 0 {
			continue
		}
		field := fmt.Sprintf("extras[%d]", i)
		line, err := mulAmount(field, e.UnitPrice, int64(e.Quantity))
		if err != nil {
			return 0, err
		}
		if total, err = addAmount("extras", total, line); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// SelectedExtras returns the extras with a positive quantity, in input order
func SelectedExtras(extras []Extra) []Extra {
	selected := make([]Extra, 0, len(extras))
	for _, e := range extras {
		if e.Quantity > 0 {
			selected = append(selected, e)
		}
	}
	return selected
}
