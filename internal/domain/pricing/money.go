package pricing

import (
	"math"

	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// mulAmount returns price × n for a non-negative price and n, failing instead
// of wrapping when the product leaves int64.
func mulAmount(field string, price, n int64) (int64, error) {
	if n != 0 && price > math.MaxInt64/n {
		return 0, shared.ValidationError{Field: field, Reason: "amount is too large"}
	}
	return price * n, nil
}

// addAmount returns a + b for non-negative operands, failing on overflow
func addAmount(field string, a, b int64) (int64, error) {
	if a > math.MaxInt64-b {
		return 0, shared.ValidationError{Field: field, Reason: "amount is too large"}
	}
	return a + b, nil
}
