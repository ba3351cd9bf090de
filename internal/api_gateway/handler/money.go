package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// minorUnitDigits is the number of decimal places in a major currency unit
const minorUnitDigits = 2

// toMinorUnits converts "250.00" into 25000. More than two decimal places or
// a value outside int64 is rejected rather than rounded or wrapped.
func toMinorUnits(field string, amount decimal.Decimal) (int64, error) {
	scaled := amount.Shift(minorUnitDigits)
	if !scaled.IsInteger() {
		return 0, shared.ValidationError{Field: field, Reason: "must have at most two decimal places"}
	}
	if !scaled.BigInt().IsInt64() {
		return 0, shared.ValidationError{Field: field, Reason: "is out of range"}
	}
	return scaled.IntPart(), nil
}

// formatMoney renders minor units as a fixed two-decimal string
func formatMoney(minor int64) string {
	return decimal.New(minor, -minorUnitDigits).StringFixed(minorUnitDigits)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatOptionalUUID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// parseOptionalUUID parses an id that binding already checked, nil stays nil
func parseOptionalUUID(field string, s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, shared.ValidationError{Field: field, Reason: "must be a UUID"}
	}
	return &id, nil
}
