package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
)

// KeyBinding is what a client idempotency key points at: the payment it was
// first used for and a fingerprint of that request
type KeyBinding struct {
	PaymentID   uuid.UUID
	Fingerprint string
}

// RequestFingerprint identifies the invoice, amount and method of a payment
// request. Two requests under one key must share it to count as a retry.
func RequestFingerprint(invoiceID uuid.UUID, amount int64, method string) string {
	h := sha256.New()
	h.Write(invoiceID[:])
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(amount, 10)))
	h.Write([]byte{0})
	h.Write([]byte(method))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Matches reports whether fingerprint is a retry of the bound request.
// Bindings stored without a fingerprint match anything.
func (b KeyBinding) Matches(fingerprint string) bool {
	return b.Fingerprint == "" || b.Fingerprint == fingerprint
}
