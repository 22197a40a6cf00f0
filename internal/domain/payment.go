package domain

import (
	"fmt"
	"time"
)

// DefaultPaymentMethod is used when a payment does not name one.
const DefaultPaymentMethod = "card"

// Payment is a recorded (not processed) condominium fee payment.
type Payment struct {
	ID         int64
	UserID     int64
	UnitID     *int64
	Amount     float64
	Method     string
	PaidAt     time.Time
	Receipt    string
	ReceiptKey string
}

// ReceiptCode builds the mock receipt identifier for a payment made at t.
func ReceiptCode(t time.Time) string {
	return fmt.Sprintf("RCPT-%d", t.Unix())
}
