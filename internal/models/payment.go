package models

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayCard     PaymentMethod = "card"
	PayTransfer PaymentMethod = "transfer"
	PayMixed    PaymentMethod = "mixed"
	PayQR       PaymentMethod = "qr"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayCard, PayTransfer, PayMixed, PayQR:
		return true
	}
	return false
}

// Totals is the amount breakdown for a settlement.
// Invariant: Total = Subtotal + Tax + ServiceCharge + Tip, each non-negative.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	Tip           decimal.Decimal `json:"tip"`
	Total         decimal.Decimal `json:"total"`
}

// Payment is the immutable record of a completed settlement against one
// order. Payments are append-only; they are never updated after creation.
type Payment struct {
	Meta
	OrderID     string        `json:"orderId"`
	TableNumber string        `json:"tableNumber"` // denormalized for reporting
	Method      PaymentMethod `json:"paymentMethod"`
	Totals
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	Change         decimal.Decimal `json:"change"`
	Status         string          `json:"status"` // always "completed" once written
	Notes          string          `json:"notes,omitempty"`
}
