package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further transition may leave s.
func (s OrderStatus) Terminal() bool { return s == OrderPaid || s == OrderCancelled }

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Order is a table's set of requested items moving through the
// preparation/settlement lifecycle. Subtotal is derived from Items and must
// always be recomputable from them.
type Order struct {
	Meta
	TableNumber string          `json:"tableNumber"`
	Waiter      string          `json:"waiter"`
	Items       []OrderItem     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Status      OrderStatus     `json:"status"`
	PaidAt      *time.Time      `json:"paidAt,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}
