package models

import "github.com/shopspring/decimal"

// Product is an inventory item. Unlike the financial records, products may be
// deleted outright.
type Product struct {
	Meta
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"minStock"`
	Image    string          `json:"image,omitempty"`
}

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

// Table is a dining table managed by the floor staff.
type Table struct {
	Meta
	Number   string      `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
	Waiter   string      `json:"waiter,omitempty"`
}
