package models

import "github.com/shopspring/decimal"

// CashClosing is a shift-end snapshot reconciling expected vs. counted cash.
// Immutable once created: later backdated payments never change an existing
// closing, and several closings per day are allowed.
type CashClosing struct {
	Meta
	Date              string          `json:"date"` // calendar day, business timezone (2006-01-02)
	CashCountEntered  decimal.Decimal `json:"cashCountEntered"`
	ExpectedCash      decimal.Decimal `json:"expectedCash"`
	Difference        decimal.Decimal `json:"difference"` // signed: negative = shortfall
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalCash         decimal.Decimal `json:"totalCash"`
	TotalCard         decimal.Decimal `json:"totalCard"`
	TotalTransactions int             `json:"totalTransactions"`
	Notes             string          `json:"notes,omitempty"`
	ClosedBy          string          `json:"closedBy"`
}

// MethodSummary aggregates one payment method inside a reconciliation report.
type MethodSummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}
