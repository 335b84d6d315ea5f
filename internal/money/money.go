// Package money centralizes the monetary arithmetic rules: decimal values
// only, two fractional digits, round half-up at component boundaries.
package money

import "github.com/shopspring/decimal"

// Round2 rounds to 2 decimal places, half away from zero. Amounts are never
// negative here, so this is round-half-up.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Part returns amount × rate rounded to 2 decimal places.
func Part(amount, rate decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(rate))
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
