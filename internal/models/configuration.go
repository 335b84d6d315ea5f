package models

import "github.com/shopspring/decimal"

// Configuration is the single restaurant-wide settings record. It lives under
// a fixed key (no kind prefix scan needed) and feeds the payment processor
// its tax and service rates.
type Configuration struct {
	Meta
	RestaurantName string          `json:"restaurantName"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	TaxRate        decimal.Decimal `json:"taxRate"`     // fraction, e.g. 0.19
	ServiceRate    decimal.Decimal `json:"serviceRate"` // fraction, e.g. 0.10
	Currency       string          `json:"currency"`
	Timezone       string          `json:"timezone"`
}
