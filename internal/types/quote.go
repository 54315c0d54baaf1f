package types

import (
	"time"
)

// Quote is a single price observation for a stock symbol. Quotes are
// immutable once constructed; every emission on a subscription feed is a
// freshly built value.
type Quote struct {
	Symbol    string    `yaml:"symbol" json:"symbol" validate:"required"`
	Price     float64   `yaml:"price" json:"price" validate:"gte=0"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" validate:"required"`
}

// OrderSummary is the terminal response of a bulk order stream. Totals
// accumulate monotonically over exactly one stream and are never reused.
type OrderSummary struct {
	TotalOrders  int     `yaml:"total_orders" json:"total_orders"`
	TotalAmount  float64 `yaml:"total_amount" json:"total_amount"`
	SuccessCount int     `yaml:"success_count" json:"success_count"`
}
