package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

type OrderSide string

type TradeStatusCode string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

const (
	TradeStatusExecuted TradeStatusCode = "EXECUTED"
	TradeStatusFailed   TradeStatusCode = "FAILED"
)

// Order is a single order submitted on a bulk or live trading stream.
// OrderID is caller supplied and not guaranteed unique. Quantity may be
// zero or negative; that is a business-rule violation reported by the
// live trading session, not a framing error.
type Order struct {
	OrderID  string    `yaml:"order_id" json:"order_id" validate:"required"`
	Symbol   string    `yaml:"symbol" json:"symbol" validate:"required"`
	Side     OrderSide `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	Price    float64   `yaml:"price" json:"price"`
	Quantity int64     `yaml:"quantity" json:"quantity"`
}

// TradeStatus is the per-order reply emitted by a live trading session,
// one per inbound order, in arrival order.
type TradeStatus struct {
	OrderID   string          `yaml:"order_id" json:"order_id"`
	Status    TradeStatusCode `yaml:"status" json:"status"`
	Message   string          `yaml:"message" json:"message"`
	Timestamp time.Time       `yaml:"timestamp" json:"timestamp"`
}

// Amount returns the notional value of the order.
func (o *Order) Amount() float64 {
	return o.Price * float64(o.Quantity)
}

// Validate validates the Order struct. It checks framing rules only:
// quantity positivity is deliberately not part of structural validation.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}
