package trading

import (
	"github.com/shopspring/decimal"

	"github.com/rvg-labs/stock-trading/internal/types"
)

// orderAccumulator holds the running totals of one bulk order stream. It
// is owned exclusively by the stream-handling goroutine and lives for
// exactly one stream invocation.
type orderAccumulator struct {
	totalOrders  int
	totalAmount  decimal.Decimal
	successCount int
}

func newOrderAccumulator() *orderAccumulator {
	return &orderAccumulator{
		totalOrders:  0,
		totalAmount:  decimal.Zero,
		successCount: 0,
	}
}

// add records one accepted order. Every structurally valid order counts
// as successful at aggregation time; rejection happens only in live
// trading sessions.
func (a *orderAccumulator) add(order types.Order) {
	amount := decimal.NewFromFloat(order.Price).Mul(decimal.NewFromInt(order.Quantity))

	a.totalOrders++
	a.totalAmount = a.totalAmount.Add(amount)
	a.successCount++
}

// summary produces the terminal response for the stream.
func (a *orderAccumulator) summary() types.OrderSummary {
	return types.OrderSummary{
		TotalOrders:  a.totalOrders,
		TotalAmount:  a.totalAmount.InexactFloat64(),
		SuccessCount: a.successCount,
	}
}
