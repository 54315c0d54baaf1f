package trading

import (
	"github.com/rvg-labs/stock-trading/internal/types"
)

// QuoteSender delivers quotes to the subscribing peer. Send blocks until
// the quote is accepted by the transport or the peer is gone.
type QuoteSender interface {
	Send(quote types.Quote) error
}

// OrderReceiver yields orders from the calling peer in arrival order.
// Recv returns io.EOF once the caller signals completion. Any other error
// is a stream abort: the caller went away or signalled a failure, and no
// terminal response must be produced.
type OrderReceiver interface {
	Recv() (types.Order, error)
}

// StatusSender delivers per-order trade statuses to the calling peer.
type StatusSender interface {
	Send(status types.TradeStatus) error
}
