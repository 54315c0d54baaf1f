package trading

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

type sessionState int

const (
	sessionOpen sessionState = iota
	sessionClosedOK
	sessionClosedError
)

// liveSession is the per-invocation state machine of a live trading
// stream: OPEN while orders flow, CLOSED-OK on the caller's completion
// signal, CLOSED-ERROR on abort. A session is single use; run may be
// called at most once.
type liveSession struct {
	state  sessionState
	logger *logger.Logger
}

func newLiveSession(log *logger.Logger) *liveSession {
	return &liveSession{
		state:  sessionOpen,
		logger: log,
	}
}

func (l *liveSession) run(ctx context.Context, receiver OrderReceiver, sender StatusSender) error {
	if l.state != sessionOpen {
		return errors.New(errors.ErrCodeSessionClosed, "live trading session already closed")
	}

	for {
		order, err := receiver.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Every status for prior orders has been sent by now;
				// Send is synchronous per order.
				l.state = sessionClosedOK
				l.logger.Info("live trading session completed")

				return nil
			}

			l.state = sessionClosedError

			return errors.Wrap(errors.ErrCodeStreamAborted, "live trading stream aborted", err)
		}

		if err := ctx.Err(); err != nil {
			l.state = sessionClosedError

			return errors.Wrap(errors.ErrCodeStreamAborted, "live trading session cancelled", err)
		}

		status := executeOrder(order)

		l.logger.Debug("processed live order",
			zap.String("order_id", order.OrderID),
			zap.String("status", string(status.Status)))

		if err := sender.Send(status); err != nil {
			l.state = sessionClosedError

			return errors.Wrap(errors.ErrCodeTransportFailed, "failed to deliver trade status", err)
		}
	}
}

// executeOrder applies the business rule for a single order. Only
// quantity positivity is checked; price validity is not, so a zero or
// negative price still executes.
func executeOrder(order types.Order) types.TradeStatus {
	status := types.TradeStatusExecuted
	message := fmt.Sprintf("Order %s for %s executed successfully.", order.OrderID, order.Symbol)

	if order.Quantity <= 0 {
		status = types.TradeStatusFailed
		message = fmt.Sprintf("Order %s failed: quantity must be greater than zero.", order.OrderID)
	}

	return types.TradeStatus{
		OrderID:   order.OrderID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}
