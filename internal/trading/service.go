// Package trading implements the streaming protocol engine: the four RPC
// shapes (unary quote lookup, server-streamed quote subscription,
// client-streamed bulk orders, bidirectional live trading) independent of
// any transport. Transports adapt their connections to the stream
// interfaces in streams.go.
package trading

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/quotestore"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

// Default configuration values.
const (
	DefaultFeedUpdates  = 11
	DefaultFeedInterval = time.Second
)

// Config holds tunables for the service. Zero values fall back to the
// defaults above.
type Config struct {
	// FeedUpdates is the number of quotes a subscription feed emits
	// before completing.
	FeedUpdates int `yaml:"feed_updates" validate:"gte=0"`
	// FeedInterval is the spacing between consecutive feed emissions.
	FeedInterval time.Duration `yaml:"feed_interval" validate:"gte=0"`
}

// Service answers the four RPC shapes. All methods are safe for
// concurrent use; no state is shared across invocations except the quote
// store, which is concurrent-safe by contract.
type Service struct {
	store  quotestore.Store
	prices PriceSource
	config Config
	logger *logger.Logger
}

// NewService creates a Service. A nil prices source falls back to the
// random stand-in model.
func NewService(store quotestore.Store, prices PriceSource, config Config, log *logger.Logger) *Service {
	if prices == nil {
		prices = NewRandomPriceSource()
	}

	if config.FeedUpdates <= 0 {
		config.FeedUpdates = DefaultFeedUpdates
	}

	if config.FeedInterval <= 0 {
		config.FeedInterval = DefaultFeedInterval
	}

	return &Service{
		store:  store,
		prices: prices,
		config: config,
		logger: log,
	}
}

// GetQuote returns the last known quote for the symbol. Unknown symbols
// surface as an error with code errors.ErrCodeSymbolNotFound; the lookup
// is never retried.
func (s *Service) GetQuote(ctx context.Context, symbol string) (types.Quote, error) {
	quote, err := s.store.GetQuote(ctx, symbol)
	if err != nil {
		return types.Quote{}, err
	}

	return quote, nil
}

// SubscribeQuotes emits a bounded sequence of quotes for the symbol to
// the sender, one per feed interval, then returns nil to signal clean
// completion. The symbol must be known to the quote store at startup.
// Cancelling ctx stops the feed at its next suspension point and releases
// the timer; no undelivered quotes are buffered.
func (s *Service) SubscribeQuotes(ctx context.Context, symbol string, sender QuoteSender) error {
	if _, err := s.store.GetQuote(ctx, symbol); err != nil {
		return err
	}

	ticker := time.NewTicker(s.config.FeedInterval)
	defer ticker.Stop()

	for i := 0; i < s.config.FeedUpdates; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errors.Wrap(errors.ErrCodeFeedTerminated, "quote feed cancelled", ctx.Err())
			case <-ticker.C:
			}
		}

		quote := types.Quote{
			Symbol:    symbol,
			Price:     s.prices.Next(symbol),
			Timestamp: time.Now(),
		}

		if err := sender.Send(quote); err != nil {
			return errors.Wrap(errors.ErrCodeTransportFailed, "failed to deliver quote", err)
		}
	}

	s.logger.Info("quote feed completed",
		zap.String("symbol", symbol),
		zap.Int("updates", s.config.FeedUpdates))

	return nil
}

// BulkOrder consumes orders from the receiver until the caller signals
// completion, then returns the aggregated summary. On a stream abort the
// partial aggregation is discarded and no summary is produced.
func (s *Service) BulkOrder(ctx context.Context, receiver OrderReceiver) (types.OrderSummary, error) {
	acc := newOrderAccumulator()

	for {
		order, err := receiver.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				summary := acc.summary()
				s.logger.Info("bulk order stream completed",
					zap.Int("total_orders", summary.TotalOrders),
					zap.Float64("total_amount", summary.TotalAmount))

				return summary, nil
			}

			return types.OrderSummary{}, errors.Wrap(errors.ErrCodeStreamAborted, "bulk order stream aborted", err)
		}

		if err := ctx.Err(); err != nil {
			return types.OrderSummary{}, errors.Wrap(errors.ErrCodeStreamAborted, "bulk order stream cancelled", err)
		}

		s.logger.Debug("received bulk order",
			zap.String("order_id", order.OrderID),
			zap.String("symbol", order.Symbol),
			zap.String("side", string(order.Side)))

		acc.add(order)
	}
}

// LiveTrading runs one live trading session: one TradeStatus per inbound
// order, in arrival order, until the caller signals completion. The
// session is single use.
func (s *Service) LiveTrading(ctx context.Context, receiver OrderReceiver, sender StatusSender) error {
	session := newLiveSession(s.logger)

	return session.run(ctx, receiver, sender)
}
