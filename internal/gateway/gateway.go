// Package gateway bridges server-streamed quote feeds onto Server-Sent
// Events. Each external request opens its own upstream subscription —
// concurrent consumers of the same symbol never share a feed — and each
// quote becomes one SSE data event. The connection closes when the feed
// completes, the feed fails, or the consumer goes away.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/types"
)

// Subscription is one upstream quote feed, as seen by the gateway.
// *client.QuoteSubscription satisfies it.
type Subscription interface {
	// Quotes yields feed emissions; the channel closes on completion or
	// failure.
	Quotes() <-chan types.Quote
	// Err reports the terminal condition once Quotes is closed; nil
	// means clean completion.
	Err() error
	// Close tears the feed down.
	Close() error
}

// Subscriber opens upstream quote feeds.
type Subscriber interface {
	SubscribeQuotes(ctx context.Context, symbol string) (Subscription, error)
}

// Gateway serves the SSE bridge.
type Gateway struct {
	subscriber Subscriber
	logger     *logger.Logger
}

// NewGateway creates a Gateway around the given upstream subscriber.
func NewGateway(subscriber Subscriber, log *logger.Logger) *Gateway {
	return &Gateway{
		subscriber: subscriber,
		logger:     log,
	}
}

// Handler returns the HTTP handler with the stream route registered.
func (g *Gateway) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/stream/quotes/{symbol}", g.handleStream).Methods("GET")

	return router
}

func (g *Gateway) handleStream(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)

		return
	}

	// ctx is cancelled by net/http when the consumer disconnects, which
	// tears the upstream feed down with it.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := g.subscriber.SubscribeQuotes(ctx, symbol)
	if err != nil {
		g.logger.Error("failed to open upstream feed",
			zap.String("symbol", symbol),
			zap.Error(err))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)

		return
	}
	defer sub.Close()

	streamID := uuid.NewString()
	log := g.logger.With(zap.String("stream_id", streamID), zap.String("symbol", symbol))
	log.Info("sse stream opened")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	delivered := 0

	for quote := range sub.Quotes() {
		data, err := json.Marshal(quote)
		if err != nil {
			log.Error("failed to encode quote", zap.Error(err))

			continue
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			// Consumer gone: terminal for the upstream feed, no retry.
			log.Info("sse consumer disconnected", zap.Int("delivered", delivered))
			sub.Close()

			return
		}

		flusher.Flush()
		delivered++
	}

	if err := sub.Err(); err != nil {
		log.Warn("upstream feed failed", zap.Error(err))

		if _, werr := fmt.Fprintf(w, "event: error\ndata: %s\n\n", err.Error()); werr == nil {
			flusher.Flush()
		}

		return
	}

	log.Info("sse stream completed", zap.Int("delivered", delivered))
}
