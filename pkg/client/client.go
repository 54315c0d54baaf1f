// Package client is the Go client for the stock trading streaming
// service. It speaks the same frame protocol as internal/server: a unary
// HTTP quote lookup plus websocket streams for quote subscriptions, bulk
// orders, and live trading sessions.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rvg-labs/stock-trading/internal/server"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

// Client talks to one stock trading server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dialer:     websocket.DefaultDialer,
	}
}

// wsURL converts the base URL to the websocket scheme and appends path.
func (c *Client) wsURL(path string) string {
	url := c.baseURL + path
	url = strings.Replace(url, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)

	return url
}

func (c *Client) dial(ctx context.Context, path string) (*websocket.Conn, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.wsURL(path), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeConnectionFailed, err, "failed to dial %s", path)
	}

	return conn, nil
}

// GetQuote fetches the last known quote for the symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (types.Quote, error) {
	url := fmt.Sprintf("%s/api/v1/quotes/%s", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.Quote{}, errors.Wrap(errors.ErrCodeConnectionFailed, "failed to build quote request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Quote{}, errors.Wrap(errors.ErrCodeConnectionFailed, "quote request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.Quote{}, errors.Newf(errors.ErrCodeSymbolNotFound, "no quote for symbol %s", symbol)
	}

	if resp.StatusCode != http.StatusOK {
		return types.Quote{}, errors.Newf(errors.ErrCodeTransportFailed, "quote request returned status %d", resp.StatusCode)
	}

	var quote types.Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return types.Quote{}, errors.Wrap(errors.ErrCodeTransportFailed, "failed to decode quote response", err)
	}

	return quote, nil
}

// SubscribeQuotes opens a quote subscription for the symbol. Quotes
// arrive on the returned subscription's channel until the feed completes
// or fails; cancelling ctx or calling Close tears the stream down.
func (c *Client) SubscribeQuotes(ctx context.Context, symbol string) (*QuoteSubscription, error) {
	conn, err := c.dial(ctx, "/ws/quotes")
	if err != nil {
		return nil, err
	}

	if err := conn.WriteJSON(server.Frame{Type: server.FrameTypeSubscribe, Symbol: symbol}); err != nil {
		conn.Close()

		return nil, errors.Wrap(errors.ErrCodeTransportFailed, "failed to send subscribe frame", err)
	}

	sub := &QuoteSubscription{
		symbol:  symbol,
		conn:    conn,
		quotes:  make(chan types.Quote),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
		err:     nil,
	}

	go sub.watch(ctx)
	go sub.read()

	return sub, nil
}

// BulkOrder opens a client-streamed bulk order upload.
func (c *Client) BulkOrder(ctx context.Context) (*BulkOrderStream, error) {
	conn, err := c.dial(ctx, "/ws/orders/bulk")
	if err != nil {
		return nil, err
	}

	return &BulkOrderStream{conn: conn}, nil
}

// LiveTrading opens a bidirectional live trading session.
func (c *Client) LiveTrading(ctx context.Context) (*LiveTradingSession, error) {
	conn, err := c.dial(ctx, "/ws/trading/live")
	if err != nil {
		return nil, err
	}

	return &LiveTradingSession{conn: conn}, nil
}
