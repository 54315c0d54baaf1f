package gateway

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/quotestore"
	"github.com/rvg-labs/stock-trading/internal/server"
	"github.com/rvg-labs/stock-trading/internal/trading"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/client"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

// fakeSubscription feeds a scripted quote sequence to the gateway.
type fakeSubscription struct {
	quotes chan types.Quote
	err    error
	closed atomic.Bool
}

func newFakeSubscription(quotes []types.Quote, terminalErr error) *fakeSubscription {
	sub := &fakeSubscription{
		quotes: make(chan types.Quote, len(quotes)),
		err:    terminalErr,
	}

	for _, quote := range quotes {
		sub.quotes <- quote
	}
	close(sub.quotes)

	return sub
}

func (f *fakeSubscription) Quotes() <-chan types.Quote { return f.quotes }
func (f *fakeSubscription) Err() error                 { return f.err }

func (f *fakeSubscription) Close() error {
	f.closed.Store(true)

	return nil
}

type fakeSubscriber struct {
	sub     *fakeSubscription
	openErr error
}

func (f *fakeSubscriber) SubscribeQuotes(_ context.Context, _ string) (Subscription, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}

	return f.sub, nil
}

func testQuotes(n int) []types.Quote {
	quotes := make([]types.Quote, 0, n)
	for i := 0; i < n; i++ {
		quotes = append(quotes, types.Quote{
			Symbol:    "AAPL",
			Price:     100.0 + float64(i),
			Timestamp: time.Date(2024, 1, 2, 15, 4, i, 0, time.UTC),
		})
	}

	return quotes
}

func TestGatewayStreamsQuotes(t *testing.T) {
	sub := newFakeSubscription(testQuotes(3), nil)
	g := NewGateway(&fakeSubscriber{sub: sub}, logger.NewNopLogger())

	srv := httptest.NewServer(g.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/stream/quotes/AAPL")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var events []string

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			events = append(events, strings.TrimPrefix(line, "data: "))
		}
	}

	require.Len(t, events, 3)

	for i, event := range events {
		assert.Contains(t, event, `"symbol":"AAPL"`)
		assert.Contains(t, event, fmt.Sprintf(`"price":%d`, 100+i))
	}
}

func TestGatewayUpstreamError(t *testing.T) {
	feedErr := errors.New(errors.ErrCodeFeedTerminated, "feed blew up")
	sub := newFakeSubscription(testQuotes(1), feedErr)
	g := NewGateway(&fakeSubscriber{sub: sub}, logger.NewNopLogger())

	srv := httptest.NewServer(g.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/stream/quotes/AAPL")
	require.NoError(t, err)
	defer resp.Body.Close()

	var sawData, sawError bool

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: {") {
			sawData = true
		}

		if line == "event: error" {
			sawError = true
		}
	}

	assert.True(t, sawData, "quotes before the failure are still delivered")
	assert.True(t, sawError, "feed failure closes the channel with an error indication")
}

func TestGatewayUpstreamUnavailable(t *testing.T) {
	openErr := errors.New(errors.ErrCodeConnectionFailed, "server down")
	g := NewGateway(&fakeSubscriber{openErr: openErr}, logger.NewNopLogger())

	srv := httptest.NewServer(g.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/stream/quotes/AAPL")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGatewayEndToEnd(t *testing.T) {
	store := quotestore.NewMemoryStore()
	require.NoError(t, store.Seed(context.Background(), []types.Quote{
		{Symbol: "AAPL", Price: 150.5, Timestamp: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)},
	}))

	service := trading.NewService(store, &trading.FixedPriceSource{Price: 42.0}, trading.Config{
		FeedUpdates:  5,
		FeedInterval: 2 * time.Millisecond,
	}, logger.NewNopLogger())

	upstream := httptest.NewServer(server.NewServer(service, logger.NewNopLogger()).Handler())
	defer upstream.Close()

	g := NewGateway(ClientSubscriber{Client: client.New(upstream.URL)}, logger.NewNopLogger())
	gatewaySrv := httptest.NewServer(g.Handler())
	defer gatewaySrv.Close()

	resp, err := http.Get(gatewaySrv.URL + "/stream/quotes/AAPL")
	require.NoError(t, err)
	defer resp.Body.Close()

	var events int

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "data: ") {
			events++
		}
	}

	assert.Equal(t, 5, events)
}
