package client_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/quotestore"
	"github.com/rvg-labs/stock-trading/internal/server"
	"github.com/rvg-labs/stock-trading/internal/trading"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/client"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

type ClientTestSuite struct {
	suite.Suite
	httpServer *httptest.Server
	client     *client.Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	store := quotestore.NewMemoryStore()
	err := store.Seed(context.Background(), []types.Quote{
		{Symbol: "AAPL", Price: 150.5, Timestamp: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)},
	})
	s.Require().NoError(err)

	service := trading.NewService(store, &trading.FixedPriceSource{Price: 42.0}, trading.Config{
		FeedUpdates:  11,
		FeedInterval: 2 * time.Millisecond,
	}, logger.NewNopLogger())

	srv := server.NewServer(service, logger.NewNopLogger())
	s.httpServer = httptest.NewServer(srv.Handler())
	s.client = client.New(s.httpServer.URL)
}

func (s *ClientTestSuite) TearDownTest() {
	s.httpServer.Close()
}

func (s *ClientTestSuite) TestGetQuote() {
	quote, err := s.client.GetQuote(context.Background(), "AAPL")
	s.NoError(err)
	s.Equal("AAPL", quote.Symbol)
	s.InDelta(150.5, quote.Price, 1e-9)
}

func (s *ClientTestSuite) TestGetQuoteUnknownSymbol() {
	_, err := s.client.GetQuote(context.Background(), "NVDA")
	s.Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeSymbolNotFound))
}

func (s *ClientTestSuite) TestSubscribeQuotes() {
	sub, err := s.client.SubscribeQuotes(context.Background(), "AAPL")
	s.Require().NoError(err)
	defer sub.Close()

	var quotes []types.Quote
	for quote := range sub.Quotes() {
		quotes = append(quotes, quote)
	}

	s.NoError(sub.Err())
	s.Require().Len(quotes, 11)

	for _, quote := range quotes {
		s.Equal("AAPL", quote.Symbol)
	}
}

func (s *ClientTestSuite) TestSubscribeQuotesUnknownSymbol() {
	sub, err := s.client.SubscribeQuotes(context.Background(), "NVDA")
	s.Require().NoError(err)
	defer sub.Close()

	for range sub.Quotes() {
		s.Fail("no quotes expected for an unknown symbol")
	}

	err = sub.Err()
	s.Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeFeedTerminated))
}

func (s *ClientTestSuite) TestSubscribeQuotesCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := s.client.SubscribeQuotes(ctx, "AAPL")
	s.Require().NoError(err)
	defer sub.Close()

	received := 0

	for range sub.Quotes() {
		received++
		if received == 3 {
			cancel()
		}
	}

	s.Error(sub.Err())
	s.Less(received, 11, "feed must stop after cancellation")
}

func (s *ClientTestSuite) TestBulkOrder() {
	stream, err := s.client.BulkOrder(context.Background())
	s.Require().NoError(err)

	orders := []types.Order{
		{OrderID: "1", Symbol: "AAPL", Side: types.OrderSideBuy, Price: 100.0, Quantity: 2},
		{OrderID: "2", Symbol: "GOOGL", Side: types.OrderSideSell, Price: 200.0, Quantity: 3},
	}

	for _, order := range orders {
		s.Require().NoError(stream.Send(order))
	}

	summary, err := stream.CloseAndRecv()
	s.NoError(err)
	s.Equal(2, summary.TotalOrders)
	s.Equal(2, summary.SuccessCount)
	s.InDelta(800.0, summary.TotalAmount, 1e-9)
}

func (s *ClientTestSuite) TestBulkOrderAbort() {
	stream, err := s.client.BulkOrder(context.Background())
	s.Require().NoError(err)

	order := types.Order{OrderID: "1", Symbol: "AAPL", Side: types.OrderSideBuy, Price: 100.0, Quantity: 2}
	s.Require().NoError(stream.Send(order))
	s.NoError(stream.Abort("client gave up"))
}

func (s *ClientTestSuite) TestLiveTrading() {
	session, err := s.client.LiveTrading(context.Background())
	s.Require().NoError(err)
	defer session.Close()

	orders := []types.Order{
		{OrderID: "1", Symbol: "AAPL", Side: types.OrderSideBuy, Price: 150.0, Quantity: 5},
		{OrderID: "2", Symbol: "AAPL", Side: types.OrderSideSell, Price: 155.0, Quantity: -3},
	}

	for _, order := range orders {
		s.Require().NoError(session.Send(order))

		status, err := session.Recv()
		s.Require().NoError(err)
		s.Equal(order.OrderID, status.OrderID)

		if order.Quantity > 0 {
			s.Equal(types.TradeStatusExecuted, status.Status)
		} else {
			s.Equal(types.TradeStatusFailed, status.Status)
		}
	}

	s.Require().NoError(session.CloseSend())

	_, err = session.Recv()
	s.Equal(io.EOF, err)
}
