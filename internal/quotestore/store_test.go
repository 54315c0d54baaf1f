package quotestore

import (
	"context"
	"testing"
	"time"

	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	newStore func() Store
}

func TestMemoryStoreSuite(t *testing.T) {
	s := new(StoreTestSuite)
	s.newStore = func() Store { return NewMemoryStore() }
	suite.Run(t, s)
}

func TestDuckDBStoreSuite(t *testing.T) {
	s := new(StoreTestSuite)
	s.newStore = func() Store {
		store, err := NewDuckDBStore("", logger.NewNopLogger())
		if err != nil {
			t.Fatalf("failed to open in-memory duckdb store: %v", err)
		}

		return store
	}
	suite.Run(t, s)
}

func (s *StoreTestSuite) seedQuotes(store Store) []types.Quote {
	quotes := []types.Quote{
		{Symbol: "AAPL", Price: 150.5, Timestamp: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)},
		{Symbol: "GOOGL", Price: 2500.5, Timestamp: time.Date(2024, 1, 2, 15, 4, 6, 0, time.UTC)},
	}
	s.Require().NoError(store.Seed(context.Background(), quotes))

	return quotes
}

func (s *StoreTestSuite) TestGetQuote() {
	store := s.newStore()
	defer store.Close()

	quotes := s.seedQuotes(store)

	got, err := store.GetQuote(context.Background(), "AAPL")
	s.NoError(err)
	s.Equal("AAPL", got.Symbol)
	s.InDelta(quotes[0].Price, got.Price, 1e-9)
	s.True(got.Timestamp.Equal(quotes[0].Timestamp))
}

func (s *StoreTestSuite) TestGetQuoteUnknownSymbol() {
	store := s.newStore()
	defer store.Close()

	s.seedQuotes(store)

	_, err := store.GetQuote(context.Background(), "NVDA")
	s.Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeSymbolNotFound))
}

func (s *StoreTestSuite) TestGetQuoteEmptyStore() {
	store := s.newStore()
	defer store.Close()

	_, err := store.GetQuote(context.Background(), "AAPL")
	s.Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeSymbolNotFound))
}

func (s *StoreTestSuite) TestSeedReplacesExisting() {
	store := s.newStore()
	defer store.Close()

	s.seedQuotes(store)

	updated := types.Quote{Symbol: "AAPL", Price: 160.0, Timestamp: time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC)}
	s.Require().NoError(store.Seed(context.Background(), []types.Quote{updated}))

	got, err := store.GetQuote(context.Background(), "AAPL")
	s.NoError(err)
	s.InDelta(160.0, got.Price, 1e-9)
}

func (s *StoreTestSuite) TestConcurrentReads() {
	store := s.newStore()
	defer store.Close()

	s.seedQuotes(store)

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := store.GetQuote(context.Background(), "GOOGL")
			done <- err
		}()
	}

	for i := 0; i < 10; i++ {
		s.NoError(<-done)
	}
}
