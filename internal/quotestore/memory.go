package quotestore

import (
	"context"
	"sync"

	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

// MemoryStore is an in-memory Store implementation. Safe for concurrent
// use.
type MemoryStore struct {
	mu     sync.RWMutex
	quotes map[string]types.Quote
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotes: make(map[string]types.Quote),
	}
}

// GetQuote implements Store.
func (s *MemoryStore) GetQuote(_ context.Context, symbol string) (types.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quote, ok := s.quotes[symbol]
	if !ok {
		return types.Quote{}, errors.Newf(errors.ErrCodeSymbolNotFound, "no quote for symbol %s", symbol)
	}

	return quote, nil
}

// Seed implements Store.
func (s *MemoryStore) Seed(_ context.Context, quotes []types.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, quote := range quotes {
		s.quotes[quote.Symbol] = quote
	}

	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
