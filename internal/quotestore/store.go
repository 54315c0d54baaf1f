// Package quotestore provides lookup of the last known price for a stock
// symbol. Implementations must be safe for concurrent reads; the rest of
// the system treats the store as an injected capability and never assumes
// a symbol is present.
package quotestore

import (
	"context"

	"github.com/rvg-labs/stock-trading/internal/types"
)

// Store maps a symbol to its last known quote.
type Store interface {
	// GetQuote returns the last known quote for the symbol. Returns an
	// error with code errors.ErrCodeSymbolNotFound when the store has no
	// record for the symbol.
	GetQuote(ctx context.Context, symbol string) (types.Quote, error)
	// Seed inserts or replaces quotes in the store.
	Seed(ctx context.Context, quotes []types.Quote) error
	// Close releases any resources held by the store.
	Close() error
}
