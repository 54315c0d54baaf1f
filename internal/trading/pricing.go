package trading

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultMaxPrice bounds the stand-in random price model.
const DefaultMaxPrice = 200.0

// PriceSource produces the next price emitted on a subscription feed.
// Implementations must be safe for concurrent use; every active feed
// samples the same source. The default is a uniform random model, a
// stand-in for a real market-data feed. Deployments can substitute a real
// source without touching the feed's framing or timing logic.
type PriceSource interface {
	Next(symbol string) float64
}

// RandomPriceSource samples prices uniformly in [0, max).
type RandomPriceSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	max float64
}

// NewRandomPriceSource creates a source seeded from the wall clock.
func NewRandomPriceSource() *RandomPriceSource {
	return &RandomPriceSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		max: DefaultMaxPrice,
	}
}

// Next implements PriceSource.
func (p *RandomPriceSource) Next(_ string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rng.Float64() * p.max
}

// FixedPriceSource always returns the same price. Used in tests.
type FixedPriceSource struct {
	Price float64
}

// Next implements PriceSource.
func (p *FixedPriceSource) Next(_ string) float64 {
	return p.Price
}
