package marketdata

import (
	"context"
	"strings"
	"time"

	"bullbear-qa/internal/cache"
	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/types"
)

// DefaultQuoteTTL is how long a fetched quote is reused.
const DefaultQuoteTTL = 300 * time.Second

// Cached reuses recent quotes from the wrapped source. History is passed
// through uncached. Failures are never cached.
type Cached struct {
	src    interfaces.MarketData
	quotes *cache.Cache[float64]
}

var _ interfaces.MarketData = (*Cached)(nil)

func NewCached(src interfaces.MarketData, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	return &Cached{src: src, quotes: cache.New[float64](ttl, 1024)}
}

func (c *Cached) Quote(ctx context.Context, symbol string) (float64, error) {
	key := strings.ToUpper(symbol)
	if p, age, ok := c.quotes.Get(key); ok {
		logger.Debug(ctx, "Quote cache hit", "symbol", key, "age", age)
		return p, nil
	}
	p, err := c.src.Quote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	c.quotes.Put(key, p)
	return p, nil
}

func (c *Cached) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	return c.src.RecentCandles(ctx, symbol, n)
}
