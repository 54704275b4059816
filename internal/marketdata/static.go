package marketdata

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bullbear-qa/internal/types"
)

// Static serves fixed prices. It backs offline runs and tests.
type Static struct {
	mu     sync.RWMutex
	prices map[string]float64
}

func NewStatic(prices map[string]float64) *Static {
	s := &Static{prices: make(map[string]float64, len(prices))}
	for sym, p := range prices {
		s.prices[strings.ToUpper(sym)] = p
	}
	return s
}

// Set replaces the price of one symbol.
func (s *Static) Set(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[strings.ToUpper(symbol)] = price
}

func (s *Static) Quote(ctx context.Context, symbol string) (float64, error) {
	s.mu.RLock()
	p, ok := s.prices[strings.ToUpper(symbol)]
	s.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%s: %w", symbol, ErrUnavailable)
	}
	return validPrice(symbol, p)
}

// RecentCandles returns n flat daily candles at the static price.
func (s *Static) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	p, err := s.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	day := int64(24 * time.Hour / time.Second)
	last := time.Now().Truncate(24 * time.Hour).Unix()
	cs := make([]types.Candle, 0, n)
	for i := n - 1; i >= 0; i-- {
		cs = append(cs, types.Candle{Ts: last - int64(i)*day, Open: p, High: p, Low: p, Close: p})
	}
	return cs, nil
}
