package interfaces

import (
	"context"

	"bullbear-qa/internal/types"
)

// Quoter returns the latest traded price for a symbol.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// HistorySource returns the most recent n daily candles, oldest first.
type HistorySource interface {
	RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error)
}

// MarketData is a provider offering both quotes and history.
type MarketData interface {
	Quoter
	HistorySource
}
