package marketobs

import (
	"context"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/trace"
	"bullbear-qa/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// observableSource wraps a market data source with logging and tracing
type observableSource struct {
	src      interfaces.MarketData
	provider string
}

// Compile-time interface check
var _ interfaces.MarketData = (*observableSource)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(src interfaces.MarketData, provider string) interfaces.MarketData {
	return &observableSource{src: src, provider: provider}
}

// Quote fetches the latest price with observability
func (o *observableSource) Quote(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata", "marketdata.Quote",
		attribute.String("provider", o.provider),
		attribute.String("symbol", symbol))
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching quote", "provider", o.provider, "symbol", symbol)

	price, err := o.src.Quote(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch quote", err, "provider", o.provider, "symbol", symbol)
		return 0, err
	}

	span.SetAttributes(attribute.Float64("price", price))
	logger.DebugSkip(ctx, 1, "Quote fetched successfully", "symbol", symbol, "price", price)
	return price, nil
}

// RecentCandles fetches candles with observability
func (o *observableSource) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata", "marketdata.RecentCandles",
		attribute.String("provider", o.provider),
		attribute.String("symbol", symbol),
		attribute.Int("count", n))
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching recent candles", "provider", o.provider, "symbol", symbol, "count", n)

	candles, err := o.src.RecentCandles(ctx, symbol, n)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch candles", err, "symbol", symbol, "count", n)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Candles fetched successfully", "symbol", symbol, "count", len(candles))
	return candles, nil
}
