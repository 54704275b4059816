package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bullbear-qa/internal/types"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// Alpaca reads US equity trades and daily bars from the Alpaca data API.
type Alpaca struct {
	client *marketdata.Client
}

func NewAlpaca(keyID, secret string) *Alpaca {
	return &Alpaca{client: marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    keyID,
		APISecret: secret,
	})}
}

func (a *Alpaca) Quote(ctx context.Context, symbol string) (float64, error) {
	trade, err := a.client.GetLatestTrade(strings.ToUpper(symbol), marketdata.GetLatestTradeRequest{})
	if err != nil {
		return 0, fmt.Errorf("alpaca latest trade %s: %w", symbol, err)
	}
	if trade == nil {
		return 0, fmt.Errorf("alpaca %s: %w", symbol, ErrUnavailable)
	}
	return validPrice(symbol, trade.Price)
}

func (a *Alpaca) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	end := time.Now()
	bars, err := a.client.GetBars(strings.ToUpper(symbol), marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     end.AddDate(0, 0, -(n*7/5 + 10)),
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("alpaca %s: no bars: %w", symbol, ErrUnavailable)
	}

	candles := make([]types.Candle, 0, len(bars))
	for _, b := range bars {
		candles = append(candles, types.Candle{
			Ts:    b.Timestamp.Unix(),
			Open:  b.Open,
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
			Vol:   float64(b.Volume),
		})
	}
	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}
	return candles, nil
}
