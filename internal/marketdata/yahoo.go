package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"bullbear-qa/internal/api"
	"bullbear-qa/internal/types"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo reads quotes and daily candles from the public chart API.
type Yahoo struct {
	client    *api.Client
	SymbolMap map[string]string
}

// NewYahoo creates a Yahoo source. proxy may be empty.
func NewYahoo(timeout time.Duration, proxy string) *Yahoo {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return newYahoo(api.NewClient(
		api.WithBaseURL(yahooBaseURL),
		api.WithTimeout(timeout),
		api.WithProxy(proxy),
		api.WithHeaders(api.YahooFinanceHeaders()),
	))
}

func newYahoo(c *api.Client) *Yahoo {
	return &Yahoo{
		client: c,
		SymbolMap: map[string]string{
			"SPX":   "^GSPC",
			"SP500": "^GSPC",
			"NDX":   "^NDX",
		},
	}
}

func (y *Yahoo) yahooSymbol(symbol string) string {
	if mapped, ok := y.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(vals []any, i int) float64 {
	if i >= len(vals) {
		return 0
	}
	return toFloat(vals[i])
}

// fetchChart returns the market price from meta and the non-null bars,
// oldest first.
func (y *Yahoo) fetchChart(ctx context.Context, symbol, rng string) (float64, []types.Candle, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=%s", url.PathEscape(y.yahooSymbol(symbol)), rng)
	resp, err := y.client.DoWithRetry(api.NewRequest("GET", path).WithContext(ctx), &api.RetryConfig{
		MaxAttempts: 2,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     time.Second,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	var chart yahooChart
	if err := resp.ParseJSON(&chart); err != nil {
		return 0, nil, fmt.Errorf("yahoo decode %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return 0, nil, fmt.Errorf("yahoo %s: %s: %w", symbol, chart.Chart.Error.Description, ErrUnavailable)
	}
	if len(chart.Chart.Result) == 0 {
		return 0, nil, fmt.Errorf("yahoo %s: no data: %w", symbol, ErrUnavailable)
	}

	result := chart.Chart.Result[0]
	var bars []types.Candle
	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]
		bars = make([]types.Candle, 0, len(result.Timestamp))
		for i, ts := range result.Timestamp {
			o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
			if o == 0 && h == 0 && l == 0 && c == 0 {
				continue // holidays and halted sessions
			}
			bars = append(bars, types.Candle{Ts: ts, Open: o, High: h, Low: l, Close: c, Vol: at(quote.Volume, i)})
		}
		sort.Slice(bars, func(i, j int) bool { return bars[i].Ts < bars[j].Ts })
	}
	return result.Meta.RegularMarketPrice, bars, nil
}

// Quote returns the regular market price, or the last close when the meta
// block carries none.
func (y *Yahoo) Quote(ctx context.Context, symbol string) (float64, error) {
	price, bars, err := y.fetchChart(ctx, symbol, "5d")
	if err != nil {
		return 0, err
	}
	if price <= 0 && len(bars) > 0 {
		price = bars[len(bars)-1].Close
	}
	return validPrice(symbol, price)
}

func (y *Yahoo) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	rng := "2y"
	switch {
	case n <= 20:
		rng = "1mo"
	case n <= 60:
		rng = "3mo"
	case n <= 120:
		rng = "6mo"
	case n <= 250:
		rng = "1y"
	}
	_, bars, err := y.fetchChart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s: no bars: %w", symbol, ErrUnavailable)
	}
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}
