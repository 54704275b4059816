package marketdata

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bullbear-qa/internal/types"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// Kite reads last traded prices and daily history from Zerodha Kite Connect.
type Kite struct {
	client   *kiteconnect.Client
	exchange string
	tokens   *instrumentMapper
}

// NewKite creates a Kite source. exchange defaults to NSE.
func NewKite(apiKey, accessToken, exchange string) *Kite {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	if exchange == "" {
		exchange = "NSE"
	}
	return &Kite{client: kc, exchange: exchange, tokens: newInstrumentMapper()}
}

func (k *Kite) instrument(symbol string) string {
	if strings.Contains(symbol, ":") {
		return symbol
	}
	return k.exchange + ":" + strings.ToUpper(symbol)
}

// Quote returns the LTP and remembers the instrument token for history calls.
func (k *Kite) Quote(ctx context.Context, symbol string) (float64, error) {
	inst := k.instrument(symbol)
	ltp, err := k.client.GetLTP(inst)
	if err != nil {
		return 0, fmt.Errorf("kite ltp %s: %w", inst, err)
	}
	q, ok := ltp[inst]
	if !ok {
		return 0, fmt.Errorf("kite %s: not in response: %w", inst, ErrUnavailable)
	}
	k.tokens.addMapping(symbol, q.InstrumentToken)
	return validPrice(symbol, q.LastPrice)
}

// RecentCandles returns the last n daily candles.
func (k *Kite) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	token, ok := k.tokens.getToken(symbol)
	if !ok {
		if _, err := k.Quote(ctx, symbol); err != nil {
			return nil, err
		}
		token, _ = k.tokens.getToken(symbol)
	}

	to := time.Now()
	// calendar days to cover n sessions with weekends and holidays
	from := to.AddDate(0, 0, -(n*7/5 + 10))
	data, err := k.client.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite history %s: %w", symbol, err)
	}

	candles := make([]types.Candle, 0, len(data))
	for _, d := range data {
		candles = append(candles, types.Candle{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("kite %s: no bars: %w", symbol, ErrUnavailable)
	}
	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}
	return candles, nil
}

// instrumentMapper caches symbol to instrument token lookups.
type instrumentMapper struct {
	symbolToToken map[string]int
	mu            sync.RWMutex
}

func newInstrumentMapper() *instrumentMapper {
	return &instrumentMapper{symbolToToken: make(map[string]int)}
}

func (im *instrumentMapper) addMapping(symbol string, token int) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.symbolToToken[strings.ToUpper(symbol)] = token
}

func (im *instrumentMapper) getToken(symbol string) (int, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	token, ok := im.symbolToToken[strings.ToUpper(symbol)]
	return token, ok
}
