package types

// Candle is one OHLCV bar. Ts is unix seconds.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}
