// Package ta computes the indicator snapshot the technical analyzer reports.
package ta

import (
	"math"

	"bullbear-qa/internal/types"
)

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// EMA seeds with the SMA of the first n values.
func EMA(closes []float64, n int) float64 {
	series := emaSeries(closes, n)
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

func emaSeries(closes []float64, n int) []float64 {
	if len(closes) < n || n <= 0 {
		return nil
	}
	k := 2.0 / float64(n+1)
	out := make([]float64, 0, len(closes)-n+1)
	prev := SMA(closes[:n], n)
	out = append(out, prev)
	for _, c := range closes[n:] {
		prev = c*k + prev*(1-k)
		out = append(out, prev)
	}
	return out
}

func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// MACD returns the 12/26 line, its 9-period signal and the histogram.
func MACD(closes []float64) (line, signal, hist float64) {
	fast := emaSeries(closes, 12)
	slow := emaSeries(closes, 26)
	if len(slow) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	// align fast to slow: both end at the last close
	offset := len(fast) - len(slow)
	macd := make([]float64, len(slow))
	for i := range slow {
		macd[i] = fast[i+offset] - slow[i]
	}
	line = macd[len(macd)-1]
	signal = EMA(macd, 9)
	hist = line - signal
	return
}

func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

func Bollinger(closes []float64, n int, k float64) (mid, up, low float64) {
	mid = SMA(closes, n)
	sd := StdDev(closes, n)
	up = mid + k*sd
	low = mid - k*sd
	return
}

func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return math.NaN()
	}
	n := period
	if len(closes) < n+1 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		tr1 := highs[i] - lows[i]
		tr2 := math.Abs(highs[i] - closes[i-1])
		tr3 := math.Abs(lows[i] - closes[i-1])
		sum += math.Max(tr1, math.Max(tr2, tr3))
	}
	return sum / float64(n)
}

// Snapshot is the indicator set for the most recent candle. Fields that
// need more history than was supplied are NaN.
type Snapshot struct {
	Last       float64
	ChangePct  float64
	SMA20      float64
	SMA50      float64
	RSI14      float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
	BBUpper    float64
	BBMid      float64
	BBLower    float64
	ATR14      float64
	Bars       int
}

// Compute builds a Snapshot from candles ordered oldest first.
func Compute(candles []types.Candle) Snapshot {
	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		closes[i], highs[i], lows[i] = c.Close, c.High, c.Low
	}

	s := Snapshot{Bars: n, ChangePct: math.NaN(), Last: math.NaN()}
	if n > 0 {
		s.Last = closes[n-1]
	}
	if n > 1 && closes[0] != 0 {
		s.ChangePct = (closes[n-1] - closes[0]) / closes[0] * 100
	}
	s.SMA20 = SMA(closes, 20)
	s.SMA50 = SMA(closes, 50)
	s.RSI14 = RSI(closes, 14)
	s.MACD, s.MACDSignal, s.MACDHist = MACD(closes)
	s.BBMid, s.BBUpper, s.BBLower = Bollinger(closes, 20, 2)
	s.ATR14 = ATR(highs, lows, closes, 14)
	return s
}
