package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"bullbear-qa/internal/types"
)

const fundamentalSystem = `You are an equity research analyst. Write a concise fundamental analysis
covering valuation, profitability, growth and balance sheet health. State clearly
whether the stock looks undervalued or overvalued and whether the outlook is strong
or weak. Answer in the language of the question.`

// yearBars is roughly one trading year of daily candles.
const yearBars = 250

// Fundamental reports price level context for the primary ticker.
type Fundamental struct {
	deps Deps
}

func NewFundamental(deps Deps) *Fundamental {
	return &Fundamental{deps: deps}
}

func (f *Fundamental) Analyze(ctx context.Context, question string, tickers []string) (string, error) {
	symbol, err := primary(tickers)
	if err != nil {
		return "", err
	}
	price, err := f.deps.Market.Quote(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("quote %s: %w", symbol, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Symbol: %s\nLast price: %s\n", symbol, num(price))
	if candles, err := f.deps.Market.RecentCandles(ctx, symbol, yearBars); err == nil && len(candles) > 0 {
		writeRange(&sb, price, candles)
	}

	prompt := fmt.Sprintf("Question: %s\nProvide the fundamental analysis of %s.", question, symbol)
	return narrate(ctx, f.deps.LLM, "fundamental", fundamentalSystem, prompt, sb.String()), nil
}

func writeRange(sb *strings.Builder, price float64, candles []types.Candle) {
	hi, lo := math.Inf(-1), math.Inf(1)
	for _, c := range candles {
		hi = math.Max(hi, c.High)
		lo = math.Min(lo, c.Low)
	}
	first := candles[0].Close
	fmt.Fprintf(sb, "Period high: %s\nPeriod low: %s\n", num(hi), num(lo))
	if hi > 0 {
		fmt.Fprintf(sb, "Distance from high: %s\n", pct((price-hi)/hi*100))
	}
	if first > 0 {
		fmt.Fprintf(sb, "Change over %d sessions: %s\n", len(candles), pct((price-first)/first*100))
	}
}
