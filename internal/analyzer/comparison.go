package analyzer

import (
	"context"
	"fmt"
	"strings"
)

const comparisonSystem = `You are an equity analyst comparing stocks side by side. Contrast their
recent performance, valuation and momentum, then say which one looks stronger and
which looks weaker. Answer in the language of the question.`

const (
	// MaxComparisonSymbols caps how many tickers one comparison covers.
	MaxComparisonSymbols = 5
	comparisonBars       = 60
)

// Comparison reports side-by-side price data for every ticker.
type Comparison struct {
	deps Deps
}

func NewComparison(deps Deps) *Comparison {
	return &Comparison{deps: deps}
}

func (c *Comparison) Analyze(ctx context.Context, question string, tickers []string) (string, error) {
	if len(tickers) < 2 {
		return "", ErrNeedTwoSymbols
	}
	var note string
	if len(tickers) > MaxComparisonSymbols {
		note = fmt.Sprintf("Note: compared the first %d symbols; dropped %s.\n",
			MaxComparisonSymbols, strings.Join(tickers[MaxComparisonSymbols:], ", "))
		tickers = tickers[:MaxComparisonSymbols]
	}

	var sb strings.Builder
	sb.WriteString(note)
	fmt.Fprintf(&sb, "%-8s %12s %14s\n", "Symbol", "Price", "Change(60d)")
	priced := 0
	for _, sym := range tickers {
		price, err := c.deps.Market.Quote(ctx, sym)
		if err != nil {
			fmt.Fprintf(&sb, "%-8s %12s %14s\n", sym, "unavailable", "n/a")
			continue
		}
		priced++
		change := "n/a"
		if candles, err := c.deps.Market.RecentCandles(ctx, sym, comparisonBars); err == nil && len(candles) > 0 && candles[0].Close > 0 {
			change = pct((price - candles[0].Close) / candles[0].Close * 100)
		}
		fmt.Fprintf(&sb, "%-8s %12s %14s\n", sym, num(price), change)
	}
	if priced == 0 {
		return "", fmt.Errorf("no prices available for %s", strings.Join(tickers, ", "))
	}

	prompt := fmt.Sprintf("Question: %s\nCompare %s.", question, strings.Join(tickers, ", "))
	out := narrate(ctx, c.deps.LLM, "comparison", comparisonSystem, prompt, sb.String())
	if note != "" && !strings.Contains(out, note) {
		out = note + out
	}
	return out, nil
}
