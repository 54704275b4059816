package analyzer

import (
	"context"
	"fmt"
	"strings"

	"bullbear-qa/internal/ta"
)

const technicalSystem = `You are a technical analyst. Interpret the indicator snapshot: trend,
momentum, support and resistance. Say whether the chart is in an uptrend or
downtrend and whether it is overbought or oversold. Answer in the language of the
question.`

const technicalBars = 120

// Technical reports indicators computed from daily candles.
type Technical struct {
	deps Deps
}

func NewTechnical(deps Deps) *Technical {
	return &Technical{deps: deps}
}

func (t *Technical) Analyze(ctx context.Context, question string, tickers []string) (string, error) {
	symbol, err := primary(tickers)
	if err != nil {
		return "", err
	}
	candles, err := t.deps.Market.RecentCandles(ctx, symbol, technicalBars)
	if err != nil {
		return "", fmt.Errorf("history %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return "", fmt.Errorf("history %s: no candles", symbol)
	}

	snap := ta.Compute(candles)
	text := formatSnapshot(symbol, snap)
	prompt := fmt.Sprintf("Question: %s\nProvide the technical analysis of %s.", question, symbol)
	return narrate(ctx, t.deps.LLM, "technical", technicalSystem, prompt, text), nil
}

func formatSnapshot(symbol string, s ta.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Symbol: %s (%d daily bars)\n", symbol, s.Bars)
	fmt.Fprintf(&sb, "Last close: %s, change over window: %s\n", num(s.Last), pct(s.ChangePct))
	fmt.Fprintf(&sb, "SMA20: %s, SMA50: %s\n", num(s.SMA20), num(s.SMA50))
	fmt.Fprintf(&sb, "RSI14: %s\n", num(s.RSI14))
	fmt.Fprintf(&sb, "MACD: %s, signal: %s, histogram: %s\n", num(s.MACD), num(s.MACDSignal), num(s.MACDHist))
	fmt.Fprintf(&sb, "Bollinger(20,2): %s / %s / %s\n", num(s.BBLower), num(s.BBMid), num(s.BBUpper))
	fmt.Fprintf(&sb, "ATR14: %s\n", num(s.ATR14))
	if sig := signals(s); len(sig) > 0 {
		fmt.Fprintf(&sb, "Signals: %s\n", strings.Join(sig, "; "))
	}
	return sb.String()
}

// signals are the indicator readings stated in plain words. NaN inputs
// compare false and produce no signal.
func signals(s ta.Snapshot) []string {
	var out []string
	switch {
	case s.Last > s.SMA20 && s.SMA20 > s.SMA50:
		out = append(out, "uptrend (price above SMA20 above SMA50)")
	case s.Last < s.SMA20 && s.SMA20 < s.SMA50:
		out = append(out, "downtrend (price below SMA20 below SMA50)")
	}
	switch {
	case s.RSI14 >= 70:
		out = append(out, "RSI overbought")
	case s.RSI14 <= 30:
		out = append(out, "RSI oversold")
	}
	switch {
	case s.MACDHist > 0:
		out = append(out, "MACD above signal")
	case s.MACDHist < 0:
		out = append(out, "MACD below signal")
	}
	switch {
	case s.Last > s.BBUpper:
		out = append(out, "breakout above upper band")
	case s.Last < s.BBLower:
		out = append(out, "breakdown below lower band")
	}
	return out
}
