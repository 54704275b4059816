package router

import (
	"fmt"
	"strings"

	"bullbear-qa/internal/types"
)

var intentTitles = map[types.Intent]string{
	types.IntentFundamental: "Fundamental analysis",
	types.IntentTechnical:   "Technical analysis",
	types.IntentSentiment:   "Market sentiment",
	types.IntentComparison:  "Stock comparison",
}

var methodTitles = map[types.Method]string{
	types.MethodRule:     "keyword rules",
	types.MethodLLM:      "language model",
	types.MethodFallback: "fallback default",
}

// IntentTitle returns the display name of an intent.
func IntentTitle(i types.Intent) string {
	if t, ok := intentTitles[i]; ok {
		return t
	}
	return string(i)
}

// FormatDecision renders a routing decision for display.
func FormatDecision(d types.RoutingDecision) string {
	tickers := "none"
	if len(d.Tickers) > 0 {
		tickers = strings.Join(d.Tickers, ", ")
	}
	method := methodTitles[d.Method]
	if method == "" {
		method = string(d.Method)
	}
	return fmt.Sprintf("Intent: %s | Tickers: %s | Confidence: %s | Method: %s",
		IntentTitle(d.Intent), tickers, d.Confidence, method)
}
