package types

import "strings"

// Intent is the analysis category a question is routed to.
type Intent string

const (
	IntentFundamental Intent = "fundamental"
	IntentTechnical   Intent = "technical"
	IntentSentiment   Intent = "sentiment"
	IntentComparison  Intent = "comparison"
)

// Intents lists every routable intent in tie-break priority order.
func Intents() []Intent {
	return []Intent{IntentFundamental, IntentTechnical, IntentSentiment, IntentComparison}
}

func (i Intent) Valid() bool {
	switch i {
	case IntentFundamental, IntentTechnical, IntentSentiment, IntentComparison:
		return true
	}
	return false
}

// ParseIntent maps a free-form label to an Intent. ok is false for labels
// outside the closed set.
func ParseIntent(label string) (Intent, bool) {
	i := Intent(strings.ToLower(strings.TrimSpace(label)))
	return i, i.Valid()
}

// Confidence expresses how much the router trusts its own classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Method records which path produced a routing decision.
type Method string

const (
	MethodRule     Method = "rule"
	MethodLLM      Method = "llm"
	MethodFallback Method = "fallback"
)

// RoutingDecision is the router's output. Tickers are uppercase, deduplicated
// and in order of first appearance.
type RoutingDecision struct {
	Intent     Intent     `json:"intent"`
	Tickers    []string   `json:"tickers"`
	Confidence Confidence `json:"confidence"`
	Method     Method     `json:"method"`
}

// PrimaryTicker returns the first extracted ticker, if any.
func (d RoutingDecision) PrimaryTicker() (string, bool) {
	if len(d.Tickers) == 0 {
		return "", false
	}
	return d.Tickers[0], true
}

// AnalyzerOutput is the evidence one analyzer produced. A failed analyzer
// still yields an output whose Text carries the failure message.
type AnalyzerOutput struct {
	Intent Intent `json:"intent"`
	Text   string `json:"text"`
	Failed bool   `json:"failed,omitempty"`
}
