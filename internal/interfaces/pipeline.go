package interfaces

import (
	"context"

	"bullbear-qa/internal/types"
)

// Analyzer produces evidence text for one intent. Errors are converted to
// failure text by the dispatcher; they never abort a request.
type Analyzer interface {
	Analyze(ctx context.Context, question string, tickers []string) (string, error)
}

// Router turns a question into a routing decision. It never fails.
type Router interface {
	Route(ctx context.Context, question string) types.RoutingDecision
}

// Dispatcher runs the analyzer selected by a routing decision.
type Dispatcher interface {
	Dispatch(ctx context.Context, question string, decision types.RoutingDecision) []types.AnalyzerOutput
}

// Judge synthesizes analyzer outputs into a report and a score.
type Judge interface {
	Synthesize(ctx context.Context, question string, outputs []types.AnalyzerOutput) string
	Score(outputs []types.AnalyzerOutput) types.InvestmentScore
}

// TradeStore persists the full ledger state. Save replaces the stored state
// atomically: after a failed Save the previous state is still readable.
type TradeStore interface {
	Load(ctx context.Context) ([]types.Trade, error)
	Save(ctx context.Context, trades []types.Trade) error
}
