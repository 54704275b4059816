package analyzer

import (
	"context"
	"fmt"
	"time"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/trace"
	"bullbear-qa/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// Dispatcher runs exactly one analyzer per routing decision.
type Dispatcher struct {
	fundamental interfaces.Analyzer
	technical   interfaces.Analyzer
	sentiment   interfaces.Analyzer
	comparison  interfaces.Analyzer
	timeout     time.Duration
}

var _ interfaces.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher wires the four analyzers. timeout bounds one analyzer run;
// zero means no extra bound.
func NewDispatcher(fundamental, technical, sentiment, comparison interfaces.Analyzer, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		fundamental: fundamental,
		technical:   technical,
		sentiment:   sentiment,
		comparison:  comparison,
		timeout:     timeout,
	}
}

// NewDefaultDispatcher builds the stock analyzers over deps.
func NewDefaultDispatcher(deps Deps, timeout time.Duration) *Dispatcher {
	return NewDispatcher(NewFundamental(deps), NewTechnical(deps), NewSentiment(deps), NewComparison(deps), timeout)
}

// Name is the display name of the analyzer for intent.
func Name(intent types.Intent) string {
	switch intent {
	case types.IntentFundamental:
		return "Fundamental analysis"
	case types.IntentTechnical:
		return "Technical analysis"
	case types.IntentSentiment:
		return "Sentiment analysis"
	case types.IntentComparison:
		return "Comparison analysis"
	default:
		return string(intent)
	}
}

func (d *Dispatcher) analyzerFor(intent types.Intent) interfaces.Analyzer {
	switch intent {
	case types.IntentFundamental:
		return d.fundamental
	case types.IntentTechnical:
		return d.technical
	case types.IntentSentiment:
		return d.sentiment
	case types.IntentComparison:
		return d.comparison
	default:
		return nil
	}
}

// Dispatch never fails. Analyzer errors become failure text in the output.
func (d *Dispatcher) Dispatch(ctx context.Context, question string, decision types.RoutingDecision) []types.AnalyzerOutput {
	ctx, span := trace.StartSpan(ctx, "analyzer", "analyzer.Dispatch",
		attribute.String("intent", string(decision.Intent)),
		attribute.Int("tickers", len(decision.Tickers)))
	defer span.End()

	name := Name(decision.Intent)
	a := d.analyzerFor(decision.Intent)
	if a == nil {
		err := fmt.Errorf("no analyzer for intent %q", decision.Intent)
		logger.ErrorWithErr(ctx, "Dispatch failed", err)
		return []types.AnalyzerOutput{failure(decision.Intent, name, err)}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	timer := logger.StartOperation(ctx, "analyzer.run", "intent", string(decision.Intent))
	text, err := a.Analyze(ctx, question, decision.Tickers)
	if err != nil {
		timer.EndWithError(err, "analyzer", name)
		return []types.AnalyzerOutput{failure(decision.Intent, name, err)}
	}
	timer.End("chars", len(text))
	return []types.AnalyzerOutput{{Intent: decision.Intent, Text: text}}
}

func failure(intent types.Intent, name string, err error) types.AnalyzerOutput {
	return types.AnalyzerOutput{
		Intent: intent,
		Text:   fmt.Sprintf("%s failed: %v", name, err),
		Failed: true,
	}
}
