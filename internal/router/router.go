// Package router classifies stock questions into an analysis intent using
// keyword rules first and a language model only when the rules cannot decide.
package router

import (
	"context"
	"strings"
	"time"

	"bullbear-qa/internal/extract"
	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/textmatch"
	"bullbear-qa/internal/types"
)

// Single-ticker comparison policies.
const (
	SingleTickerKeep    = "keep"
	SingleTickerDegrade = "degrade"
)

const classifySystemPrompt = `You classify stock questions. Reply with exactly one label:
fundamental - financials, valuation, profitability, PE, ROE
technical - indicators, trend, charts, RSI, MACD, moving averages
sentiment - news, public opinion, analyst views, market buzz
comparison - comparing two or more stocks side by side
Output only the label.`

type Options struct {
	// CrossCheckMedium asks the classifier to confirm medium-confidence
	// rule decisions.
	CrossCheckMedium bool
	// SingleTickerComparison is SingleTickerKeep or SingleTickerDegrade.
	SingleTickerComparison string
	// ClassifyTimeout bounds one classifier call. Zero means no extra bound.
	ClassifyTimeout time.Duration
}

type Router struct {
	extractor  *extract.Extractor
	classifier interfaces.Classifier
	opts       Options
}

var _ interfaces.Router = (*Router)(nil)

// New builds a router. classifier may be nil, in which case every question
// the rules cannot decide is routed by fallback.
func New(extractor *extract.Extractor, classifier interfaces.Classifier, opts Options) *Router {
	if extractor == nil {
		extractor = extract.New()
	}
	if opts.SingleTickerComparison == "" {
		opts.SingleTickerComparison = SingleTickerKeep
	}
	return &Router{extractor: extractor, classifier: classifier, opts: opts}
}

// Route always returns a decision. Classifier failures degrade to the
// fallback method rather than surfacing an error.
func (r *Router) Route(ctx context.Context, question string) types.RoutingDecision {
	tickers := r.extractor.Extract(question)

	decision, ok := r.rulePass(question, tickers)
	switch {
	case !ok, decision.Confidence == types.ConfidenceLow:
		decision = r.escalate(ctx, question, tickers)
	case decision.Confidence == types.ConfidenceMedium && r.opts.CrossCheckMedium:
		decision = r.crossCheck(ctx, question, decision)
	}

	logger.Route(ctx, string(decision.Intent), decision.Tickers,
		string(decision.Confidence), string(decision.Method))
	return decision
}

// RulePass runs only the keyword rules. ok is false when the rules reach no
// decision and escalation is mandatory.
func (r *Router) RulePass(question string) (types.RoutingDecision, bool) {
	return r.rulePass(question, r.extractor.Extract(question))
}

func (r *Router) rulePass(question string, tickers []string) (types.RoutingDecision, bool) {
	text := textmatch.Normalize(question)

	if textmatch.Any(text, comparisonKeywords) {
		switch {
		case len(tickers) >= 2:
			return ruleDecision(types.IntentComparison, tickers, types.ConfidenceHigh), true
		case len(tickers) == 1 && textmatch.Any(text, conjunctionMarkers):
			if r.opts.SingleTickerComparison == SingleTickerDegrade {
				return ruleDecision(types.IntentFundamental, tickers, types.ConfidenceMedium), true
			}
			return ruleDecision(types.IntentComparison, tickers, types.ConfidenceMedium), true
		}
	}

	best, bestScore := types.Intent(""), 0
	for _, intent := range scoredCategories {
		// strict > keeps the earlier category on ties
		if n := textmatch.Count(text, categoryKeywords[intent]); n > bestScore {
			best, bestScore = intent, n
		}
	}

	if bestScore == 0 {
		if len(tickers) > 0 {
			return ruleDecision(types.IntentFundamental, tickers, types.ConfidenceMedium), true
		}
		return types.RoutingDecision{}, false
	}

	confidence := types.ConfidenceMedium
	if bestScore >= 2 {
		confidence = types.ConfidenceHigh
	}
	return ruleDecision(best, tickers, confidence), true
}

func ruleDecision(intent types.Intent, tickers []string, c types.Confidence) types.RoutingDecision {
	return types.RoutingDecision{
		Intent:     intent,
		Tickers:    tickers,
		Confidence: c,
		Method:     types.MethodRule,
	}
}

// escalate asks the classifier. Its answers are always low confidence.
func (r *Router) escalate(ctx context.Context, question string, tickers []string) types.RoutingDecision {
	intent, err := r.classify(ctx, question)
	if err != nil {
		logger.Warn(ctx, "Intent classification failed, using fallback", "error", err)
		return types.RoutingDecision{
			Intent:     types.IntentFundamental,
			Tickers:    tickers,
			Confidence: types.ConfidenceLow,
			Method:     types.MethodFallback,
		}
	}
	return types.RoutingDecision{
		Intent:     intent,
		Tickers:    tickers,
		Confidence: types.ConfidenceLow,
		Method:     types.MethodLLM,
	}
}

// crossCheck keeps the rule decision unless the classifier disagrees.
func (r *Router) crossCheck(ctx context.Context, question string, rule types.RoutingDecision) types.RoutingDecision {
	intent, err := r.classify(ctx, question)
	if err != nil {
		logger.Warn(ctx, "Cross-check classification failed, keeping rule decision", "error", err)
		return rule
	}
	if intent == rule.Intent {
		return rule
	}
	logger.Info(ctx, "Classifier disagreed with rule decision",
		"rule_intent", rule.Intent, "llm_intent", intent)
	return types.RoutingDecision{
		Intent:     intent,
		Tickers:    rule.Tickers,
		Confidence: types.ConfidenceLow,
		Method:     types.MethodLLM,
	}
}

func (r *Router) classify(ctx context.Context, question string) (types.Intent, error) {
	if r.classifier == nil {
		return "", errNoClassifier
	}
	if r.opts.ClassifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.ClassifyTimeout)
		defer cancel()
	}

	labels := make([]string, 0, 4)
	for _, i := range types.Intents() {
		labels = append(labels, string(i))
	}

	raw, err := r.classifier.Classify(ctx, classifySystemPrompt+"\n\nQuestion: "+question, labels)
	if err != nil {
		return "", err
	}
	return parseLabel(raw), nil
}

// parseLabel accepts the label alone or as the first word of the reply.
// Anything outside the closed set becomes fundamental.
func parseLabel(raw string) types.Intent {
	clean := strings.ToLower(strings.TrimSpace(raw))
	clean = strings.Trim(clean, " \t\r\n.,;:!\"'`*。")
	if intent, ok := types.ParseIntent(clean); ok {
		return intent
	}
	if fields := strings.Fields(clean); len(fields) > 0 {
		if intent, ok := types.ParseIntent(strings.Trim(fields[0], ".,;:!\"'`*")); ok {
			return intent
		}
	}
	return types.IntentFundamental
}
