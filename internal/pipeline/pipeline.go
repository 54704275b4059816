// Package pipeline answers one stock question end to end: route, analyze,
// judge, and derive a trade plan.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/strategy"
	"bullbear-qa/internal/trace"
	"bullbear-qa/internal/tradelog"
	"bullbear-qa/internal/types"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrReferenceOnly rejects recording a plan produced without conviction.
	ErrReferenceOnly = errors.New("reference-only plans are not recorded")
	errNoLedger      = errors.New("no ledger configured")
)

// StrategyStatus says why an answer does or does not carry a plan.
type StrategyStatus string

const (
	StatusGenerated        StrategyStatus = "generated"
	StatusReferenceOnly    StrategyStatus = "reference_only"
	StatusNoConviction     StrategyStatus = "no_conviction"
	StatusPriceUnavailable StrategyStatus = "price_unavailable"
	StatusNoTicker         StrategyStatus = "no_ticker"
	StatusFailed           StrategyStatus = "failed"
)

// Answer is the full result for one question.
type Answer struct {
	RequestID      string                 `json:"request_id"`
	Question       string                 `json:"question"`
	Routing        types.RoutingDecision  `json:"routing"`
	Outputs        []types.AnalyzerOutput `json:"outputs"`
	Report         string                 `json:"report"`
	Score          types.InvestmentScore  `json:"score"`
	Strategy       *types.Strategy        `json:"strategy,omitempty"`
	StrategyStatus StrategyStatus         `json:"strategy_status"`
	StrategyNote   string                 `json:"strategy_note,omitempty"`
	AskedAt        time.Time              `json:"asked_at"`
	Elapsed        time.Duration          `json:"elapsed"`
}

// StrategyGenerator derives a plan from a score.
type StrategyGenerator interface {
	Generate(ctx context.Context, ticker string, score types.InvestmentScore, tier types.RiskTier) (*types.Strategy, error)
}

// Recorder appends a plan to the paper-trade ledger.
type Recorder interface {
	Add(ctx context.Context, s types.Strategy, notes string) (int, error)
}

// Journal records answered questions.
type Journal interface {
	Append(ctx context.Context, e tradelog.Entry) error
}

// Config wires the pipeline. Ledger and Journal may be nil.
type Config struct {
	Router      interfaces.Router
	Dispatcher  interfaces.Dispatcher
	Judge       interfaces.Judge
	Strategy    StrategyGenerator
	Ledger      Recorder
	Journal     Journal
	DefaultRisk types.RiskTier
}

type Pipeline struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Pipeline {
	if cfg.DefaultRisk == "" {
		cfg.DefaultRisk = types.RiskMedium
	}
	return &Pipeline{cfg: cfg, now: time.Now}
}

// Ask answers question. The only error is ErrEmptyQuestion; every
// collaborator failure is reflected in the answer instead. An empty tier
// uses the configured default.
func (p *Pipeline) Ask(ctx context.Context, question string, tier types.RiskTier) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if tier == "" {
		tier = p.cfg.DefaultRisk
	}

	start := p.now()
	a := &Answer{RequestID: uuid.NewString(), Question: question, AskedAt: start}

	ctx, span := trace.StartSpan(ctx, "pipeline", "pipeline.Ask", attribute.String("request_id", a.RequestID))
	defer span.End()
	logger.Info(ctx, "Question received", "request_id", a.RequestID, "risk_tier", tier)

	a.Routing = p.cfg.Router.Route(ctx, question)
	a.Outputs = p.cfg.Dispatcher.Dispatch(ctx, question, a.Routing)
	a.Report = p.cfg.Judge.Synthesize(ctx, question, a.Outputs)
	a.Score = p.cfg.Judge.Score(a.Outputs)
	logger.Score(ctx, a.Score.Score, string(a.Score.Rating), "request_id", a.RequestID)

	p.plan(ctx, a, tier)

	a.Elapsed = p.now().Sub(start)
	span.SetAttributes(
		attribute.String("intent", string(a.Routing.Intent)),
		attribute.Int("score", a.Score.Score),
		attribute.String("strategy_status", string(a.StrategyStatus)))
	p.journal(ctx, a)
	return a, nil
}

func (p *Pipeline) plan(ctx context.Context, a *Answer, tier types.RiskTier) {
	ticker, ok := a.Routing.PrimaryTicker()
	if !ok {
		a.StrategyStatus = StatusNoTicker
		a.StrategyNote = "No ticker symbol was recognised, so no trade plan was generated."
		return
	}
	if p.cfg.Strategy == nil {
		a.StrategyStatus = StatusFailed
		a.StrategyNote = "Strategy generation is not configured."
		return
	}

	s, err := p.cfg.Strategy.Generate(ctx, ticker, a.Score, tier)
	switch {
	case err == nil && s.ReferenceOnly:
		a.Strategy = s
		a.StrategyStatus = StatusReferenceOnly
		a.StrategyNote = fmt.Sprintf("Rating is %s: this plan is for reference only and will not be recorded.", a.Score.Rating)
	case err == nil:
		a.Strategy = s
		a.StrategyStatus = StatusGenerated
	case errors.Is(err, strategy.ErrNoConviction):
		a.StrategyStatus = StatusNoConviction
		a.StrategyNote = fmt.Sprintf("Rating is %s: no trade is proposed without directional conviction.", a.Score.Rating)
	case errors.Is(err, strategy.ErrPriceUnavailable):
		a.StrategyStatus = StatusPriceUnavailable
		a.StrategyNote = fmt.Sprintf("Price unavailable for %s, so no trade plan was generated.", ticker)
	default:
		logger.ErrorWithErr(ctx, "Strategy generation failed", err, "symbol", ticker)
		a.StrategyStatus = StatusFailed
		a.StrategyNote = "Strategy generation failed: " + err.Error()
	}
}

func (p *Pipeline) journal(ctx context.Context, a *Answer) {
	if p.cfg.Journal == nil {
		return
	}
	e := tradelog.Entry{
		RequestID:      a.RequestID,
		Question:       a.Question,
		Intent:         string(a.Routing.Intent),
		Tickers:        a.Routing.Tickers,
		Confidence:     string(a.Routing.Confidence),
		Method:         string(a.Routing.Method),
		Score:          a.Score.Score,
		Rating:         string(a.Score.Rating),
		StrategyStatus: string(a.StrategyStatus),
		ElapsedMs:      a.Elapsed.Milliseconds(),
	}
	if s := a.Strategy; s != nil {
		e.Action = string(s.Action)
		e.EntryPrice, e.TargetPrice, e.StopLoss = s.EntryPrice, s.TargetPrice, s.StopLoss
	}
	if err := p.cfg.Journal.Append(ctx, e); err != nil {
		logger.Warn(ctx, "Failed to journal answer", "request_id", a.RequestID, "error", err)
	}
}

// Record saves s to the ledger and returns the trade id.
func (p *Pipeline) Record(ctx context.Context, s *types.Strategy, notes string) (int, error) {
	if s == nil {
		return 0, errors.New("no strategy to record")
	}
	if s.ReferenceOnly {
		return 0, ErrReferenceOnly
	}
	if p.cfg.Ledger == nil {
		return 0, errNoLedger
	}
	return p.cfg.Ledger.Add(ctx, *s, notes)
}
