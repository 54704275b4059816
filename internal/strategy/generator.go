// Package strategy derives risk-tiered paper-trade plans from a rating and a
// live price.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/types"
)

var (
	// ErrNoConviction is returned for Hold ratings when no reference plan is
	// wanted. It is a decision, not a failure.
	ErrNoConviction = errors.New("no directional conviction")
	// ErrPriceUnavailable means no usable entry price could be observed.
	ErrPriceUnavailable = errors.New("price unavailable")
)

// Hold policies.
const (
	HoldSkip      = "skip"
	HoldReference = "reference"
)

type Options struct {
	// HoldPolicy is HoldSkip or HoldReference.
	HoldPolicy string
	// QuoteTimeout bounds the price lookup. Zero means no extra bound.
	QuoteTimeout time.Duration
	Now          func() time.Time
}

type Generator struct {
	quoter interfaces.Quoter
	opts   Options
}

func New(quoter interfaces.Quoter, opts Options) *Generator {
	if opts.HoldPolicy == "" {
		opts.HoldPolicy = HoldSkip
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{quoter: quoter, opts: opts}
}

// Generate builds a plan for ticker. It returns ErrNoConviction for Hold under
// the skip policy and an error wrapping ErrPriceUnavailable when the quote
// source cannot price the ticker. A Hold under the reference policy yields a
// BUY plan flagged ReferenceOnly.
func (g *Generator) Generate(ctx context.Context, ticker string, score types.InvestmentScore, tier types.RiskTier) (*types.Strategy, error) {
	action, directional := score.Rating.Action()
	if !directional {
		if g.opts.HoldPolicy != HoldReference {
			return nil, ErrNoConviction
		}
		action = types.ActionBuy
	}

	price, err := g.quote(ctx, ticker)
	if err != nil {
		logger.Warn(ctx, "No price for strategy", "symbol", ticker, "error", err)
		return nil, err
	}

	s, err := Plan(ticker, action, price, tier, score, g.opts.Now())
	if err != nil {
		return nil, err
	}
	s.ReferenceOnly = !directional

	logger.Strategy(ctx, s.Ticker, string(s.Action), s.EntryPrice, s.TargetPrice, s.StopLoss,
		"position_size", s.PositionSize, "risk_reward", s.RiskRewardRatio, "reference_only", s.ReferenceOnly)
	return &s, nil
}

func (g *Generator) quote(ctx context.Context, ticker string) (float64, error) {
	if g.quoter == nil {
		return 0, fmt.Errorf("%w: no quote source configured", ErrPriceUnavailable)
	}
	if g.opts.QuoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.QuoteTimeout)
		defer cancel()
	}
	price, err := g.quoter.Quote(ctx, ticker)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, ticker, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: %s: non-positive price %v", ErrPriceUnavailable, ticker, price)
	}
	return price, nil
}

// Plan is the pure part of Generate: it prices a plan from an observed entry.
func Plan(ticker string, action types.Action, price float64, tier types.RiskTier, score types.InvestmentScore, now time.Time) (types.Strategy, error) {
	params, ok := ParamsFor(tier)
	if !ok {
		return types.Strategy{}, fmt.Errorf("unknown risk tier %q", tier)
	}
	if price <= 0 {
		return types.Strategy{}, fmt.Errorf("%w: non-positive price %v", ErrPriceUnavailable, price)
	}

	target, stop, err := levels(action, decimal.NewFromFloat(price), params)
	if err != nil {
		return types.Strategy{}, err
	}

	confidence := confidenceFor(score)
	hundred := decimal.NewFromInt(100)

	return types.Strategy{
		Ticker:          strings.ToUpper(ticker),
		Action:          action,
		EntryPrice:      price,
		TargetPrice:     target.InexactFloat64(),
		StopLoss:        stop.InexactFloat64(),
		PositionSize:    positionSize(params, confidence),
		RiskRewardRatio: params.ProfitTargetPct.Div(params.StopLossPct).Round(2).InexactFloat64(),
		TimeHorizon:     timeHorizon(params.ProfitTargetPct),
		Confidence:      confidence,
		Reason:          reasonFor(action, score),
		ExpectedGainPct: params.ProfitTargetPct.Mul(hundred).Round(1).InexactFloat64(),
		MaxLossPct:      params.StopLossPct.Mul(hundred).Round(1).InexactFloat64(),
		Rating:          score.Rating,
		RiskTier:        tier,
		GeneratedAt:     now,
	}, nil
}

// levels computes target and stop rounded to cents, falling back to four
// decimals for sub-dollar prices where cents would collapse the ordering.
func levels(action types.Action, entry decimal.Decimal, p RiskParams) (target, stop decimal.Decimal, err error) {
	one := decimal.NewFromInt(1)

	var rawTarget, rawStop decimal.Decimal
	switch action {
	case types.ActionBuy:
		rawTarget = entry.Mul(one.Add(p.ProfitTargetPct))
		rawStop = entry.Mul(one.Sub(p.StopLossPct))
	case types.ActionSell:
		rawTarget = entry.Mul(one.Sub(p.ProfitTargetPct))
		rawStop = entry.Mul(one.Add(p.StopLossPct))
	default:
		return target, stop, fmt.Errorf("unknown action %q", action)
	}

	for _, places := range []int32{2, 4} {
		target, stop = rawTarget.Round(places), rawStop.Round(places)
		if ordered(action, entry, target, stop) {
			return target, stop, nil
		}
	}
	return target, stop, fmt.Errorf("%w: price %s too small to place stop and target", ErrPriceUnavailable, entry)
}

func ordered(action types.Action, entry, target, stop decimal.Decimal) bool {
	if action == types.ActionBuy {
		return stop.LessThan(entry) && entry.LessThan(target)
	}
	return target.LessThan(entry) && entry.LessThan(stop)
}
