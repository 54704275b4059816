package strategy

import (
	"github.com/shopspring/decimal"

	"bullbear-qa/internal/types"
)

// RiskParams are the stop and target distances of a tier, as fractions of
// the entry price.
type RiskParams struct {
	StopLossPct     decimal.Decimal
	ProfitTargetPct decimal.Decimal
	// basePosition indexes positionLadder.
	basePosition int
}

var riskTiers = map[types.RiskTier]RiskParams{
	types.RiskLow:    {StopLossPct: decimal.RequireFromString("0.03"), ProfitTargetPct: decimal.RequireFromString("0.08"), basePosition: 1},
	types.RiskMedium: {StopLossPct: decimal.RequireFromString("0.05"), ProfitTargetPct: decimal.RequireFromString("0.12"), basePosition: 2},
	types.RiskHigh:   {StopLossPct: decimal.RequireFromString("0.08"), ProfitTargetPct: decimal.RequireFromString("0.20"), basePosition: 3},
}

// positionLadder is the full range of position sizes. Confidence nudges move
// at most one rung and never leave the ladder.
var positionLadder = []string{"2%", "3%", "5%", "8%", "10%"}

const (
	highConfidence = 0.8
	lowConfidence  = 0.5
)

// dimensionConfidence is the evidence weight each contributing dimension
// adds to a plan's confidence.
var dimensionConfidence = map[types.Dimension]float64{
	types.DimensionFundamental: 0.8,
	types.DimensionTechnical:   0.8,
	types.DimensionSentiment:   0.7,
}

// Time horizon breakpoints on the profit target.
var (
	shortHorizonBelow  = decimal.RequireFromString("0.08")
	mediumHorizonBelow = decimal.RequireFromString("0.15")
)

const (
	horizonShort  = "1-2 weeks"
	horizonMedium = "1-2 months"
	horizonLong   = "2-6 months"
)

// ParamsFor returns the preset for a tier.
func ParamsFor(tier types.RiskTier) (RiskParams, bool) {
	p, ok := riskTiers[tier]
	return p, ok
}

func positionSize(tier RiskParams, confidence float64) string {
	idx := tier.basePosition
	switch {
	case confidence > highConfidence:
		idx++
	case confidence < lowConfidence:
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(positionLadder) {
		idx = len(positionLadder) - 1
	}
	return positionLadder[idx]
}

func timeHorizon(profitTarget decimal.Decimal) string {
	switch {
	case profitTarget.LessThan(shortHorizonBelow):
		return horizonShort
	case profitTarget.LessThan(mediumHorizonBelow):
		return horizonMedium
	default:
		return horizonLong
	}
}

// confidenceFor averages the weights of the dimensions that had evidence.
func confidenceFor(score types.InvestmentScore) float64 {
	var sum float64
	n := 0
	for _, d := range types.Dimensions() {
		if score.Has(d) {
			sum += dimensionConfidence[d]
			n++
		}
	}
	if n == 0 {
		return lowConfidence
	}
	return decimal.NewFromFloat(sum / float64(n)).Round(2).InexactFloat64()
}
