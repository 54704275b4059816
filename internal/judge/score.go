package judge

import (
	"math"

	"bullbear-qa/internal/textmatch"
	"bullbear-qa/internal/types"
)

const (
	baselineScore     = 50
	minDimensionScore = 15
	maxDimensionScore = 85
)

// Weights is the per-dimension weight vector. Weights of dimensions without
// evidence are dropped and the rest renormalized.
type Weights map[types.Dimension]float64

// DefaultWeights favours fundamentals.
var DefaultWeights = Weights{
	types.DimensionFundamental: 0.4,
	types.DimensionTechnical:   0.3,
	types.DimensionSentiment:   0.3,
}

// Score sums the weights of the table terms found in text, each term counted
// at most once.
func Score(text string, table Table) int {
	normalized := textmatch.Normalize(text)
	total := 0
	for _, kw := range table {
		if textmatch.Contains(normalized, kw.Term) {
			total += kw.Weight
		}
	}
	return total
}

// DimensionScore is the baseline plus Score, clamped to the per-dimension
// bounds.
func DimensionScore(text string, table Table) int {
	return clamp(baselineScore+Score(text, table), minDimensionScore, maxDimensionScore)
}

// DimensionOf maps an analyzer intent to the score dimension its evidence
// feeds. Comparison evidence is read as fundamentals.
func DimensionOf(intent types.Intent) types.Dimension {
	switch intent {
	case types.IntentFundamental, types.IntentComparison:
		return types.DimensionFundamental
	case types.IntentTechnical:
		return types.DimensionTechnical
	case types.IntentSentiment:
		return types.DimensionSentiment
	}
	return types.DimensionFundamental
}

// Combine turns per-dimension scores into an InvestmentScore. An empty map
// yields the neutral baseline.
func Combine(dimensions map[types.Dimension]int, weights Weights, scheme Scheme) types.InvestmentScore {
	breakdown := make(map[types.Dimension]int, len(dimensions))
	var sum, totalWeight float64
	for _, d := range types.Dimensions() {
		s, ok := dimensions[d]
		if !ok {
			continue
		}
		breakdown[d] = s - baselineScore
		w := weights[d]
		sum += float64(s) * w
		totalWeight += w
	}

	score := baselineScore
	if totalWeight > 0 {
		score = clamp(int(math.Round(sum/totalWeight)), 0, 100)
	}
	return types.InvestmentScore{
		Score:     score,
		Rating:    scheme.Rate(score),
		Breakdown: breakdown,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
