package strategy

import (
	"strings"

	"bullbear-qa/internal/types"
)

const defaultReason = "composite analysis"

// reasonFor fills the reason template from the dimensions that support the
// action.
func reasonFor(action types.Action, score types.InvestmentScore) string {
	var clauses []string
	f, hasF := score.Breakdown[types.DimensionFundamental]
	t, hasT := score.Breakdown[types.DimensionTechnical]
	s, hasS := score.Breakdown[types.DimensionSentiment]

	switch action {
	case types.ActionBuy:
		if hasF && f >= 0 {
			clauses = append(clauses, "fundamentals solid")
		}
		if hasT && t > 0 {
			clauses = append(clauses, "technicals bullish")
		}
		if hasS && s > 0 {
			clauses = append(clauses, "sentiment positive")
		}
	case types.ActionSell:
		if hasF && f <= 0 {
			clauses = append(clauses, "valuation stretched")
		}
		if hasT && t < 0 {
			clauses = append(clauses, "technicals weakening")
		}
		if hasS && s < 0 {
			clauses = append(clauses, "sentiment turning negative")
		}
	}

	if len(clauses) == 0 {
		return defaultReason
	}
	return strings.Join(clauses, " + ")
}
