package ledger

import (
	"github.com/shopspring/decimal"

	"bullbear-qa/internal/types"
)

// ComputeStats aggregates closed trades. Break-even closes count towards the
// total only. With no closed trades every field is zero.
func ComputeStats(trades []types.Trade) types.Stats {
	var (
		st                types.Stats
		winSum, lossSum   decimal.Decimal
		maxWin, maxLoss   decimal.Decimal
		haveWin, haveLoss bool
	)

	for _, t := range trades {
		if !t.Status.Closed() {
			continue
		}
		st.TotalTrades++
		pnl := decimal.Zero
		if t.PnLPct != nil {
			pnl = decimal.NewFromFloat(*t.PnLPct)
		}

		switch t.Status {
		case types.StatusClosedWin:
			st.Wins++
			winSum = winSum.Add(pnl)
			if !haveWin || pnl.GreaterThan(maxWin) {
				maxWin, haveWin = pnl, true
			}
		case types.StatusClosedLoss:
			st.Losses++
			lossSum = lossSum.Add(pnl)
			if !haveLoss || pnl.LessThan(maxLoss) {
				maxLoss, haveLoss = pnl, true
			}
		}
	}

	if st.TotalTrades == 0 {
		return st
	}

	hundred := decimal.NewFromInt(100)
	st.WinRate = decimal.NewFromInt(int64(st.Wins)).Mul(hundred).
		Div(decimal.NewFromInt(int64(st.TotalTrades))).Round(1).InexactFloat64()

	avgWin, avgLoss := decimal.Zero, decimal.Zero
	if st.Wins > 0 {
		avgWin = winSum.Div(decimal.NewFromInt(int64(st.Wins))).Round(2)
	}
	if st.Losses > 0 {
		avgLoss = lossSum.Div(decimal.NewFromInt(int64(st.Losses))).Round(2)
	}
	st.AvgWin = avgWin.InexactFloat64()
	st.AvgLoss = avgLoss.InexactFloat64()
	st.MaxWin = maxWin.InexactFloat64()
	st.MaxLoss = maxLoss.InexactFloat64()
	if !avgLoss.IsZero() {
		st.ProfitFactor = avgWin.Div(avgLoss).Abs().Round(2).InexactFloat64()
	}
	return st
}
