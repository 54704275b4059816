package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullbear-qa/internal/types"
)

func closedTrade(status types.TradeStatus, pnl float64) types.Trade {
	return types.Trade{Status: status, PnLPct: &pnl}
}

func TestComputeStats(t *testing.T) {
	trades := []types.Trade{
		closedTrade(types.StatusClosedWin, 12),
		closedTrade(types.StatusClosedWin, 8.5),
		closedTrade(types.StatusClosedWin, 3.01),
		closedTrade(types.StatusClosedLoss, -5),
		closedTrade(types.StatusClosedLoss, -3),
		closedTrade(types.StatusClosedBreakEven, 0.2),
		{Status: types.StatusOpen},
	}

	st := ComputeStats(trades)
	assert.Equal(t, types.Stats{
		TotalTrades:  6,
		Wins:         3,
		Losses:       2,
		WinRate:      50,
		AvgWin:       7.84,
		AvgLoss:      -4,
		MaxWin:       12,
		MaxLoss:      -5,
		ProfitFactor: 1.96,
	}, st)
}

func TestComputeStatsWithoutLosses(t *testing.T) {
	st := ComputeStats([]types.Trade{
		closedTrade(types.StatusClosedWin, 4),
		closedTrade(types.StatusClosedBreakEven, 0),
		closedTrade(types.StatusClosedWin, 6),
	})
	assert.Equal(t, 3, st.TotalTrades)
	assert.Equal(t, 66.7, st.WinRate)
	assert.Equal(t, 5.0, st.AvgWin)
	assert.Zero(t, st.AvgLoss)
	assert.Zero(t, st.MaxLoss)
	assert.Zero(t, st.ProfitFactor)
}

func TestStatsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := New(NewFileStore(filepath.Join(t.TempDir(), "t.json")))
	_, err := l.Add(ctx, buy("AAPL", 100, 112, 95), "")
	require.NoError(t, err)
	_, err = l.ManualClose(ctx, 1, 108, "")
	require.NoError(t, err)

	first, err := l.Stats(ctx)
	require.NoError(t, err)
	second, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 100.0, first.WinRate)
}
