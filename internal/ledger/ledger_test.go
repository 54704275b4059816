package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/types"
)

var t0 = time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC)

type fakeQuoter map[string]float64

func (f fakeQuoter) Quote(ctx context.Context, symbol string) (float64, error) {
	p, ok := f[symbol]
	if !ok {
		return 0, errors.New("no quote")
	}
	return p, nil
}

// failingStore reads from an inner store but refuses every write.
type failingStore struct {
	inner interfaces.TradeStore
}

func (f failingStore) Load(ctx context.Context) ([]types.Trade, error) { return f.inner.Load(ctx) }
func (f failingStore) Save(ctx context.Context, _ []types.Trade) error {
	return errors.New("disk full")
}

func buy(ticker string, entry, target, stop float64) types.Strategy {
	return types.Strategy{
		Ticker: ticker, Action: types.ActionBuy, EntryPrice: entry, TargetPrice: target,
		StopLoss: stop, PositionSize: "5%", Rating: types.RatingBuy, Reason: "fundamentals solid",
	}
}

func sell(ticker string, entry, target, stop float64) types.Strategy {
	return types.Strategy{
		Ticker: ticker, Action: types.ActionSell, EntryPrice: entry, TargetPrice: target,
		StopLoss: stop, PositionSize: "3%", Rating: types.RatingSell,
	}
}

func stores(t *testing.T) map[string]func() interfaces.TradeStore {
	return map[string]func() interfaces.TradeStore{
		"json": func() interfaces.TradeStore {
			return NewFileStore(filepath.Join(t.TempDir(), "trades", "paper_trades.json"))
		},
		"sqlite": func() interfaces.TradeStore {
			s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestAddGetRoundTrip(t *testing.T) {
	for name, mk := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			l := New(mk(), WithClock(func() time.Time { return t0 }))

			s := buy("aapl", 189.84, 212.62, 180.35)
			id, err := l.Add(ctx, s, "first")
			require.NoError(t, err)
			assert.Equal(t, 1, id)

			got, err := l.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "AAPL", got.Ticker)
			assert.Equal(t, s.Action, got.Action)
			assert.Equal(t, s.EntryPrice, got.EntryPrice)
			assert.Equal(t, s.TargetPrice, got.TargetPrice)
			assert.Equal(t, s.StopLoss, got.StopLoss)
			assert.Equal(t, s.PositionSize, got.PositionSize)
			assert.Equal(t, types.StatusOpen, got.Status)
			assert.True(t, t0.Equal(got.EntryDate))
			assert.Nil(t, got.ExitPrice)
			assert.Nil(t, got.PnLPct)
			assert.Equal(t, "first", got.Notes)

			id2, err := l.Add(ctx, sell("TSLA", 200, 176, 210), "")
			require.NoError(t, err)
			assert.Equal(t, 2, id2)

			_, err = l.Get(ctx, 99)
			assert.ErrorIs(t, err, ErrTradeNotFound)
		})
	}
}

func TestAddRejectsUnorderedStrategy(t *testing.T) {
	l := New(NewFileStore(filepath.Join(t.TempDir(), "t.json")))
	_, err := l.Add(context.Background(), buy("AAPL", 100, 95, 112), "")
	assert.ErrorIs(t, err, ErrInvalidStrategy)
	_, err = l.Add(context.Background(), buy("AAPL", 0, 1, 0), "")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestAutoUpdate(t *testing.T) {
	for name, mk := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			l := New(mk(), WithClock(func() time.Time { return t0 }))

			winBuy, _ := l.Add(ctx, buy("AAPL", 100, 112, 95), "")
			lossBuy, _ := l.Add(ctx, buy("MSFT", 100, 112, 95), "")
			openBuy, _ := l.Add(ctx, buy("NVDA", 100, 112, 95), "")
			winSell, _ := l.Add(ctx, sell("TSLA", 200, 176, 210), "")
			lossSell, _ := l.Add(ctx, sell("F", 10, 8.8, 10.5), "")
			unpriced, _ := l.Add(ctx, buy("ZZZZ", 10, 11, 9), "")

			report, err := l.AutoUpdate(ctx, fakeQuoter{
				"AAPL": 113, "MSFT": 95, "NVDA": 105, "TSLA": 170, "F": 10.6,
			})
			require.NoError(t, err)
			assert.Equal(t, 6, report.Checked)
			assert.Len(t, report.Closed, 4)
			assert.Contains(t, report.Unpriced, "ZZZZ")

			expect := map[int]struct {
				status types.TradeStatus
				pnl    float64
			}{
				winBuy:   {types.StatusClosedWin, 13},
				lossBuy:  {types.StatusClosedLoss, -5},
				winSell:  {types.StatusClosedWin, 17.65},
				lossSell: {types.StatusClosedLoss, -5.66},
			}
			for id, want := range expect {
				tr, err := l.Get(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, want.status, tr.Status, "trade %d", id)
				require.NotNil(t, tr.PnLPct)
				assert.Equal(t, want.pnl, *tr.PnLPct, "trade %d", id)
				require.NotNil(t, tr.ExitDate)
				assert.True(t, t0.Equal(*tr.ExitDate))
			}

			for _, id := range []int{openBuy, unpriced} {
				tr, err := l.Get(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, types.StatusOpen, tr.Status)
			}

			// closed trades are not re-priced
			report, err = l.AutoUpdate(ctx, fakeQuoter{"AAPL": 50, "NVDA": 105})
			require.NoError(t, err)
			assert.Equal(t, 2, report.Checked)
			assert.Empty(t, report.Closed)
		})
	}
}

func TestManualClose(t *testing.T) {
	ctx := context.Background()
	l := New(NewFileStore(filepath.Join(t.TempDir(), "t.json")), WithClock(func() time.Time { return t0 }))

	a, _ := l.Add(ctx, buy("AAPL", 100, 112, 95), "")
	b, _ := l.Add(ctx, buy("MSFT", 100, 112, 95), "")
	c, _ := l.Add(ctx, sell("TSLA", 100, 88, 105), "")
	d, _ := l.Add(ctx, buy("KO", 100, 108, 97), "")

	tr, err := l.ManualClose(ctx, a, 100.4, "flat")
	require.NoError(t, err)
	assert.Equal(t, types.StatusClosedBreakEven, tr.Status)
	assert.Equal(t, 0.4, *tr.PnLPct)
	assert.Equal(t, "flat", tr.Notes)

	tr, err = l.ManualClose(ctx, b, 103, "")
	require.NoError(t, err)
	assert.Equal(t, types.StatusClosedWin, tr.Status)
	assert.Equal(t, 3.0, *tr.PnLPct)

	tr, err = l.ManualClose(ctx, c, 104, "")
	require.NoError(t, err)
	assert.Equal(t, types.StatusClosedLoss, tr.Status)
	assert.Equal(t, -3.85, *tr.PnLPct)

	tr, err = l.ManualClose(ctx, d, 99.5, "")
	require.NoError(t, err)
	assert.Equal(t, types.StatusClosedBreakEven, tr.Status)
	assert.Equal(t, -0.5, *tr.PnLPct)

	_, err = l.ManualClose(ctx, a, 120, "again")
	assert.ErrorIs(t, err, ErrTradeClosed)
	got, _ := l.Get(ctx, a)
	assert.Equal(t, 100.4, *got.ExitPrice)

	_, err = l.ManualClose(ctx, 42, 10, "")
	assert.ErrorIs(t, err, ErrTradeNotFound)
	_, err = l.ManualClose(ctx, d, 0, "")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestFailedWriteLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	inner := NewFileStore(filepath.Join(t.TempDir(), "t.json"))
	good := New(inner)
	id, err := good.Add(ctx, buy("AAPL", 100, 112, 95), "")
	require.NoError(t, err)

	bad := New(failingStore{inner: inner})

	_, err = bad.Add(ctx, buy("MSFT", 100, 112, 95), "")
	assert.Error(t, err)

	_, err = bad.ManualClose(ctx, id, 120, "")
	assert.Error(t, err)

	report, err := bad.AutoUpdate(ctx, fakeQuoter{"AAPL": 150})
	assert.Error(t, err)
	assert.Empty(t, report.Closed)

	trades, err := good.List(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, types.StatusOpen, trades[0].Status)
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	l := New(NewFileStore(filepath.Join(t.TempDir(), "t.json")))
	for _, sym := range []string{"AAPL", "MSFT", "NVDA"} {
		_, err := l.Add(ctx, buy(sym, 100, 112, 95), "")
		require.NoError(t, err)
	}
	_, err := l.ManualClose(ctx, 2, 110, "")
	require.NoError(t, err)

	open, err := l.Open(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 2)

	closed, err := l.Closed(ctx)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "MSFT", closed[0].Ticker)

	recent, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].ID)
	assert.Equal(t, 2, recent[1].ID)

	for _, n := range []int{0, -1} {
		none, err := l.Recent(ctx, n)
		require.NoError(t, err)
		assert.Empty(t, none)
	}
}

func TestEmptyLedger(t *testing.T) {
	l := New(NewFileStore(filepath.Join(t.TempDir(), "missing.json")))
	trades, err := l.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trades)

	st, err := l.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Stats{}, st)
}
