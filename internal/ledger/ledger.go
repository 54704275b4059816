// Package ledger records paper trades and tracks them to a terminal state.
// Every mutating call reads the full state from the store, changes it and
// writes it back; a failed write leaves the previous state in place.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/types"
)

var (
	ErrTradeNotFound   = errors.New("trade not found")
	ErrTradeClosed     = errors.New("trade already closed")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidStrategy = errors.New("strategy prices are not ordered for its action")
)

// breakEvenBand is the pnl percentage around zero treated as break-even on
// manual close.
var breakEvenBand = decimal.RequireFromString("0.5")

type Ledger struct {
	mu    sync.Mutex
	store interfaces.TradeStore
	now   func() time.Time
}

type Option func(*Ledger)

// WithClock overrides the time source used for entry and exit stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store interfaces.TradeStore, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add records s as a new OPEN trade and returns its id.
func (l *Ledger) Add(ctx context.Context, s types.Strategy, notes string) (int, error) {
	if err := validateStrategy(s); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	trades, err := l.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}

	t := types.Trade{
		ID:           nextID(trades),
		Ticker:       strings.ToUpper(s.Ticker),
		Action:       s.Action,
		EntryPrice:   s.EntryPrice,
		TargetPrice:  s.TargetPrice,
		StopLoss:     s.StopLoss,
		PositionSize: s.PositionSize,
		Rating:       s.Rating,
		Reason:       s.Reason,
		EntryDate:    l.now(),
		Status:       types.StatusOpen,
		Notes:        notes,
	}

	if err := l.store.Save(ctx, append(trades, t)); err != nil {
		return 0, fmt.Errorf("save ledger: %w", err)
	}

	logger.Ledger(ctx, t.ID, t.Ticker, "opened", "action", t.Action, "entry", t.EntryPrice)
	return t.ID, nil
}

// Get returns one trade.
func (l *Ledger) Get(ctx context.Context, id int) (types.Trade, error) {
	trades, err := l.List(ctx)
	if err != nil {
		return types.Trade{}, err
	}
	i := indexOf(trades, id)
	if i < 0 {
		return types.Trade{}, fmt.Errorf("%w: id %d", ErrTradeNotFound, id)
	}
	return trades[i], nil
}

// List returns every trade ordered by id.
func (l *Ledger) List(ctx context.Context) ([]types.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trades, err := l.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].ID < trades[j].ID })
	return trades, nil
}

func (l *Ledger) Open(ctx context.Context) ([]types.Trade, error) {
	return l.filter(ctx, func(t types.Trade) bool { return !t.Status.Closed() })
}

func (l *Ledger) Closed(ctx context.Context) ([]types.Trade, error) {
	return l.filter(ctx, func(t types.Trade) bool { return t.Status.Closed() })
}

// Recent returns the last n trades, newest first. n <= 0 yields none.
func (l *Ledger) Recent(ctx context.Context, n int) ([]types.Trade, error) {
	if n <= 0 {
		return []types.Trade{}, nil
	}
	trades, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Trade, 0, n)
	for i := len(trades) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, trades[i])
	}
	return out, nil
}

func (l *Ledger) filter(ctx context.Context, keep func(types.Trade) bool) ([]types.Trade, error) {
	trades, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	out := trades[:0]
	for _, t := range trades {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpdateReport summarizes one AutoUpdate pass.
type UpdateReport struct {
	Checked int
	Closed  []types.Trade
	// Unpriced maps symbols the quote source could not price to the error.
	Unpriced map[string]error
}

// AutoUpdate prices every OPEN trade and closes those whose price crossed
// the target or the stop. Trades that cannot be priced stay OPEN.
func (l *Ledger) AutoUpdate(ctx context.Context, quoter interfaces.Quoter) (UpdateReport, error) {
	report := UpdateReport{Unpriced: map[string]error{}}

	l.mu.Lock()
	defer l.mu.Unlock()

	trades, err := l.store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load ledger: %w", err)
	}

	now := l.now()
	for i := range trades {
		if trades[i].Status.Closed() {
			continue
		}
		report.Checked++

		price, err := quoter.Quote(ctx, trades[i].Ticker)
		if err == nil && price <= 0 {
			err = ErrInvalidPrice
		}
		if err != nil {
			report.Unpriced[trades[i].Ticker] = err
			logger.Warn(ctx, "Could not price open trade", "trade_id", trades[i].ID,
				"symbol", trades[i].Ticker, "error", err)
			continue
		}

		status, crossed := crossing(trades[i], price)
		if !crossed {
			continue
		}
		settle(&trades[i], price, status, now, "")
		report.Closed = append(report.Closed, trades[i])
	}

	if len(report.Closed) == 0 {
		return report, nil
	}
	if err := l.store.Save(ctx, trades); err != nil {
		report.Closed = nil
		return report, fmt.Errorf("save ledger: %w", err)
	}
	for _, t := range report.Closed {
		logger.Ledger(ctx, t.ID, t.Ticker, string(t.Status), "exit", *t.ExitPrice, "pnl_pct", *t.PnLPct)
	}
	return report, nil
}

// ManualClose closes an OPEN trade at exitPrice. Closing is irreversible: a
// second close of the same id fails with ErrTradeClosed.
func (l *Ledger) ManualClose(ctx context.Context, id int, exitPrice float64, notes string) (types.Trade, error) {
	if exitPrice <= 0 {
		return types.Trade{}, ErrInvalidPrice
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	trades, err := l.store.Load(ctx)
	if err != nil {
		return types.Trade{}, fmt.Errorf("load ledger: %w", err)
	}
	i := indexOf(trades, id)
	if i < 0 {
		return types.Trade{}, fmt.Errorf("%w: id %d", ErrTradeNotFound, id)
	}
	if trades[i].Status.Closed() {
		return types.Trade{}, fmt.Errorf("%w: id %d is %s", ErrTradeClosed, id, trades[i].Status)
	}

	pnl := pnlPct(trades[i].Action, trades[i].EntryPrice, exitPrice)
	status := types.StatusClosedBreakEven
	switch {
	case pnl.GreaterThan(breakEvenBand):
		status = types.StatusClosedWin
	case pnl.LessThan(breakEvenBand.Neg()):
		status = types.StatusClosedLoss
	}
	settle(&trades[i], exitPrice, status, l.now(), notes)

	if err := l.store.Save(ctx, trades); err != nil {
		return types.Trade{}, fmt.Errorf("save ledger: %w", err)
	}

	logger.Ledger(ctx, id, trades[i].Ticker, string(status), "exit", exitPrice, "pnl_pct", *trades[i].PnLPct)
	return trades[i], nil
}

// Stats aggregates every closed trade.
func (l *Ledger) Stats(ctx context.Context) (types.Stats, error) {
	trades, err := l.List(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	return ComputeStats(trades), nil
}

// crossing applies the directional target/stop test.
func crossing(t types.Trade, price float64) (types.TradeStatus, bool) {
	switch t.Action {
	case types.ActionBuy:
		if price >= t.TargetPrice {
			return types.StatusClosedWin, true
		}
		if price <= t.StopLoss {
			return types.StatusClosedLoss, true
		}
	case types.ActionSell:
		if price <= t.TargetPrice {
			return types.StatusClosedWin, true
		}
		if price >= t.StopLoss {
			return types.StatusClosedLoss, true
		}
	}
	return types.StatusOpen, false
}

// pnlPct is the percentage return in the trade's direction, rounded to cents.
func pnlPct(action types.Action, entry, exit float64) decimal.Decimal {
	e, x := decimal.NewFromFloat(entry), decimal.NewFromFloat(exit)
	one, hundred := decimal.NewFromInt(1), decimal.NewFromInt(100)
	if action == types.ActionSell {
		return e.Div(x).Sub(one).Mul(hundred).Round(2)
	}
	return x.Div(e).Sub(one).Mul(hundred).Round(2)
}

func settle(t *types.Trade, exitPrice float64, status types.TradeStatus, at time.Time, notes string) {
	pnl := pnlPct(t.Action, t.EntryPrice, exitPrice).InexactFloat64()
	t.Status = status
	t.ExitPrice = &exitPrice
	t.ExitDate = &at
	t.PnLPct = &pnl
	if notes != "" {
		if t.Notes != "" {
			t.Notes += "; "
		}
		t.Notes += notes
	}
}

func validateStrategy(s types.Strategy) error {
	if s.EntryPrice <= 0 || s.TargetPrice <= 0 || s.StopLoss <= 0 {
		return ErrInvalidPrice
	}
	switch s.Action {
	case types.ActionBuy:
		if s.StopLoss < s.EntryPrice && s.EntryPrice < s.TargetPrice {
			return nil
		}
	case types.ActionSell:
		if s.TargetPrice < s.EntryPrice && s.EntryPrice < s.StopLoss {
			return nil
		}
	}
	return fmt.Errorf("%w: %s entry %v target %v stop %v", ErrInvalidStrategy, s.Action, s.EntryPrice, s.TargetPrice, s.StopLoss)
}

func nextID(trades []types.Trade) int {
	highest := 0
	for _, t := range trades {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

func indexOf(trades []types.Trade, id int) int {
	for i, t := range trades {
		if t.ID == id {
			return i
		}
	}
	return -1
}
