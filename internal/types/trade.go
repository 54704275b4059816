package types

import (
	"fmt"
	"strings"
	"time"
)

// Action is a trade direction.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// RiskTier selects stop/target distances and base position size.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

func ParseRiskTier(s string) (RiskTier, error) {
	switch t := RiskTier(strings.ToLower(strings.TrimSpace(s))); t {
	case RiskLow, RiskMedium, RiskHigh:
		return t, nil
	}
	return "", fmt.Errorf("invalid risk tier %q: must be low, medium or high", s)
}

// Strategy is a concrete paper-trade plan.
type Strategy struct {
	Ticker          string    `json:"ticker"`
	Action          Action    `json:"action"`
	EntryPrice      float64   `json:"entry_price"`
	TargetPrice     float64   `json:"target_price"`
	StopLoss        float64   `json:"stop_loss"`
	PositionSize    string    `json:"position_size"`
	RiskRewardRatio float64   `json:"risk_reward_ratio"`
	TimeHorizon     string    `json:"time_horizon"`
	Confidence      float64   `json:"confidence"`
	Reason          string    `json:"reason"`
	ExpectedGainPct float64   `json:"expected_gain_pct"`
	MaxLossPct      float64   `json:"max_loss_pct"`
	Rating          Rating    `json:"rating"`
	RiskTier        RiskTier  `json:"risk_tier"`
	ReferenceOnly   bool      `json:"reference_only,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// TradeStatus is the lifecycle state of a ledger entry. Closed states are
// terminal.
type TradeStatus string

const (
	StatusOpen            TradeStatus = "OPEN"
	StatusClosedWin       TradeStatus = "CLOSED_WIN"
	StatusClosedLoss      TradeStatus = "CLOSED_LOSS"
	StatusClosedBreakEven TradeStatus = "CLOSED_BREAK_EVEN"
)

func (s TradeStatus) Closed() bool {
	return s == StatusClosedWin || s == StatusClosedLoss || s == StatusClosedBreakEven
}

// Trade is a ledger entry. Exit fields are nil while the trade is open.
type Trade struct {
	ID           int         `json:"id"`
	Ticker       string      `json:"ticker"`
	Action       Action      `json:"action"`
	EntryPrice   float64     `json:"entry_price"`
	TargetPrice  float64     `json:"target_price"`
	StopLoss     float64     `json:"stop_loss"`
	PositionSize string      `json:"position_size"`
	Rating       Rating      `json:"rating,omitempty"`
	Reason       string      `json:"reason,omitempty"`
	EntryDate    time.Time   `json:"entry_date"`
	Status       TradeStatus `json:"status"`
	ExitPrice    *float64    `json:"exit_price,omitempty"`
	ExitDate     *time.Time  `json:"exit_date,omitempty"`
	PnLPct       *float64    `json:"pnl_pct,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// Stats aggregates closed trades.
type Stats struct {
	TotalTrades  int     `json:"total_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	MaxWin       float64 `json:"max_win"`
	MaxLoss      float64 `json:"max_loss"`
	ProfitFactor float64 `json:"profit_factor"`
}
