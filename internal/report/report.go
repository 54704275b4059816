// Package report exports the paper-trade ledger as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bullbear-qa/internal/types"
)

var headers = []string{
	"id", "ticker", "action", "status", "entry_date", "entry_price", "target_price", "stop_loss",
	"position_size", "exit_date", "exit_price", "pnl_pct", "rating", "notes",
}

// WriteCSV writes one row per trade followed by a TOTAL row carrying the
// aggregate statistics. Parent directories are created as needed.
func WriteCSV(path string, trades []types.Trade, stats types.Stats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(out, trades, stats); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Write is WriteCSV to an arbitrary writer.
func Write(out io.Writer, trades []types.Trade, stats types.Stats) error {
	w := csv.NewWriter(out)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, t := range trades {
		rec := []string{
			strconv.Itoa(t.ID),
			t.Ticker,
			string(t.Action),
			string(t.Status),
			t.EntryDate.Format(time.RFC3339),
			money(t.EntryPrice),
			money(t.TargetPrice),
			money(t.StopLoss),
			t.PositionSize,
			optTime(t.ExitDate),
			optFloat(t.ExitPrice, money),
			optFloat(t.PnLPct, func(v float64) string { return fmt.Sprintf("%.2f", v) }),
			string(t.Rating),
			t.Notes,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("closed=%d wins=%d losses=%d win_rate=%.1f%% avg_win=%.2f%% avg_loss=%.2f%% max_win=%.2f%% max_loss=%.2f%% profit_factor=%.2f",
		stats.TotalTrades, stats.Wins, stats.Losses, stats.WinRate, stats.AvgWin, stats.AvgLoss,
		stats.MaxWin, stats.MaxLoss, stats.ProfitFactor)
	total := make([]string, len(headers))
	total[0] = "TOTAL"
	total[len(total)-1] = summary
	if err := w.Write(total); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func money(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func optFloat(v *float64, format func(float64) string) string {
	if v == nil {
		return ""
	}
	return format(*v)
}

func optTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
