package pipeline

import (
	"fmt"
	"strings"

	"bullbear-qa/internal/types"
)

// FormatOrderTicket renders a plan as a plain-text block that can be
// copied into a broker order form.
func FormatOrderTicket(s types.Strategy) string {
	targetSign, stopSign := "+", "-"
	if s.Action == types.ActionSell {
		targetSign, stopSign = "-", "+"
	}

	var sb strings.Builder
	sb.WriteString("==== ORDER TICKET ====\n")
	if s.ReferenceOnly {
		sb.WriteString("(reference only, not a recommendation)\n")
	}
	fmt.Fprintf(&sb, "Ticker:        %s\n", s.Ticker)
	fmt.Fprintf(&sb, "Action:        %s\n", s.Action)
	if s.Rating != "" {
		fmt.Fprintf(&sb, "Rating:        %s\n", s.Rating)
	}
	fmt.Fprintf(&sb, "Entry:         %s\n", price(s.EntryPrice))
	fmt.Fprintf(&sb, "Target:        %s (%s%.1f%%)\n", price(s.TargetPrice), targetSign, s.ExpectedGainPct)
	fmt.Fprintf(&sb, "Stop loss:     %s (%s%.1f%%)\n", price(s.StopLoss), stopSign, s.MaxLossPct)
	fmt.Fprintf(&sb, "Position size: %s\n", s.PositionSize)
	fmt.Fprintf(&sb, "Risk/reward:   1:%.2f\n", s.RiskRewardRatio)
	fmt.Fprintf(&sb, "Horizon:       %s\n", s.TimeHorizon)
	fmt.Fprintf(&sb, "Confidence:    %.0f%%\n", s.Confidence*100)
	fmt.Fprintf(&sb, "Reason:        %s\n", s.Reason)
	sb.WriteString("======================")
	return sb.String()
}

// price keeps sub-dollar precision that two decimals would hide.
func price(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
