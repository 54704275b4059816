// Command qa answers stock questions and tracks the resulting paper trades.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bullbear-qa/internal/ledger"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/pipeline"
	"bullbear-qa/internal/report"
	"bullbear-qa/internal/router"
	"bullbear-qa/internal/scheduler"
	"bullbear-qa/internal/types"
)

var app *App

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "qa",
	Short:         "Stock question answering with paper-trade tracking",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeSystem(); err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(cmd.Context(), path)
		if err != nil {
			return err
		}
		app, err = newApp(cmd.Context(), cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
		_ = logger.Shutdown(context.Background())
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: $QA_CONFIG or ./config.yaml)")

	askCmd.Flags().String("risk", "", "risk tier: low, medium or high (default from config)")
	askCmd.Flags().Bool("save", false, "record the generated plan in the ledger")
	askCmd.Flags().Bool("show-routing", false, "print the routing decision")

	closeCmd.Flags().String("notes", "", "notes stored with the closed trade")
	listCmd.Flags().Bool("open", false, "only open trades")
	listCmd.Flags().Bool("closed", false, "only closed trades")
	listCmd.Flags().Int("recent", 0, "only the most recent N trades")

	tradesCmd.AddCommand(listCmd, showCmd, closeCmd, updateCmd, statsCmd, exportCmd)
	rootCmd.AddCommand(askCmd, tradesCmd, watchCmd)
}

// --- Ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a stock question and propose a trade plan",
	Example: `  qa ask "Is AAPL a good buy?"
  qa ask "Compare MSFT and GOOGL" --show-routing
  qa ask "TSLA RSI and MACD" --risk high --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		riskFlag, _ := cmd.Flags().GetString("risk")
		save, _ := cmd.Flags().GetBool("save")
		showRouting, _ := cmd.Flags().GetBool("show-routing")

		var tier types.RiskTier
		if riskFlag != "" {
			t, err := types.ParseRiskTier(riskFlag)
			if err != nil {
				return err
			}
			tier = t
		}

		answer, err := app.Pipeline.Ask(ctx, strings.Join(args, " "), tier)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if showRouting {
			fmt.Fprintln(out, router.FormatDecision(answer.Routing))
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, answer.Report)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Investment score: %d/100 (%s)\n", answer.Score.Score, answer.Score.Rating)

		if answer.Strategy != nil {
			fmt.Fprintln(out)
			fmt.Fprintln(out, pipeline.FormatOrderTicket(*answer.Strategy))
		} else if answer.StrategyNote != "" {
			fmt.Fprintf(out, "No trade plan: %s\n", answer.StrategyNote)
		}
		fmt.Fprintf(out, "\nAnswered in %.1fs\n", answer.Elapsed.Seconds())

		if save && answer.Strategy != nil {
			id, err := app.Pipeline.Record(ctx, answer.Strategy, "")
			if errors.Is(err, pipeline.ErrReferenceOnly) {
				fmt.Fprintln(out, "Reference plan not recorded.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("record trade: %w", err)
			}
			fmt.Fprintf(out, "Recorded paper trade #%d\n", id)
		}
		return nil
	},
}

// --- Trades ---

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Inspect and manage paper trades",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List paper trades",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		openOnly, _ := cmd.Flags().GetBool("open")
		closedOnly, _ := cmd.Flags().GetBool("closed")
		if openOnly && closedOnly {
			return errors.New("--open and --closed are mutually exclusive")
		}
		recent, _ := cmd.Flags().GetInt("recent")

		var (
			trades []types.Trade
			err    error
		)
		switch {
		case openOnly:
			trades, err = app.Ledger.Open(ctx)
		case closedOnly:
			trades, err = app.Ledger.Closed(ctx)
		case recent > 0:
			trades, err = app.Ledger.Recent(ctx, recent)
		default:
			trades, err = app.Ledger.List(ctx)
		}
		if err != nil {
			return err
		}
		if len(trades) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No trades.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTICKER\tACTION\tENTRY\tTARGET\tSTOP\tSTATUS\tPNL%\tENTERED")
		for _, t := range trades {
			pnl := "-"
			if t.PnLPct != nil {
				pnl = fmt.Sprintf("%+.2f", *t.PnLPct)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%s\t%s\t%s\n",
				t.ID, t.Ticker, t.Action, t.EntryPrice, t.TargetPrice, t.StopLoss,
				t.Status, pnl, t.EntryDate.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid trade id %q", s)
	}
	return id, nil
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one paper trade",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := app.Ledger.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Trade #%d  %s %s  [%s]\n", t.ID, t.Action, t.Ticker, t.Status)
		fmt.Fprintf(out, "Entry:   %.2f on %s\n", t.EntryPrice, t.EntryDate.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "Target:  %.2f\n", t.TargetPrice)
		fmt.Fprintf(out, "Stop:    %.2f\n", t.StopLoss)
		fmt.Fprintf(out, "Size:    %s\n", t.PositionSize)
		if t.Rating != "" {
			fmt.Fprintf(out, "Rating:  %s\n", t.Rating)
		}
		if t.ExitPrice != nil && t.ExitDate != nil && t.PnLPct != nil {
			fmt.Fprintf(out, "Exit:    %.2f on %s (%+.2f%%)\n", *t.ExitPrice, t.ExitDate.Format("2006-01-02 15:04"), *t.PnLPct)
		}
		if t.Reason != "" {
			fmt.Fprintf(out, "Reason:  %s\n", t.Reason)
		}
		if t.Notes != "" {
			fmt.Fprintf(out, "Notes:   %s\n", t.Notes)
		}
		return nil
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <id> <price>",
	Short: "Close an open paper trade at a price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		price, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", args[1])
		}
		notes, _ := cmd.Flags().GetString("notes")

		t, err := app.Ledger.ManualClose(cmd.Context(), id, price, notes)
		if errors.Is(err, ledger.ErrTradeClosed) {
			return fmt.Errorf("trade #%d is already closed", id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Closed trade #%d %s at %.2f: %s (%+.2f%%)\n",
			t.ID, t.Ticker, price, t.Status, *t.PnLPct)
		return nil
	},
}

func printUpdate(cmd *cobra.Command, r ledger.UpdateReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked %d open trades, closed %d\n", r.Checked, len(r.Closed))
	for _, t := range r.Closed {
		fmt.Fprintf(out, "  #%d %s %s at %.2f (%+.2f%%)\n", t.ID, t.Ticker, t.Status, *t.ExitPrice, *t.PnLPct)
	}
	for sym, err := range r.Unpriced {
		fmt.Fprintf(out, "  %s: no price (%v)\n", sym, err)
	}
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Close open trades whose target or stop was crossed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := app.Ledger.AutoUpdate(cmd.Context(), app.Market)
		if err != nil {
			return err
		}
		printUpdate(cmd, r)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show performance of closed trades",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := app.Ledger.Stats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if s.TotalTrades == 0 {
			fmt.Fprintln(out, "No closed trades yet.")
			return nil
		}
		fmt.Fprintf(out, "Closed trades:  %d (%d wins, %d losses)\n", s.TotalTrades, s.Wins, s.Losses)
		fmt.Fprintf(out, "Win rate:       %.1f%%\n", s.WinRate)
		fmt.Fprintf(out, "Average win:    %+.2f%%\n", s.AvgWin)
		fmt.Fprintf(out, "Average loss:   %+.2f%%\n", s.AvgLoss)
		fmt.Fprintf(out, "Best / worst:   %+.2f%% / %+.2f%%\n", s.MaxWin, s.MaxLoss)
		fmt.Fprintf(out, "Profit factor:  %.2f\n", s.ProfitFactor)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export all trades and summary statistics as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		trades, err := app.Ledger.List(ctx)
		if err != nil {
			return err
		}
		stats, err := app.Ledger.Stats(ctx)
		if err != nil {
			return err
		}
		if err := report.WriteCSV(args[0], trades, stats); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d trades to %s\n", len(trades), args[0])
		return nil
	},
}

// --- Watch ---

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scheduled ledger updates until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := app.Config
		s := scheduler.New(ctx, app.Ledger, app.Market)
		s.OnClose(func(r ledger.UpdateReport) { printUpdate(cmd, r) })

		var maintenance func() error
		if cfg.Journal.RetentionDays > 0 {
			maintenance = func() error { return app.Journal.CompressOlder(cfg.Journal.RetentionDays) }
		}
		if err := s.Register(cfg.Schedule.UpdateCron, cfg.Schedule.CompressCron, maintenance); err != nil {
			return err
		}

		s.RunUpdateNow()
		s.Start()
		fmt.Fprintf(cmd.OutOrStdout(), "Watching open trades (%s). Press Ctrl+C to stop.\n", cfg.Schedule.UpdateCron)
		<-ctx.Done()
		s.Stop()
		return nil
	},
}
