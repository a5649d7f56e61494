package backtest

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rustyeddy/adaptive/journal"
)

// RecentTrades is how many trades PrintResult lists.
const RecentTrades = 5

func profitFactor(x float64) string {
	if math.IsInf(x, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", x)
}

// PrintResult writes the performance summary of a run followed by its most
// recent trades.
func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " ALGORITHM PERFORMANCE SUMMARY: %s\n", r.Symbol)
	fmt.Fprintln(w, "==================================================")

	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	}
	if r.Dataset != "" {
		fmt.Fprintf(w, "Dataset:       %s\n", r.Dataset)
	}
	fmt.Fprintf(w, "Bars:          %d (%s to %s)\n", r.Bars, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))

	s := r.Summary
	if s.NoTrades {
		fmt.Fprintln(w, "No trades executed")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Trades:           %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Win Rate:               %.2f%%\n", s.WinRate*100)
	fmt.Fprintf(w, "Total Return:           %.2f%%\n", s.TotalReturnPct)
	fmt.Fprintf(w, "Average Win:            %.2f%%\n", s.AvgWinPct)
	fmt.Fprintf(w, "Average Loss:           %.2f%%\n", s.AvgLossPct)
	fmt.Fprintf(w, "Profit Factor:          %s\n", profitFactor(s.ProfitFactor))
	fmt.Fprintf(w, "Max Consecutive Wins:   %d\n", s.MaxConsecutiveWins)
	fmt.Fprintf(w, "Max Consecutive Losses: %d\n", s.MaxConsecutiveLosses)
	fmt.Fprintf(w, "Max Drawdown:           %.2f%%\n", s.MaxDrawdownPct)
	fmt.Fprintf(w, "Sharpe:                 %.2f\n", s.Sharpe)
	if r.OpenPosition != 0 {
		fmt.Fprintf(w, "Open Position:          %s\n", r.OpenPosition)
	}

	recent := r.Trades
	if len(recent) > RecentTrades {
		recent = recent[len(recent)-RecentTrades:]
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Recent Trades (Last %d)\n", RecentTrades)
	fmt.Fprintln(w, "--------------------------------------------------")
	for _, t := range recent {
		fmt.Fprintf(w, "%-5s Entry: $%.2f -> Exit: $%.2f | P&L: %.2f%% | Reason: %s\n",
			t.Direction, t.EntryPrice, t.ExitPrice, t.PnLPct*100, t.ExitReason)
	}
	fmt.Fprintln(w)
}

// PrintBacktestRun writes a journaled run.
func PrintBacktestRun(w io.Writer, r journal.BacktestRun) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(w, "Instrument:    %s\n", r.Instrument)
	fmt.Fprintf(w, "Timeframe:     %s\n", r.Timeframe)
	if r.Dataset != "" {
		fmt.Fprintf(w, "Dataset:       %s\n", r.Dataset)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Bars:          %d\n", r.Bars)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate*100)
	fmt.Fprintf(w, "Streaks:       %d wins / %d losses\n", r.MaxConsecWins, r.MaxConsecLosses)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.ReturnPct)
	fmt.Fprintf(w, "Avg Win:       %.2f%%\n", r.AvgWinPct)
	fmt.Fprintf(w, "Avg Loss:      %.2f%%\n", r.AvgLossPct)
	if r.Trades > 0 {
		fmt.Fprintf(w, "Profit Factor: %s\n", profitFactor(r.ProfitFactor))
	}
	if r.MaxDDPct > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDDPct)
	}
	fmt.Fprintf(w, "Sharpe:        %.2f\n", r.Sharpe)
	fmt.Fprintf(w, "Open Position: %s\n", r.OpenPosition)

	if r.OrgPath != "" {
		fmt.Fprintf(w, "Org Report:    %s\n", r.OrgPath)
	}

	if len(r.Notes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Observations")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, note := range r.Notes {
			fmt.Fprintf(w, "- %s\n", note)
		}
	}

	if len(r.NextActions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Next Actions")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, action := range r.NextActions {
			fmt.Fprintf(w, "- [ ] %s\n", action)
		}
	}

	fmt.Fprintln(w)
}
