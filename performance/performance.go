// Package performance reduces a trade log to summary statistics.
package performance

import (
	"math"

	"github.com/rustyeddy/adaptive/strategies"
)

// TradingDays annualises the per-trade Sharpe ratio.
const TradingDays = 252

// Summary of a trade log. Percentages are in percent, PnL inputs are
// fractions. NoTrades is set (and nothing else) for an empty log.
type Summary struct {
	NoTrades bool

	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64

	TotalReturnPct float64
	AvgWinPct      float64
	AvgLossPct     float64
	ProfitFactor   float64

	MaxConsecutiveWins   int
	MaxConsecutiveLosses int

	MaxDrawdownPct float64
	Sharpe         float64
}

// Compute summarizes closed trades in the order they were booked.
func Compute(trades []strategies.Trade) Summary {
	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.PnLPct
	}
	return FromPnL(pnls)
}

// FromPnL summarizes a sequence of per-trade returns given as fractions.
func FromPnL(pnls []float64) Summary {
	if len(pnls) == 0 {
		return Summary{NoTrades: true}
	}

	s := Summary{TotalTrades: len(pnls)}

	var grossWin, grossLoss, total float64
	var winRun, lossRun int
	for _, p := range pnls {
		total += p
		switch {
		case p > 0:
			s.Wins++
			grossWin += p
			winRun++
			lossRun = 0
		case p < 0:
			s.Losses++
			grossLoss += p
			lossRun++
			winRun = 0
		default:
			winRun, lossRun = 0, 0
		}
		s.MaxConsecutiveWins = max(s.MaxConsecutiveWins, winRun)
		s.MaxConsecutiveLosses = max(s.MaxConsecutiveLosses, lossRun)
	}

	s.WinRate = float64(s.Wins) / float64(s.TotalTrades)
	s.TotalReturnPct = total * 100
	if s.Wins > 0 {
		s.AvgWinPct = grossWin / float64(s.Wins) * 100
	}
	if s.Losses > 0 {
		s.AvgLossPct = grossLoss / float64(s.Losses) * 100
	}

	switch {
	case s.Losses > 0:
		s.ProfitFactor = grossWin / math.Abs(grossLoss)
	case s.Wins > 0:
		s.ProfitFactor = math.Inf(1)
	}

	s.MaxDrawdownPct = maxDrawdown(pnls) * 100
	s.Sharpe = sharpe(pnls)
	return s
}

// maxDrawdown is the largest peak-to-trough fall of the additive equity
// curve 1 + cumulative PnL, as a fraction of the peak.
func maxDrawdown(pnls []float64) float64 {
	equity, peak, worst := 1.0, 1.0, 0.0
	for _, p := range pnls {
		equity += p
		peak = math.Max(peak, equity)
		worst = math.Max(worst, (peak-equity)/peak)
	}
	return worst
}

func sharpe(pnls []float64) float64 {
	n := float64(len(pnls))
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, p := range pnls {
		mean += p
	}
	mean /= n

	ss := 0.0
	for _, p := range pnls {
		ss += (p - mean) * (p - mean)
	}
	sd := math.Sqrt(ss / (n - 1))
	if sd == 0 {
		return 0
	}
	return mean / sd * math.Sqrt(TradingDays)
}
