package risk

import "math"

// RR is the reward:risk ratio of a planned trade, 0 when there is no risk.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// RiskPct is the fraction of capital lost if the stop is hit, for a position
// of size (fraction of capital) opened at entry.
func RiskPct(size, entry, stop float64) float64 {
	if entry <= 0 {
		return math.Inf(1)
	}
	return size * math.Abs(entry-stop) / entry
}
