package risk

import "math"

// Size converts signal strength and current volatility into a fraction of
// capital. strength is expected in [0,1]; atr and close come from the entry bar.
func (p Policy) Size(strength, atr, close float64) float64 {
	strengthMult := p.MinStrength + strength*p.StrengthMul
	volMult := math.Max(p.MinVolMult, 1-(atr/close)*p.VolPenalty)
	return math.Min(p.BaseSize*strengthMult*volMult, p.MaxSize)
}

// Stops returns the initial stop-loss and take-profit for a new position.
// dir is +1 for long and -1 for short. The target is never closer than the
// 20-bar mean for a long, and never above it for a short.
func (p Policy) Stops(dir int, entry, atr, sma20 float64) (stop, takeProfit float64) {
	if dir > 0 {
		stop = entry - p.StopRange*atr
		takeProfit = math.Max(entry+p.TargetRange*atr, sma20)
		return stop, takeProfit
	}
	stop = entry + p.StopRange*atr
	takeProfit = math.Min(entry-p.TargetRange*atr, sma20)
	return stop, takeProfit
}

// Trail tightens stop once price has moved more than TrailTrigger ranges in
// the position's favour. It never loosens: a long stop only rises, a short
// stop only falls. activated reports whether the trigger fired this bar.
func (p Policy) Trail(dir int, entry, stop, close, atr float64) (newStop float64, activated bool) {
	switch {
	case dir > 0:
		if close-entry > atr*p.TrailTrigger {
			return math.Max(stop, close-atr*p.TrailBuffer), true
		}
	case dir < 0:
		if entry-close > atr*p.TrailTrigger {
			return math.Min(stop, close+atr*p.TrailBuffer), true
		}
	}
	return stop, false
}
