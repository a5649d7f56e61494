package strategies

import (
	"fmt"
	"math"

	"github.com/rustyeddy/adaptive/indicators"
)

// MeanReversion fades stretched moves: price far outside its 20-bar mean,
// confirmed by RSI and position inside the Bollinger bands. The z-score
// threshold widens with volatility.
type MeanReversion struct{}

func (MeanReversion) Name() string { return "mean-reversion" }

func (MeanReversion) Signal(s *indicators.Series, i int) (Signal, error) {
	if i < 20 {
		return insufficient(), nil
	}

	v := valuer{s: s, i: i}
	z := v.get(indicators.FieldZScore, 0)
	rsi := v.get(indicators.FieldRSI, 0)
	close := v.get(indicators.FieldClose, 0)
	upper := v.get(indicators.FieldBBUpper, 0)
	lower := v.get(indicators.FieldBBLower, 0)
	atr := v.get(indicators.FieldATR, 0)
	if v.err != nil {
		return Signal{}, v.err
	}

	// collapsed bands put price in the middle
	bbPos := 0.5
	if upper != lower {
		bbPos = (close - lower) / (upper - lower)
	}

	volFactor := math.Min(atr/close*100, 3)
	threshold := 1.5 + volFactor*0.3

	switch {
	case z < -threshold && rsi < 35 && bbPos < 0.2:
		return Signal{
			Direction: Long,
			Strength:  math.Min(math.Abs(z)/3, 1),
			Reason:    fmt.Sprintf("oversold: z=%.2f, rsi=%.1f", z, rsi),
		}, nil
	case z > threshold && rsi > 65 && bbPos > 0.8:
		return Signal{
			Direction: Short,
			Strength:  math.Min(math.Abs(z)/3, 1),
			Reason:    fmt.Sprintf("overbought: z=%.2f, rsi=%.1f", z, rsi),
		}, nil
	}
	return Signal{}, nil
}
