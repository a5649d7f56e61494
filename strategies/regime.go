package strategies

import (
	"math"

	"github.com/rustyeddy/adaptive/indicators"
)

// Regime labels the trend and volatility character of the market at a bar.
type Regime string

const (
	StrongUptrend   Regime = "STRONG_UPTREND"
	StrongDowntrend Regime = "STRONG_DOWNTREND"
	Trending        Regime = "TRENDING"
	Ranging         Regime = "RANGING"
	HighVolatility  Regime = "HIGH_VOLATILITY"
	Neutral         Regime = "NEUTRAL"
)

// MeanReverting reports whether mean reversion leads in this regime.
func (r Regime) MeanReverting() bool {
	return r == Ranging || r == Neutral
}

const (
	regimeMinBars   = 50
	regimeWindow    = 21
	slopeLookback   = 9 // tenth bar of the window counting back from i
	adxTrendLevel   = 25
	slopeRangeRatio = 0.1
	narrowBands     = 0.8
	wideBands       = 1.2
)

// Classify returns the regime at bar i from the trailing 21-bar window.
// Before 50 bars of history it is always Neutral.
func Classify(s *indicators.Series, i int) (Regime, error) {
	if i < regimeMinBars {
		return Neutral, nil
	}

	v := valuer{s: s, i: i}
	sma := v.get(indicators.FieldSMA20, 0)
	smaBack := v.get(indicators.FieldSMA20, slopeLookback)
	close := v.get(indicators.FieldClose, 0)
	sma200 := v.get(indicators.FieldSMA200, 0)
	adx := v.get(indicators.FieldADX, 0)
	atr := v.get(indicators.FieldATR, 0)
	width := v.get(indicators.FieldBBWidth, 0)

	widthSum, n := 0.0, 0
	for k := 0; k < regimeWindow; k++ {
		w := v.get(indicators.FieldBBWidth, k)
		if !math.IsNaN(w) {
			widthSum += w
			n++
		}
	}
	if v.err != nil {
		return "", v.err
	}
	widthAvg := math.NaN()
	if n > 0 {
		widthAvg = widthSum / float64(n)
	}

	slope := (sma - smaBack) / 10
	// a missing long average counts as price not above it
	aboveLong := close > sma200

	switch {
	case adx > adxTrendLevel && math.Abs(slope) > atr*slopeRangeRatio:
		switch {
		case slope > 0 && aboveLong:
			return StrongUptrend, nil
		case slope < 0 && !aboveLong:
			return StrongDowntrend, nil
		default:
			return Trending, nil
		}
	case width < widthAvg*narrowBands:
		return Ranging, nil
	case width > widthAvg*wideBands:
		return HighVolatility, nil
	default:
		return Neutral, nil
	}
}

// valuer reads series values relative to bar i and keeps the first error,
// so a run of lookups can be checked once.
type valuer struct {
	s   *indicators.Series
	i   int
	err error
}

func (v *valuer) get(f indicators.Field, back int) float64 {
	if v.err != nil {
		return math.NaN()
	}
	x, err := v.s.Value(f, v.i-back)
	if err != nil {
		v.err = err
		return math.NaN()
	}
	return x
}
