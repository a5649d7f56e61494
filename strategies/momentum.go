package strategies

import (
	"math"

	"github.com/rustyeddy/adaptive/indicators"
)

// Momentum follows trends: an EMA(12/26) or MACD crossover confirmed by a
// 5-bar price move of more than 1%.
type Momentum struct{}

func (Momentum) Name() string { return "momentum" }

const (
	momentumLookback  = 5
	momentumThreshold = 0.01
)

func (Momentum) Signal(s *indicators.Series, i int) (Signal, error) {
	if i < 26 {
		return insufficient(), nil
	}

	v := valuer{s: s, i: i}
	macd := v.get(indicators.FieldMACDDiff, 0) - v.get(indicators.FieldMACDSignal, 0)
	lastMACD := v.get(indicators.FieldMACDDiff, 1) - v.get(indicators.FieldMACDSignal, 1)
	ema := v.get(indicators.FieldEMA12, 0) - v.get(indicators.FieldEMA26, 0)
	lastEMA := v.get(indicators.FieldEMA12, 1) - v.get(indicators.FieldEMA26, 1)
	close := v.get(indicators.FieldClose, 0)
	past := v.get(indicators.FieldClose, momentumLookback)
	if v.err != nil {
		return Signal{}, v.err
	}

	// Cross logic, as in EMA cross:
	// - Bull cross: diff goes from <=0 to >0
	// - Bear cross: diff goes from >=0 to <0
	// The bearish MACD cross keeps the bullish "previous <= 0" side, so it
	// fires on any bar where the histogram stays below zero.
	macdBull := macd > 0 && lastMACD <= 0
	macdBear := macd < 0 && lastMACD <= 0
	emaBull := ema > 0 && lastEMA <= 0
	emaBear := ema < 0 && lastEMA >= 0

	change := (close - past) / past

	switch {
	case (macdBull || emaBull) && change > momentumThreshold:
		return Signal{
			Direction: Long,
			Strength:  math.Min(math.Abs(change)*10, 1),
			Reason:    "momentum_bullish",
		}, nil
	case (macdBear || emaBear) && change < -momentumThreshold:
		return Signal{
			Direction: Short,
			Strength:  math.Min(math.Abs(change)*10, 1),
			Reason:    "momentum_bearish",
		}, nil
	}
	return Signal{}, nil
}
