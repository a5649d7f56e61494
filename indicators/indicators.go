// Package indicators provides technical analysis indicators for trading
// and the enriched bar series the strategy loop consumes.
package indicators

import "github.com/rustyeddy/adaptive/pricing"

// Indicator computes a single streaming value from candles.
// It is deterministic: the same candles always produce the same values.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* candle and updates internal state.
	Update(c pricing.Candle)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool
}

type ValueF64 interface {
	// Value returns the current indicator value. If !Ready(), it returns 0;
	// callers should always check Ready().
	Value() float64
}

// Source extracts the input an indicator tracks from a candle.
type Source func(c pricing.Candle) float64

func Close(c pricing.Candle) float64  { return c.Close }
func Volume(c pricing.Candle) float64 { return c.Volume }
