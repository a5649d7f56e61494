// Package risk sizes positions and places their protective levels.
package risk

// Policy holds the volatility multiples used for sizing, stops and trailing.
// The strategy runs on DefaultPolicy; the fields exist so each rule reads
// by name rather than as a bare number.
type Policy struct {
	// Sizing
	BaseSize    float64 // 0.1 of capital
	MaxSize     float64 // 0.25 of capital
	MinVolMult  float64 // 0.3
	VolPenalty  float64 // 20 x (range / close)
	MinStrength float64 // 0.5 at zero strength
	StrengthMul float64 // +1.5 at full strength

	// Initial stops, in multiples of the true range
	StopRange   float64 // 2
	TargetRange float64 // 3

	// Trailing
	TrailTrigger float64 // 2.0
	TrailBuffer  float64 // 1.5
}

func DefaultPolicy() Policy {
	return Policy{
		BaseSize:     0.1,
		MaxSize:      0.25,
		MinVolMult:   0.3,
		VolPenalty:   20,
		MinStrength:  0.5,
		StrengthMul:  1.5,
		StopRange:    2,
		TargetRange:  3,
		TrailTrigger: 2.0,
		TrailBuffer:  1.5,
	}
}
