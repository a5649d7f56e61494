package strategies

import "math"

// Direction is the side of a signal or position.
type Direction int8

const (
	Short Direction = -1
	Flat  Direction = 0
	Long  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// Signal is one generator's verdict for a bar.
type Signal struct {
	Direction Direction
	Strength  float64 // [0,1]
	Reason    string
}

func insufficient() Signal {
	return Signal{Reason: "insufficient_data"}
}

// Combined is the arbitrated decision for a bar. Weak marks a direction
// that came from the secondary generator only.
type Combined struct {
	Direction Direction
	Strength  float64
	Weak      bool
}

// Value is the signed signal level: ±1 for a primary signal, ±0.5 for a
// weak one and 0 for none.
func (c Combined) Value() float64 {
	v := float64(c.Direction)
	if c.Weak {
		v *= 0.5
	}
	return v
}

// Opposes reports whether c is a strong enough signal against dir to close
// a position on it.
func (c Combined) Opposes(dir Direction) bool {
	switch dir {
	case Long:
		return c.Value() < -0.5
	case Short:
		return c.Value() > 0.5
	}
	return false
}

// Combine merges the primary and secondary signals. The secondary only sets
// the direction when the primary is flat, and then only weakly; its
// strength counts half.
func Combine(primary, secondary Signal) Combined {
	c := Combined{
		Direction: primary.Direction,
		Strength:  math.Max(primary.Strength, secondary.Strength*0.5),
	}
	if primary.Direction == Flat && secondary.Direction != Flat {
		c.Direction = secondary.Direction
		c.Weak = true
	}
	return c
}
