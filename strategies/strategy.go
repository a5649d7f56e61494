// Package strategies implements the adaptive regime strategy: a regime
// classifier, two signal generators, the combiner that arbitrates between
// them and the per-bar execution loop that owns the position.
package strategies

import (
	"fmt"

	"github.com/rustyeddy/adaptive/indicators"
)

// Generator produces a directional signal for bar i of an enriched series.
// Generators only look at bars <= i. The error is always indicators.ErrMalformed.
type Generator interface {
	Name() string
	Signal(s *indicators.Series, i int) (Signal, error)
}

// GeneratorByName returns one of the built-in generators.
func GeneratorByName(name string) (Generator, error) {
	switch name {
	case "mean-reversion", "meanrev":
		return MeanReversion{}, nil
	case "momentum":
		return Momentum{}, nil
	case "noop", "none":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown generator %q (supported: mean-reversion, momentum, noop)", name)
	}
}

// Noop never signals. It stands in for the secondary generator in
// mean-reverting regimes.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Signal(*indicators.Series, int) (Signal, error) {
	return Signal{}, nil
}
