// Package pricing holds raw OHLCV candles and the CSV plumbing that loads them.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrEmpty is returned when a data source yields no candles.
var ErrEmpty = errors.New("pricing: no candles")

type Candle struct {
	Instrument string // optional but handy
	Time       time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume float64 // optional
}

// Validate reports whether the candle can be fed to the indicator provider.
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("candle %s: non-finite value", c.Time.Format(time.RFC3339))
		}
	}
	if c.Close <= 0 {
		return fmt.Errorf("candle %s: close must be positive, got %v", c.Time.Format(time.RFC3339), c.Close)
	}
	if c.High < c.Low {
		return fmt.Errorf("candle %s: high %v below low %v", c.Time.Format(time.RFC3339), c.High, c.Low)
	}
	return nil
}
