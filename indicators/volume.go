package indicators

import (
	"fmt"

	"github.com/rustyeddy/adaptive/pricing"
)

// StdDev is the rolling sample standard deviation of closes.
type StdDev struct {
	period int
	w      window
}

func NewStdDev(period int) *StdDev {
	return &StdDev{period: period, w: newWindow(period)}
}

func (s *StdDev) Name() string            { return fmt.Sprintf("STD(%d)", s.period) }
func (s *StdDev) Warmup() int             { return s.period }
func (s *StdDev) Reset()                  { s.w.reset() }
func (s *StdDev) Update(c pricing.Candle) { s.w.push(c.Close) }
func (s *StdDev) Ready() bool             { return s.w.full() }

func (s *StdDev) Value() float64 {
	if !s.Ready() {
		return 0
	}
	return s.w.std(1)
}

// OBV is on-balance volume. Volume is subtracted on a lower close and
// added otherwise, so the first candle seeds the total with its volume.
type OBV struct {
	obv       float64
	prevClose float64
	count     int
}

func NewOBV() *OBV { return &OBV{} }

func (o *OBV) Name() string { return "OBV" }
func (o *OBV) Warmup() int  { return 1 }
func (o *OBV) Reset()       { *o = OBV{} }
func (o *OBV) Ready() bool  { return o.count > 0 }

func (o *OBV) Update(c pricing.Candle) {
	if o.count > 0 && c.Close < o.prevClose {
		o.obv -= c.Volume
	} else {
		o.obv += c.Volume
	}
	o.prevClose = c.Close
	o.count++
}

func (o *OBV) Value() float64 {
	return o.obv
}
