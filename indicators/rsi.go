package indicators

import (
	"fmt"

	"github.com/rustyeddy/adaptive/pricing"
)

// RSI is Wilder's Relative Strength Index over closing prices.
//
// Gains and losses are smoothed with alpha = 1/period starting from the
// first candle, whose change counts as zero. The value is 100 when the
// average loss is zero.
type RSI struct {
	period int
	alpha  float64

	prevClose float64
	avgUp     float64
	avgDown   float64
	count     int
}

func NewRSI(period int) *RSI {
	return &RSI{period: period, alpha: 1.0 / float64(period)}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Warmup() int {
	return r.period
}

func (r *RSI) Reset() {
	*r = RSI{period: r.period, alpha: r.alpha}
}

func (r *RSI) Update(c pricing.Candle) {
	var up, down float64
	if r.count > 0 {
		d := c.Close - r.prevClose
		if d > 0 {
			up = d
		} else {
			down = -d
		}
	}
	if r.count == 0 {
		r.avgUp, r.avgDown = up, down
	} else {
		r.avgUp = r.alpha*up + (1-r.alpha)*r.avgUp
		r.avgDown = r.alpha*down + (1-r.alpha)*r.avgDown
	}
	r.prevClose = c.Close
	r.count++
}

func (r *RSI) Ready() bool {
	return r.count >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgDown == 0 {
		return 100
	}
	rs := r.avgUp / r.avgDown
	return 100 - 100/(1+rs)
}
