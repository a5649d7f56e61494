package indicators

import (
	"fmt"

	"github.com/rustyeddy/adaptive/pricing"
)

// Bollinger tracks Bollinger Bands: a simple moving average of closes with
// bands k population standard deviations above and below it.
type Bollinger struct {
	period int
	k      float64
	w      window
}

func NewBollinger(period int, k float64) *Bollinger {
	return &Bollinger{period: period, k: k, w: newWindow(period)}
}

func (b *Bollinger) Name() string {
	return fmt.Sprintf("BB(%d,%g)", b.period, b.k)
}

func (b *Bollinger) Warmup() int { return b.period }

func (b *Bollinger) Reset() { b.w.reset() }

func (b *Bollinger) Update(c pricing.Candle) { b.w.push(c.Close) }

func (b *Bollinger) Ready() bool { return b.w.full() }

// Bands returns upper, middle and lower. All zero before warmup.
func (b *Bollinger) Bands() (upper, middle, lower float64) {
	if !b.Ready() {
		return 0, 0, 0
	}
	middle = b.w.mean()
	sd := b.w.std(0)
	return middle + b.k*sd, middle, middle - b.k*sd
}

// Width is the band spread normalized by the middle band.
func (b *Bollinger) Width() float64 {
	upper, middle, lower := b.Bands()
	if middle == 0 {
		return 0
	}
	return (upper - lower) / middle
}

// Value returns the middle band.
func (b *Bollinger) Value() float64 {
	_, m, _ := b.Bands()
	return m
}
