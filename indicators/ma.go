package indicators

import (
	"fmt"

	"github.com/rustyeddy/adaptive/pricing"
)

// MA calculates the Simple Moving Average of closes for the given period.
func MA(candles []pricing.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < period {
		return 0, fmt.Errorf("not enough candles: need %d, got %d", period, len(candles))
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average of closes for the given period.
// The average starts at the first close and is only reported once period
// candles have been seen.
func EMA(candles []pricing.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < period {
		return 0, fmt.Errorf("not enough candles: need %d, got %d", period, len(candles))
	}

	alpha := 2.0 / float64(period+1)
	ema := candles[0].Close
	for i := 1; i < len(candles); i++ {
		ema = alpha*candles[i].Close + (1-alpha)*ema
	}
	return ema, nil
}

// SimpleMA is a streaming Simple Moving Average indicator
type SimpleMA struct {
	period int
	src    Source
	w      window
}

// NewMA creates a new Simple Moving Average of closes with the given period
func NewMA(period int) *SimpleMA {
	return NewMAOf(period, Close)
}

// NewMAOf creates a Simple Moving Average over an arbitrary candle source.
func NewMAOf(period int, src Source) *SimpleMA {
	return &SimpleMA{
		period: period,
		src:    src,
		w:      newWindow(period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.w.reset()
}

func (m *SimpleMA) Update(c pricing.Candle) {
	m.w.push(m.src(c))
}

func (m *SimpleMA) Ready() bool {
	return m.w.full()
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.w.mean()
}

// ExponentialMA is a streaming Exponential Moving Average indicator.
// It is seeded with the first value and smoothed with alpha = 2/(period+1);
// Ready turns true after period updates.
type ExponentialMA struct {
	period int
	alpha  float64
	ema    float64
	count  int
}

// NewEMA creates a new Exponential Moving Average indicator with the given period
func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
}

func (e *ExponentialMA) Update(c pricing.Candle) {
	e.UpdateValue(c.Close)
}

// UpdateValue feeds a raw value, used when the EMA smooths another series.
func (e *ExponentialMA) UpdateValue(v float64) {
	if e.count == 0 {
		e.ema = v
	} else {
		e.ema = e.alpha*v + (1-e.alpha)*e.ema
	}
	e.count++
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}
