package indicators

import (
	"fmt"

	"github.com/rustyeddy/adaptive/pricing"
)

// MACD is the moving average convergence/divergence of closes.
//
// The MACD line is fast EMA minus slow EMA. The signal line is an EMA of
// the MACD line that starts once the slow EMA is ready. Value returns the
// histogram (MACD minus signal).
type MACD struct {
	fast, slow, signal int

	fastEMA   *ExponentialMA
	slowEMA   *ExponentialMA
	signalEMA *ExponentialMA
}

func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fast:      fast,
		slow:      slow,
		signal:    signal,
		fastEMA:   NewEMA(fast),
		slowEMA:   NewEMA(slow),
		signalEMA: NewEMA(signal),
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fast, m.slow, m.signal)
}

func (m *MACD) Warmup() int {
	return m.slow + m.signal - 1
}

func (m *MACD) Reset() {
	m.fastEMA.Reset()
	m.slowEMA.Reset()
	m.signalEMA.Reset()
}

func (m *MACD) Update(c pricing.Candle) {
	m.fastEMA.Update(c)
	m.slowEMA.Update(c)
	if m.slowEMA.Ready() {
		m.signalEMA.UpdateValue(m.Line())
	}
}

func (m *MACD) Ready() bool {
	return m.signalEMA.Ready()
}

// Line returns fast EMA minus slow EMA, or 0 before the slow EMA is ready.
func (m *MACD) Line() float64 {
	if !m.slowEMA.Ready() {
		return 0
	}
	return m.fastEMA.Value() - m.slowEMA.Value()
}

// Signal returns the smoothed MACD line.
func (m *MACD) Signal() float64 {
	return m.signalEMA.Value()
}

func (m *MACD) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.Line() - m.Signal()
}
