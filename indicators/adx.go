package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/adaptive/pricing"
)

// ADX implements Wilder's Average Directional Index (trend strength).
// Usage:
//
//	adx := indicators.NewADX(14)
//	adx.Update(candle)
//	if adx.Ready() && adx.Value() >= 25 { ... }
type ADX struct {
	period int

	prev     pricing.Candle
	havePrev bool

	// Wilder-smoothed values after warmup:
	trS  float64
	pdmS float64
	mdmS float64

	adx   float64
	dxSum float64

	// count of candles processed (including the first prev seed)
	count int
	ready bool
}

func NewADX(period int) *ADX {
	return &ADX{period: period}
}

func (a *ADX) Name() string {
	return fmt.Sprintf("ADX(%d)", a.period)
}

// Warmup is the number of candles before the first ADX value:
// one seed candle, period candles to seed TR/DM, then period DX values.
func (a *ADX) Warmup() int {
	return 2*a.period + 1
}

func (a *ADX) Reset() {
	*a = ADX{period: a.period}
}

func (a *ADX) Ready() bool {
	return a.ready
}

func (a *ADX) Value() float64 {
	if !a.ready {
		return 0
	}
	return a.adx
}

func (a *ADX) Update(c pricing.Candle) {
	// Seed previous candle
	if !a.havePrev {
		a.prev = c
		a.havePrev = true
		a.count = 1
		return
	}

	// 1) Directional movement using current vs previous highs/lows
	upMove := c.High - a.prev.High
	downMove := a.prev.Low - c.Low

	var pdm, mdm float64
	if upMove > downMove && upMove > 0 {
		pdm = upMove
	}
	if downMove > upMove && downMove > 0 {
		mdm = downMove
	}

	// 2) True Range
	tr := trueRange(c, a.prev)

	a.prev = c
	a.count++

	p := float64(a.period)

	// Warmup phase A: accumulate initial averages up to period samples.
	if a.count <= a.period+1 {
		a.trS += tr
		a.pdmS += pdm
		a.mdmS += mdm
		if a.count == a.period+1 {
			a.trS /= p
			a.pdmS /= p
			a.mdmS /= p
		}
		return
	}

	// 3) Wilder smoothing for TR/+DM/-DM
	a.trS = (a.trS*(p-1) + tr) / p
	a.pdmS = (a.pdmS*(p-1) + pdm) / p
	a.mdmS = (a.mdmS*(p-1) + mdm) / p

	// 4) DI and DX. A market with no range or no directional movement has DX 0.
	dx := 0.0
	if a.trS > 0 {
		pdi := 100.0 * a.pdmS / a.trS
		mdi := 100.0 * a.mdmS / a.trS
		if den := pdi + mdi; den > 0 {
			dx = 100 * math.Abs(pdi-mdi) / den
		}
	}

	// Warmup phase B: seed ADX with the average of the first period DX values.
	firstDXCount := a.period + 2
	seedADXCount := 2*a.period + 1

	if !a.ready {
		if a.count >= firstDXCount && a.count <= seedADXCount {
			a.dxSum += dx
		}
		if a.count == seedADXCount {
			a.adx = a.dxSum / p
			a.ready = true
		}
		return
	}

	// 5) Wilder smoothing for ADX
	a.adx = (a.adx*(p-1) + dx) / p
}
