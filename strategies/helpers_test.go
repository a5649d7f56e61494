package strategies

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/adaptive/indicators"
	"github.com/rustyeddy/adaptive/pricing"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// quietBars builds n hand-made bars whose every field is defined and whose
// indicators give no signal and a NEUTRAL regime.
func quietBars(n int) []indicators.Bar {
	bars := make([]indicators.Bar, n)
	for i := range bars {
		bars[i] = indicators.Bar{
			Time: t0.AddDate(0, 0, i),
			Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000,
			SMA20: 100, SMA50: 100, SMA200: 100,
			EMA12: 100, EMA26: 100,
			ATR:     1,
			BBUpper: 102, BBMiddle: 100, BBLower: 98, BBWidth: 0.04,
			RSI:      50,
			ADX:      10,
			PriceStd: 1,
			OBV:      1000, VolumeSMA: 1000,
		}
	}
	return bars
}

func candlesFrom(closes []float64, spread func(c float64) (hi, lo float64)) []pricing.Candle {
	out := make([]pricing.Candle, len(closes))
	for i, c := range closes {
		hi, lo := spread(c)
		out[i] = pricing.Candle{
			Instrument: "TEST",
			Time:       t0.AddDate(0, 0, i),
			Open:       c, High: hi, Low: lo, Close: c,
			Volume: 1000,
		}
	}
	return out
}

func compute(t *testing.T, candles []pricing.Candle) *indicators.Series {
	t.Helper()
	s, err := indicators.Compute(candles)
	require.NoError(t, err)
	return s
}

// waveSeries oscillates around 100 so that both generators fire, both
// directions are traded and every exit reason occurs.
func waveSeries(t *testing.T, n int) *indicators.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 8*math.Sin(float64(i)/6)
	}
	return compute(t, candlesFrom(closes, func(c float64) (float64, float64) { return c + 1, c - 1 }))
}

func flatSeries(t *testing.T, n int) *indicators.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	return compute(t, candlesFrom(closes, func(c float64) (float64, float64) { return c, c }))
}
