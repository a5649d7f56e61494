package performance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/adaptive/indicators"
	"github.com/rustyeddy/adaptive/pricing"
	"github.com/rustyeddy/adaptive/strategies"
)

func TestFromPnL_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Summary{NoTrades: true}, FromPnL(nil))
	assert.Equal(t, Summary{NoTrades: true}, Compute(nil))
}

func TestFromPnL(t *testing.T) {
	t.Parallel()

	s := FromPnL([]float64{0.02, 0.03, -0.01, 0.01, -0.02, -0.01, 0})
	assert.False(t, s.NoTrades)
	assert.Equal(t, 7, s.TotalTrades)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 3, s.Losses)
	assert.InDelta(t, 3.0/7.0, s.WinRate, 1e-12)
	assert.InDelta(t, 2.0, s.TotalReturnPct, 1e-9)
	assert.InDelta(t, 2.0, s.AvgWinPct, 1e-9)
	assert.InDelta(t, -4.0/3.0, s.AvgLossPct, 1e-9)
	assert.InDelta(t, 0.06/0.04, s.ProfitFactor, 1e-9)
	assert.Equal(t, 2, s.MaxConsecutiveWins)
	assert.Equal(t, 2, s.MaxConsecutiveLosses)

	// equity 1.02 1.05 1.04 1.05 1.03 1.02 1.02: worst fall 1.05 -> 1.02
	assert.InDelta(t, 0.03/1.05*100, s.MaxDrawdownPct, 1e-9)
	assert.NotZero(t, s.Sharpe)
}

func TestFromPnL_ProfitFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pnls []float64
		want float64
	}{
		{"no losses", []float64{0.01, 0.02}, math.Inf(1)},
		{"no wins", []float64{-0.01, -0.02}, 0},
		{"only scratches", []float64{0, 0}, 0},
		{"balanced", []float64{0.02, -0.02}, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FromPnL(tt.pnls).ProfitFactor)
		})
	}
}

func TestFromPnL_Streaks(t *testing.T) {
	t.Parallel()

	// alternating results never build a streak longer than one
	s := FromPnL([]float64{0.01, -0.01, 0.01, -0.01})
	assert.Equal(t, 1, s.MaxConsecutiveWins)
	assert.Equal(t, 1, s.MaxConsecutiveLosses)

	// a scratch trade breaks a run
	s = FromPnL([]float64{-0.01, -0.01, 0, -0.01, 0.02, 0.02, 0.02})
	assert.Equal(t, 3, s.MaxConsecutiveWins)
	assert.Equal(t, 2, s.MaxConsecutiveLosses)
}

func TestFromPnL_Sharpe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, FromPnL([]float64{0.05}).Sharpe)
	assert.Equal(t, 0.0, FromPnL([]float64{0.25, 0.25, 0.25}).Sharpe)

	// mean 0.02, sample stddev 0.01
	s := FromPnL([]float64{0.01, 0.02, 0.03})
	assert.InDelta(t, 2*math.Sqrt(252), s.Sharpe, 1e-9)
}

func TestCompute_RoundTrip(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]pricing.Candle, 400)
	for i := range candles {
		c := 100 + 8*math.Sin(float64(i)/6)
		candles[i] = pricing.Candle{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1}
	}
	series, err := indicators.Compute(candles)
	require.NoError(t, err)

	_, trades, err := strategies.New().Execute(series)
	require.NoError(t, err)
	require.NotEmpty(t, trades)

	sum := 0.0
	for _, tr := range trades {
		sum += tr.PnLPct
	}
	s := Compute(trades)
	assert.Equal(t, len(trades), s.TotalTrades)
	assert.InDelta(t, 100*sum, s.TotalReturnPct, 1e-9)
	assert.Equal(t, s.TotalTrades, s.Wins+s.Losses+countScratches(trades))
}

func countScratches(trades []strategies.Trade) int {
	n := 0
	for _, t := range trades {
		if t.PnLPct == 0 {
			n++
		}
	}
	return n
}
