package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	t.Run("long entry", func(t *testing.T) {
		d := Evaluate(p, Intent{Direction: 1, Entry: 100, ATR: 2, SMA20: 95, Strength: 1})
		require.True(t, d.Allowed)
		assert.Empty(t, d.Violations)
		assert.Empty(t, d.Warnings)
		assert.InDelta(t, 0.12, d.Size, 1e-12)
		assert.InDelta(t, 96.0, d.Stop, 1e-12)
		assert.InDelta(t, 106.0, d.TakeProfit, 1e-12)
		assert.InDelta(t, 1.5, d.PlannedRR, 1e-12)
		assert.InDelta(t, 0.12*0.04, d.PlannedRiskPct, 1e-12)
	})

	t.Run("zero range warns but allows", func(t *testing.T) {
		d := Evaluate(p, Intent{Direction: -1, Entry: 100, ATR: 0, SMA20: 100})
		assert.True(t, d.Allowed)
		require.Len(t, d.Warnings, 1)
		assert.Equal(t, "ZERO_RANGE", d.Warnings[0].Code)
		assert.Equal(t, 0.0, d.PlannedRR)
	})

	t.Run("rejects flat direction", func(t *testing.T) {
		d := Evaluate(p, Intent{Direction: 0, Entry: 100, ATR: 1})
		assert.False(t, d.Allowed)
		require.Len(t, d.Violations, 1)
		assert.Equal(t, "NO_DIRECTION", d.Violations[0].Code)
	})

	t.Run("rejects missing entry", func(t *testing.T) {
		d := Evaluate(p, Intent{Direction: 1, Entry: 0, ATR: 1})
		assert.False(t, d.Allowed)
		assert.Equal(t, "NO_ENTRY", d.Violations[0].Code)
	})
}
