package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	t.Parallel()

	long := Signal{Direction: Long, Strength: 0.8}
	short := Signal{Direction: Short, Strength: 0.6}
	none := Signal{}

	tests := []struct {
		name      string
		primary   Signal
		secondary Signal
		want      Combined
		value     float64
	}{
		{"primary wins", long, short, Combined{Direction: Long, Strength: 0.8}, 1},
		{"secondary is weak", none, short, Combined{Direction: Short, Strength: 0.3, Weak: true}, -0.5},
		{"nothing", none, none, Combined{}, 0},
		{"secondary strength halves", Signal{Direction: Short, Strength: 0.1}, long, Combined{Direction: Short, Strength: 0.4}, -1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Combine(tt.primary, tt.secondary)
			assert.Equal(t, tt.want.Direction, got.Direction)
			assert.Equal(t, tt.want.Weak, got.Weak)
			assert.InDelta(t, tt.want.Strength, got.Strength, 1e-12)
			assert.Equal(t, tt.value, got.Value())
		})
	}
}

func TestCombinedOpposes(t *testing.T) {
	t.Parallel()

	strongShort := Combined{Direction: Short}
	weakShort := Combined{Direction: Short, Weak: true}
	strongLong := Combined{Direction: Long}

	assert.True(t, strongShort.Opposes(Long))
	assert.False(t, weakShort.Opposes(Long), "a weak signal never closes a position")
	assert.False(t, strongLong.Opposes(Long))
	assert.True(t, strongLong.Opposes(Short))
	assert.False(t, strongLong.Opposes(Flat))
}

func TestDirectionAndAction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "LONG", Long.String())
	assert.Equal(t, "SHORT", Short.String())
	assert.Equal(t, "FLAT", Flat.String())

	for _, a := range []Action{ActionExitStop, ActionExitProfit, ActionExitSignal} {
		assert.True(t, a.IsExit(), a)
	}
	for _, a := range []Action{ActionWait, ActionBuy, ActionSell, ActionHold} {
		assert.False(t, a.IsExit(), a)
	}
}

func TestGeneratorByName(t *testing.T) {
	t.Parallel()

	g, err := GeneratorByName("momentum")
	assert.NoError(t, err)
	assert.Equal(t, "momentum", g.Name())

	g, err = GeneratorByName("meanrev")
	assert.NoError(t, err)
	assert.Equal(t, "mean-reversion", g.Name())

	_, err = GeneratorByName("martingale")
	assert.Error(t, err)

	sig, err := Noop{}.Signal(nil, 0)
	assert.NoError(t, err)
	assert.Equal(t, Signal{}, sig)
}
