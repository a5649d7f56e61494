package strategies

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/adaptive/indicators"
	"github.com/rustyeddy/adaptive/risk"
)

// ErrAlreadyRun is returned when an Adaptive instance is executed twice.
var ErrAlreadyRun = errors.New("strategies: algorithm instance already executed")

// Action is what the loop did at a bar.
type Action string

const (
	ActionWait       Action = "WAIT"
	ActionBuy        Action = "BUY"
	ActionSell       Action = "SELL"
	ActionHold       Action = "HOLD"
	ActionExitStop   Action = "EXIT_STOP"
	ActionExitProfit Action = "EXIT_PROFIT"
	ActionExitSignal Action = "EXIT_SIGNAL"
)

func (a Action) IsExit() bool {
	return strings.HasPrefix(string(a), "EXIT")
}

// Position is the single live position. The zero value is flat; stops are
// only meaningful while Direction != Flat.
type Position struct {
	Direction         Direction
	EntryPrice        float64
	StopLoss          float64
	TakeProfit        float64
	TrailingActivated bool

	Size        float64 // fraction of capital
	EntryIndex  int
	EntryTime   time.Time
	EntryRegime Regime
	PlannedRR   float64
}

// Trade is a closed position. Trades are only ever appended.
type Trade struct {
	Direction  Direction
	EntryPrice float64
	ExitPrice  float64
	PnLPct     float64 // fraction of entry price
	ExitReason Action

	EntryTime  time.Time
	ExitTime   time.Time
	EntryIndex int
	ExitIndex  int
	Size       float64
	Regime     Regime // at entry
	PlannedRR  float64
}

// BarResult is one row of the decision trace. EntryPrice, StopLoss,
// TakeProfit and Size are NaN while flat.
type BarResult struct {
	Index    int
	Time     time.Time
	Close    float64
	Regime   Regime
	Signal   Combined
	Strength float64
	Position Direction
	Action   Action

	EntryPrice     float64
	StopLoss       float64
	TakeProfit     float64
	Size           float64
	TrailingActive bool

	PrimaryReason   string
	SecondaryReason string
}

// State is everything the loop carries from one bar to the next.
type State struct {
	Position Position
	Trades   []Trade
}

// Adaptive switches between mean reversion and momentum according to the
// market regime and manages one position at a time.
//
// Step is stateless apart from the State it is handed. Execute runs a whole
// series and may only be called once per instance.
type Adaptive struct {
	Policy risk.Policy
	Log    zerolog.Logger

	meanRev  Generator
	momentum Generator
	none     Generator

	ran atomic.Bool
}

func New() *Adaptive {
	return &Adaptive{
		Policy:   risk.DefaultPolicy(),
		Log:      zerolog.Nop(),
		meanRev:  MeanReversion{},
		momentum: Momentum{},
		none:     Noop{},
	}
}

// Execute runs the loop over every bar of s in order and returns one
// BarResult per bar plus the closed trades. A position still open after the
// last bar is left open. Malformed input aborts the run.
func (a *Adaptive) Execute(s *indicators.Series) ([]BarResult, []Trade, error) {
	if !a.ran.CompareAndSwap(false, true) {
		return nil, nil, ErrAlreadyRun
	}

	var st State
	results := make([]BarResult, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		r, err := a.Step(&st, s, i)
		if err != nil {
			return nil, nil, fmt.Errorf("bar %d: %w", i, err)
		}
		results = append(results, r)
	}

	a.Log.Debug().
		Str("symbol", s.Symbol).
		Int("bars", s.Len()).
		Int("trades", len(st.Trades)).
		Str("open", st.Position.Direction.String()).
		Msg("strategy executed")

	return results, st.Trades, nil
}

// Step advances st by bar i. Bars must be fed in order.
func (a *Adaptive) Step(st *State, s *indicators.Series, i int) (BarResult, error) {
	v := valuer{s: s, i: i}
	close := v.get(indicators.FieldClose, 0)
	if v.err != nil {
		return BarResult{}, v.err
	}

	regime, err := Classify(s, i)
	if err != nil {
		return BarResult{}, err
	}

	primaryGen, secondaryGen := a.momentum, a.meanRev
	if regime.MeanReverting() {
		primaryGen, secondaryGen = a.meanRev, a.none
	}
	primary, err := primaryGen.Signal(s, i)
	if err != nil {
		return BarResult{}, err
	}
	secondary, err := secondaryGen.Signal(s, i)
	if err != nil {
		return BarResult{}, err
	}
	sig := Combine(primary, secondary)

	action := ActionWait
	pos := &st.Position
	bar := s.Bars[i]

	switch {
	case pos.Direction == Flat && sig.Direction != Flat:
		atr := v.get(indicators.FieldATR, 0)
		sma20 := v.get(indicators.FieldSMA20, 0)
		if v.err != nil {
			return BarResult{}, v.err
		}
		action, err = a.open(pos, sig, regime, i, bar.Time, close, atr, sma20)
		if err != nil {
			return BarResult{}, err
		}
		a.Log.Debug().
			Str("symbol", s.Symbol).
			Int("bar", i).
			Str("action", string(action)).
			Str("regime", string(regime)).
			Float64("entry", pos.EntryPrice).
			Float64("stop", pos.StopLoss).
			Float64("target", pos.TakeProfit).
			Float64("size", pos.Size).
			Msg("position opened")

	case pos.Direction != Flat:
		atr := v.get(indicators.FieldATR, 0)
		if v.err != nil {
			return BarResult{}, v.err
		}
		stop, activated := a.Policy.Trail(int(pos.Direction), pos.EntryPrice, pos.StopLoss, close, atr)
		pos.StopLoss = stop
		pos.TrailingActivated = pos.TrailingActivated || activated

		action = exitAction(pos, close, sig)
		if action.IsExit() {
			t := closeTrade(pos, action, i, bar.Time, close)
			st.Trades = append(st.Trades, t)
			*pos = Position{}
			a.Log.Debug().
				Str("symbol", s.Symbol).
				Int("bar", i).
				Str("action", string(action)).
				Float64("exit", close).
				Float64("pnl_pct", t.PnLPct).
				Msg("position closed")
		}
	}

	r := BarResult{
		Index:           i,
		Time:            bar.Time,
		Close:           close,
		Regime:          regime,
		Signal:          sig,
		Strength:        sig.Strength,
		Position:        pos.Direction,
		Action:          action,
		EntryPrice:      math.NaN(),
		StopLoss:        math.NaN(),
		TakeProfit:      math.NaN(),
		Size:            math.NaN(),
		PrimaryReason:   primary.Reason,
		SecondaryReason: secondary.Reason,
	}
	if pos.Direction != Flat {
		r.EntryPrice = pos.EntryPrice
		r.StopLoss = pos.StopLoss
		r.TakeProfit = pos.TakeProfit
		r.Size = pos.Size
		r.TrailingActive = pos.TrailingActivated
	}
	return r, nil
}

func (a *Adaptive) open(pos *Position, sig Combined, regime Regime, i int, t time.Time, close, atr, sma20 float64) (Action, error) {
	d := risk.Evaluate(a.Policy, risk.Intent{
		Direction: int(sig.Direction),
		Entry:     close,
		ATR:       atr,
		SMA20:     sma20,
		Strength:  sig.Strength,
	})
	if !d.Allowed {
		return "", fmt.Errorf("entry rejected: %s", d.Violations[0].Msg)
	}
	for _, w := range d.Warnings {
		a.Log.Debug().Int("bar", i).Str("code", w.Code).Msg(w.Msg)
	}

	*pos = Position{
		Direction:   sig.Direction,
		EntryPrice:  close,
		StopLoss:    d.Stop,
		TakeProfit:  d.TakeProfit,
		Size:        d.Size,
		EntryIndex:  i,
		EntryTime:   t,
		EntryRegime: regime,
		PlannedRR:   d.PlannedRR,
	}
	if sig.Direction == Long {
		return ActionBuy, nil
	}
	return ActionSell, nil
}

// exitAction checks, in order, stop-loss, take-profit and an opposing signal.
func exitAction(pos *Position, close float64, sig Combined) Action {
	long := pos.Direction == Long
	switch {
	case (long && close <= pos.StopLoss) || (!long && close >= pos.StopLoss):
		return ActionExitStop
	case (long && close >= pos.TakeProfit) || (!long && close <= pos.TakeProfit):
		return ActionExitProfit
	case sig.Opposes(pos.Direction):
		return ActionExitSignal
	}
	return ActionHold
}

// closeTrade books pos, which is still in the direction being closed.
func closeTrade(pos *Position, reason Action, i int, t time.Time, exit float64) Trade {
	pnl := (exit - pos.EntryPrice) / pos.EntryPrice
	if pos.Direction == Short {
		pnl = -pnl
	}
	return Trade{
		Direction:  pos.Direction,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exit,
		PnLPct:     pnl,
		ExitReason: reason,
		EntryTime:  pos.EntryTime,
		ExitTime:   t,
		EntryIndex: pos.EntryIndex,
		ExitIndex:  i,
		Size:       pos.Size,
		Regime:     pos.EntryRegime,
		PlannedRR:  pos.PlannedRR,
	}
}
