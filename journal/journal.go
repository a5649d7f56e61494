// Package journal persists backtest runs, their closed trades and the
// per-bar decision trace.
package journal

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a run or trade ID is unknown.
var ErrNotFound = errors.New("journal: not found")

// TradeRecord is one closed trade of a run.
type TradeRecord struct {
	TradeID    string
	RunID      string
	Instrument string
	Direction  string // LONG or SHORT
	Size       float64
	EntryPrice float64
	ExitPrice  float64
	PnLPct     float64 // fraction of entry price
	OpenTime   time.Time
	CloseTime  time.Time
	EntryIndex int
	ExitIndex  int
	Regime     string // at entry
	PlannedRR  float64
	Reason     string // exit action
}

// DecisionRecord is one bar of the decision trace. The price levels are
// NaN while flat.
type DecisionRecord struct {
	RunID           string
	Index           int
	Time            time.Time
	Close           float64
	Regime          string
	Signal          float64
	Strength        float64
	Position        int
	Action          string
	EntryPrice      float64
	StopLoss        float64
	TakeProfit      float64
	TrailingActive  bool
	PrimaryReason   string
	SecondaryReason string
}

// Journal receives everything a backtest produces. Implementations are safe
// for use by concurrent runs.
type Journal interface {
	RecordRun(ctx context.Context, run BacktestRun) error
	RecordTrade(ctx context.Context, t TradeRecord) error
	RecordDecisions(ctx context.Context, ds []DecisionRecord) error
	Close() error
}

// Reader is the query side, implemented by the SQLite journal.
type Reader interface {
	ListRuns(ctx context.Context) ([]BacktestRun, error)
	GetBacktestRun(ctx context.Context, runID string) (BacktestRun, error)
	ListTradesByRunID(ctx context.Context, runID string) ([]TradeRecord, error)
	ListDecisionsByRunID(ctx context.Context, runID string) ([]DecisionRecord, error)
}
