package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func sampleRun(id string, created time.Time) BacktestRun {
	return BacktestRun{
		RunID:           id,
		Created:         created,
		Timeframe:       "1y",
		Dataset:         "data/processed/AAPL_1y.csv",
		Instrument:      "AAPL",
		Strategy:        "adaptive",
		Start:           time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		Bars:            365,
		Trades:          2,
		Wins:            2,
		WinRate:         1,
		ReturnPct:       3.5,
		AvgWinPct:       1.75,
		ProfitFactor:    math.Inf(1),
		MaxConsecWins:   2,
		OpenPosition:    "FLAT",
		MaxDDPct:        0,
		Sharpe:          12.3,
		MaxConsecLosses: 0,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','trades','decisions')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["trades"])
	assert.True(t, found["decisions"])
}

func TestSQLiteRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	older := sampleRun("R1", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	newer := sampleRun("R2", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	newer.ProfitFactor = 1.25
	require.NoError(t, j.RecordRun(ctx, older))
	require.NoError(t, j.RecordRun(ctx, newer))

	got, err := j.GetBacktestRun(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Instrument)
	assert.Equal(t, 365, got.Bars)
	assert.Equal(t, 3.5, got.ReturnPct)
	assert.True(t, math.IsInf(got.ProfitFactor, 1))
	assert.True(t, older.Start.Equal(got.Start))

	runs, err := j.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "R2", runs[0].RunID)
	assert.Equal(t, 1.25, runs[0].ProfitFactor)

	_, err = j.GetBacktestRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteTrades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	open := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	closeT := time.Date(2024, 1, 5, 4, 5, 6, 0, time.UTC)

	// inserted out of order on purpose
	for _, idx := range []int{30, 10, 20} {
		require.NoError(t, j.RecordTrade(ctx, TradeRecord{
			TradeID:    fmt.Sprintf("T%d", idx),
			RunID:      "R1",
			Instrument: "AAPL",
			Direction:  "LONG",
			Size:       0.12,
			EntryPrice: 100,
			ExitPrice:  103,
			PnLPct:     0.03,
			OpenTime:   open,
			CloseTime:  closeT,
			EntryIndex: idx - 5,
			ExitIndex:  idx,
			Regime:     "NEUTRAL",
			PlannedRR:  1.5,
			Reason:     "EXIT_PROFIT",
		}))
	}
	require.NoError(t, j.RecordTrade(ctx, TradeRecord{TradeID: "X", RunID: "R2", Direction: "SHORT", OpenTime: open, CloseTime: closeT}))

	trades, err := j.ListTradesByRunID(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, []string{"T10", "T20", "T30"}, []string{trades[0].TradeID, trades[1].TradeID, trades[2].TradeID})
	assert.Equal(t, 0.03, trades[0].PnLPct)
	assert.Equal(t, "EXIT_PROFIT", trades[0].Reason)
	assert.True(t, open.Equal(trades[0].OpenTime))

	tr, err := j.GetTrade(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "SHORT", tr.Direction)

	_, err = j.GetTrade(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteDecisions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := []DecisionRecord{
		{RunID: "R1", Index: 0, Time: t0, Close: 100, Regime: "NEUTRAL", Action: "WAIT",
			EntryPrice: math.NaN(), StopLoss: math.NaN(), TakeProfit: math.NaN(), PrimaryReason: "insufficient_data"},
		{RunID: "R1", Index: 1, Time: t0.AddDate(0, 0, 1), Close: 95, Regime: "RANGING", Signal: 1, Strength: 0.8,
			Position: 1, Action: "BUY", EntryPrice: 95, StopLoss: 93, TakeProfit: 100, PrimaryReason: "oversold: z=-2.50, rsi=30.0"},
	}
	require.NoError(t, j.RecordDecisions(ctx, ds))

	got, err := j.ListDecisionsByRunID(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, math.IsNaN(got[0].EntryPrice))
	assert.True(t, math.IsNaN(got[0].StopLoss))
	assert.Equal(t, "insufficient_data", got[0].PrimaryReason)

	assert.Equal(t, 1, got[1].Position)
	assert.Equal(t, "BUY", got[1].Action)
	assert.Equal(t, 93.0, got[1].StopLoss)
	assert.False(t, got[1].TrailingActive)

	// the primary key rejects a replayed trace and nothing is half-written
	assert.Error(t, j.RecordDecisions(ctx, ds))
	got, err = j.ListDecisionsByRunID(ctx, "R1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteConcurrentRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run := sampleRun(fmt.Sprintf("R%d", i), time.Now())
			assert.NoError(t, j.RecordRun(ctx, run))
		}(i)
	}
	wg.Wait()

	runs, err := j.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 8)
}
