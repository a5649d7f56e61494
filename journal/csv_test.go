package journal

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	j, err := NewCSV(dir)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{runsHeader}, readCSV(t, filepath.Join(dir, "runs.csv")))
	assert.Equal(t, [][]string{tradesHeader}, readCSV(t, filepath.Join(dir, "trades.csv")))
	assert.Equal(t, [][]string{decisionsHeader}, readCSV(t, filepath.Join(dir, "decisions.csv")))
}

func TestCSVJournalRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)

	open := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	closeT := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)

	require.NoError(t, j.RecordTrade(ctx, TradeRecord{
		TradeID:    "T1",
		RunID:      "R1",
		Instrument: "AAPL",
		Direction:  "SHORT",
		Size:       0.1,
		EntryPrice: 1.2345678,
		ExitPrice:  1.3456789,
		PnLPct:     -0.09,
		OpenTime:   open,
		CloseTime:  closeT,
		EntryIndex: 3,
		ExitIndex:  9,
		Regime:     "TRENDING",
		PlannedRR:  1.5,
		Reason:     "EXIT_STOP",
	}))
	require.NoError(t, j.RecordDecisions(ctx, []DecisionRecord{
		{RunID: "R1", Index: 0, Time: open, Close: 1.2, Regime: "NEUTRAL", Action: "WAIT",
			EntryPrice: math.NaN(), StopLoss: math.NaN(), TakeProfit: math.NaN()},
	}))
	run := sampleRun("R1", open)
	require.NoError(t, j.RecordRun(ctx, run))
	require.NoError(t, j.Close())

	trades := readCSV(t, filepath.Join(dir, "trades.csv"))
	require.Len(t, trades, 2)
	assert.Equal(t, []string{
		"T1", "R1", "AAPL", "SHORT", "0.100000", "1.234568", "1.345679", "-0.090000",
		"2024-01-02T03:04:05Z", "2024-01-02T04:05:06Z", "3", "9", "TRENDING", "1.500000", "EXIT_STOP",
	}, trades[1])

	decisions := readCSV(t, filepath.Join(dir, "decisions.csv"))
	require.Len(t, decisions, 2)
	assert.Equal(t, "", decisions[1][9], "missing entry price is written empty")
	assert.Equal(t, "false", decisions[1][12])

	runs := readCSV(t, filepath.Join(dir, "runs.csv"))
	require.Len(t, runs, 2)
	assert.Equal(t, "R1", runs[1][0])
	assert.Equal(t, "+Inf", runs[1][16])
}

func TestCSVJournalBadDir(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewCSV(filepath.Join(file, "sub"))
	assert.Error(t, err)
}
