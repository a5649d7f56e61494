package journal

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	open := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	close := time.Date(2024, 3, 18, 14, 20, 30, 0, time.UTC)

	trade := TradeRecord{
		TradeID:    "01HS8J2K9XW4",
		RunID:      "01HS8J2K00",
		Instrument: "AAPL",
		Direction:  "LONG",
		Size:       0.125,
		EntryPrice: 185.5,
		ExitPrice:  190.25,
		PnLPct:     0.0256,
		OpenTime:   open,
		CloseTime:  close,
		Regime:     "STRONG_UPTREND",
		PlannedRR:  1.5,
		Reason:     "EXIT_PROFIT",
	}

	result := FormatTradeOrg(trade)

	assert.Contains(t, result, "** Trade: AAPL LONG (01HS8J2K)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 01HS8J2K9XW4")
	assert.Contains(t, result, ":RUN_ID: 01HS8J2K00")
	assert.Contains(t, result, ":SIZE: 0.1250")
	assert.Contains(t, result, ":ENTRY_PRICE: 185.50000")
	assert.Contains(t, result, ":EXIT_PRICE: 190.25000")
	assert.Contains(t, result, ":OPEN_TIME: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":CLOSE_TIME: 2024-03-18T14:20:30Z")
	assert.Contains(t, result, ":PNL_PCT: 2.56")
	assert.Contains(t, result, ":REGIME: STRONG_UPTREND")
	assert.Contains(t, result, ":REASON: EXIT_PROFIT")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatTradesOrg(nil))

	out := FormatTradesOrg([]TradeRecord{{TradeID: "a"}, {TradeID: "b"}})
	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Contains(t, out, "\n\n\n** Trade:")
}

func TestWriteOrg(t *testing.T) {
	t.Parallel()

	run := sampleRun("R42", time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC))
	run.Notes = []string{"choppy first quarter"}
	run.NextActions = []string{"rerun on 2y"}

	var buf bytes.Buffer
	require.NoError(t, run.WriteOrg(&buf, []TradeRecord{
		{Direction: "LONG", EntryPrice: 100, ExitPrice: 102, PnLPct: 0.02, Reason: "EXIT_PROFIT", Regime: "NEUTRAL"},
	}))
	out := buf.String()

	assert.Contains(t, out, "* BACKTEST: adaptive AAPL 1y")
	assert.Contains(t, out, ":RUN_ID:      R42")
	assert.Contains(t, out, ":START_DATE:  2023-01-01")
	assert.Contains(t, out, ":PROFIT_FAC:  inf")
	assert.Contains(t, out, ":CREATED:     [2024-05-06 Mon 07:08]")
	assert.Contains(t, out, "- Win Rate:         *100.00%*")
	assert.Contains(t, out, "| LONG | 100.0000 | 102.0000 | 2.00 | EXIT_PROFIT | NEUTRAL |")
	assert.Contains(t, out, "- choppy first quarter")
	assert.Contains(t, out, "- [ ] rerun on 2y")
}

func TestWriteOrgFile(t *testing.T) {
	t.Parallel()

	run := sampleRun("R1", time.Now())
	run.ProfitFactor = 2
	assert.Error(t, run.WriteOrgFile(nil))

	run.OrgPath = filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, run.WriteOrgFile(nil))

	data, err := os.ReadFile(run.OrgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":PROFIT_FAC:  2.00")
	assert.NotContains(t, string(data), "** Trades")
	assert.False(t, math.IsNaN(run.ReturnPct))
}
