package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/adaptive/config"
	"github.com/rustyeddy/adaptive/journal"
	"github.com/rustyeddy/adaptive/pricing"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "none.env")))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSymbolFromPath(t *testing.T) {
	tests := map[string]string{
		"data/processed/AAPL_1y.csv": "AAPL",
		"msft.csv":                   "MSFT",
		"/tmp/spy_6mo_clean.csv":     "SPY",
		"noext":                      "NOEXT",
	}
	for in, want := range tests {
		assert.Equal(t, want, symbolFromPath(in), in)
	}
}

func TestOrgPathFor(t *testing.T) {
	assert.Equal(t, "report.org", orgPathFor("report.org", "aapl", 1))
	assert.Equal(t, "out/report_AAPL.org", orgPathFor("out/report.org", "aapl", 3))
}

func TestBacktestJobs(t *testing.T) {
	c := config.Default()
	c.Data.Symbols = []string{"AAPL", "MSFT"}
	c.Report.OrgPath = "r.org"

	jobs, err := backtestJobs(c, nil)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "MSFT", jobs[1].Symbol)
	assert.Equal(t, "1y", jobs[1].Period)
	assert.Empty(t, jobs[1].Path)
	assert.Equal(t, "r_MSFT.org", jobs[1].OrgPath)

	// Explicit files win over configured symbols.
	jobs, err = backtestJobs(c, []string{"x/SPY_2y.csv"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "SPY", jobs[0].Symbol)
	assert.Equal(t, "x/SPY_2y.csv", jobs[0].Path)
	assert.Equal(t, "r.org", jobs[0].OrgPath)

	c.Data.Symbols = nil
	_, err = backtestJobs(c, nil)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "adaptive version "+version)
}

// TestWorkflow drives sample generation, a journaled backtest and the
// journal queries end to end.
func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "SAMPLE_1y.csv")
	db := filepath.Join(dir, "runs.db")
	org := filepath.Join(dir, "report.org")
	prom := filepath.Join(dir, "adaptive.prom")

	_, err := execute(t, "sample", "--days", "300", "--seed", "7", "--out", data)
	require.NoError(t, err)
	candles, err := pricing.LoadCSV(data)
	require.NoError(t, err)
	require.Len(t, candles, 300)

	out, err := execute(t, "backtest",
		"--data-dir", dir, "--symbol", "sample", "--period", "1y",
		"--db", db, "--trace", "--org", org, "--metrics-file", prom,
		"--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "ALGORITHM PERFORMANCE SUMMARY: SAMPLE")
	assert.Contains(t, out, "Org report: "+org)
	assert.FileExists(t, org)

	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(b), `adaptive_bars_total{symbol="SAMPLE"} 300`)

	j, err := journal.NewSQLite(db)
	require.NoError(t, err)
	runs, err := j.ListRuns(context.Background())
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.Len(t, runs, 1)
	runID := runs[0].RunID

	out, err = execute(t, "journal", "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "SAMPLE")

	out, err = execute(t, "journal", "run", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Run ID:        "+runID)

	out, err = execute(t, "journal", "trace", runID, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, 301, strings.Count(strings.TrimSpace(out), "\n")+1, "header plus one row per bar")

	out, err = execute(t, "journal", "org", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, ":RUN_ID:      "+runID)

	_, err = execute(t, "journal", "run", "nope", "--db", db)
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adaptive.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Journal: sqlite")
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "AAPL_1y.csv")
	raw := "Price,Close,High,Low,Open,Volume\n" +
		"Ticker,AAPL,AAPL,AAPL,AAPL,AAPL\n" +
		"Date,,,,,\n" +
		"2024-01-02,185.6,188.4,183.9,187.1,82488700\n" +
		"2024-01-03,184.2,185.9,183.4,184.2,58414500\n"
	require.NoError(t, os.WriteFile(good, []byte(raw), 0o644))

	out, err := execute(t, "clean", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleaned "+good+" (2 candles)")

	candles, err := pricing.LoadCSV(good)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, 187.1, candles[0].Open)
	assert.Equal(t, 185.6, candles[0].Close)

	_, err = execute(t, "clean", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SAMPLE_1y.csv")
	_, err := execute(t, "sample", "--days", "30", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, "gaps", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Present Days: 30")
	assert.Contains(t, out, "Total Gaps: 0")
}
