package journal

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

var (
	runsHeader = []string{"run_id", "created", "instrument", "timeframe", "dataset", "strategy", "start", "end",
		"bars", "trades", "wins", "losses", "win_rate", "return_pct", "avg_win_pct", "avg_loss_pct",
		"profit_factor", "max_consec_wins", "max_consec_losses", "max_dd_pct", "sharpe", "open_position"}
	tradesHeader = []string{"trade_id", "run_id", "instrument", "direction", "size", "entry_price", "exit_price", "pnl_pct",
		"open_time", "close_time", "entry_index", "exit_index", "regime", "planned_rr", "reason"}
	decisionsHeader = []string{"run_id", "bar", "time", "close", "regime", "signal", "strength", "position", "action",
		"entry_price", "stop_loss", "take_profit", "trailing_active", "primary_reason", "secondary_reason"}
)

// CSVJournal writes runs.csv, trades.csv and decisions.csv into a directory.
type CSVJournal struct {
	mu        sync.Mutex
	runs      *csv.Writer
	trades    *csv.Writer
	decisions *csv.Writer
	files     []*os.File
}

func NewCSV(dir string) (*CSVJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	j := &CSVJournal{}
	open := func(name string, header []string) (*csv.Writer, error) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		j.files = append(j.files, f)
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		w.Flush()
		return w, w.Error()
	}

	var err error
	if j.runs, err = open("runs.csv", runsHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.trades, err = open("trades.csv", tradesHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.decisions, err = open("decisions.csv", decisionsHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordRun(_ context.Context, r BacktestRun) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return writeRow(j.runs, []string{
		r.RunID,
		r.Created.UTC().Format(time.RFC3339),
		r.Instrument,
		r.Timeframe,
		r.Dataset,
		r.Strategy,
		r.Start.UTC().Format(time.RFC3339),
		r.End.UTC().Format(time.RFC3339),
		strconv.Itoa(r.Bars),
		strconv.Itoa(r.Trades),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		f(r.WinRate),
		f(r.ReturnPct),
		f(r.AvgWinPct),
		f(r.AvgLossPct),
		f(r.ProfitFactor),
		strconv.Itoa(r.MaxConsecWins),
		strconv.Itoa(r.MaxConsecLosses),
		f(r.MaxDDPct),
		f(r.Sharpe),
		r.OpenPosition,
	})
}

func (j *CSVJournal) RecordTrade(_ context.Context, t TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return writeRow(j.trades, []string{
		t.TradeID,
		t.RunID,
		t.Instrument,
		t.Direction,
		f(t.Size),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.PnLPct),
		t.OpenTime.UTC().Format(time.RFC3339),
		t.CloseTime.UTC().Format(time.RFC3339),
		strconv.Itoa(t.EntryIndex),
		strconv.Itoa(t.ExitIndex),
		t.Regime,
		f(t.PlannedRR),
		t.Reason,
	})
}

func (j *CSVJournal) RecordDecisions(_ context.Context, ds []DecisionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, d := range ds {
		err := j.decisions.Write([]string{
			d.RunID,
			strconv.Itoa(d.Index),
			d.Time.UTC().Format(time.RFC3339),
			f(d.Close),
			d.Regime,
			f(d.Signal),
			f(d.Strength),
			strconv.Itoa(d.Position),
			d.Action,
			f(d.EntryPrice),
			f(d.StopLoss),
			f(d.TakeProfit),
			strconv.FormatBool(d.TrailingActive),
			d.PrimaryReason,
			d.SecondaryReason,
		})
		if err != nil {
			return err
		}
	}
	j.decisions.Flush()
	return j.decisions.Error()
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, w := range []*csv.Writer{j.runs, j.trades, j.decisions} {
		w.Flush()
		if err := w.Error(); err != nil {
			j.closeFiles()
			return err
		}
	}
	return j.closeFiles()
}

func (j *CSVJournal) closeFiles() error {
	var first error
	for _, fh := range j.files {
		if err := fh.Close(); err != nil && first == nil {
			first = err
		}
	}
	j.files = nil
	return first
}

func writeRow(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// f formats a float with 6 decimals; missing values are written empty.
func f(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}
