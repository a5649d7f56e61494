// Package backtest wires candles, indicators, the adaptive strategy, the
// journal and metrics into a single run.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/adaptive/config"
	"github.com/rustyeddy/adaptive/indicators"
	"github.com/rustyeddy/adaptive/internal/id"
	"github.com/rustyeddy/adaptive/journal"
	"github.com/rustyeddy/adaptive/metrics"
	"github.com/rustyeddy/adaptive/performance"
	"github.com/rustyeddy/adaptive/pricing"
	"github.com/rustyeddy/adaptive/strategies"
)

// StrategyName is recorded with every run.
const StrategyName = "adaptive"

// Job is one instrument to backtest. Candles, when set, are used as is;
// otherwise they are loaded from Path, or from <DataDir>/<SYMBOL>_<Period>.csv
// when Path is empty.
type Job struct {
	Symbol  string
	Period  string
	Path    string
	Candles []pricing.Candle

	// OrgPath, when set, receives an Org-mode report of the run.
	OrgPath string
}

// Result of one run.
type Result struct {
	RunID   string
	Symbol  string
	Period  string
	Dataset string

	Bars  int
	Start time.Time
	End   time.Time
	Gaps  pricing.GapStats

	Summary      performance.Summary
	Trades       []strategies.Trade
	Trace        []strategies.BarResult
	OpenPosition strategies.Direction

	Duration time.Duration
}

// Runner drives jobs through the strategy. Journal and Metrics are optional.
type Runner struct {
	Journal journal.Journal
	Metrics *metrics.Recorder
	Log     zerolog.Logger

	DataDir string
	// Trace journals the per-bar decision trace as well as trades.
	Trace bool
}

// Run executes a single job:
//  1. load candles
//  2. compute indicators
//  3. run the strategy loop
//  4. summarize, journal and count
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	job.Symbol = strings.ToUpper(strings.TrimSpace(job.Symbol))
	start := time.Now()
	res, err := r.run(ctx, job)
	res.Duration = time.Since(start)

	if r.Metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		r.Metrics.ObserveRun(job.Symbol, status, res.Duration)
	}
	if err != nil {
		r.Log.Error().Err(err).Str("symbol", job.Symbol).Msg("backtest failed")
		return Result{}, fmt.Errorf("backtest %s: %w", job.Symbol, err)
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, job Job) (Result, error) {
	if job.Symbol == "" {
		return Result{}, errors.New("symbol is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		Symbol: job.Symbol,
		Period: job.Period,
	}

	candles := job.Candles
	if candles == nil {
		path := job.Path
		if path == "" {
			path = config.CandlePath(r.DataDir, job.Symbol, job.Period)
		}
		var err error
		if candles, err = pricing.LoadCSV(path); err != nil {
			return Result{}, err
		}
		res.Dataset = path
	}

	series, err := indicators.Compute(candles)
	if err != nil {
		return Result{}, err
	}
	series.Symbol = res.Symbol
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	log := r.Log.With().Str("symbol", res.Symbol).Logger()
	res.Gaps = pricing.Stats(candles)
	if res.Gaps.SuspiciousGaps > 0 {
		log.Warn().
			Int("gaps", res.Gaps.SuspiciousGaps).
			Int("longest_days", res.Gaps.LongestGap).
			Msg("suspicious gaps in candle data")
	}
	alg := strategies.New()
	alg.Log = log

	trace, trades, err := alg.Execute(series)
	if err != nil {
		return Result{}, err
	}

	res.RunID = id.New()
	res.Bars = series.Len()
	res.Start = candles[0].Time
	res.End = candles[len(candles)-1].Time
	res.Summary = performance.Compute(trades)
	res.Trades = trades
	res.Trace = trace
	res.OpenPosition = trace[len(trace)-1].Position

	if err := r.record(ctx, job, res); err != nil {
		return Result{}, err
	}
	if r.Metrics != nil {
		r.count(res)
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("bars", res.Bars).
		Int("trades", len(trades)).
		Float64("return_pct", res.Summary.TotalReturnPct).
		Msg("backtest complete")
	return res, nil
}

// RunAll runs independent jobs concurrently, each with its own strategy
// instance. Results are returned in job order. The first failure cancels
// the jobs that have not finished yet.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := r.Run(ctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) record(ctx context.Context, job Job, res Result) error {
	run := BacktestRun(res)
	run.OrgPath = job.OrgPath

	var recs []journal.TradeRecord
	if r.Journal != nil || job.OrgPath != "" {
		recs = TradeRecords(res)
	}

	if r.Journal != nil {
		if err := r.Journal.RecordRun(ctx, run); err != nil {
			return fmt.Errorf("journal run: %w", err)
		}
		for _, rec := range recs {
			if err := r.Journal.RecordTrade(ctx, rec); err != nil {
				return fmt.Errorf("journal trade: %w", err)
			}
		}
		if r.Trace {
			if err := r.Journal.RecordDecisions(ctx, DecisionRecords(res)); err != nil {
				return fmt.Errorf("journal trace: %w", err)
			}
		}
	}

	if job.OrgPath != "" {
		if err := run.WriteOrgFile(recs); err != nil {
			return fmt.Errorf("org report: %w", err)
		}
	}
	return nil
}

func (r *Runner) count(res Result) {
	r.Metrics.AddBars(res.Symbol, res.Bars)
	for _, b := range res.Trace {
		r.Metrics.CountAction(res.Symbol, string(b.Action))
	}
	for _, t := range res.Trades {
		r.Metrics.CountTrade(res.Symbol, string(t.ExitReason))
	}
	r.Metrics.SetReturn(res.Symbol, res.Summary.TotalReturnPct)
}

// BacktestRun converts a result into the journal's run row.
func BacktestRun(res Result) journal.BacktestRun {
	s := res.Summary
	return journal.BacktestRun{
		RunID:           res.RunID,
		Created:         time.Now().UTC(),
		Timeframe:       res.Period,
		Dataset:         res.Dataset,
		Instrument:      res.Symbol,
		Strategy:        StrategyName,
		Start:           res.Start,
		End:             res.End,
		Bars:            res.Bars,
		Trades:          s.TotalTrades,
		Wins:            s.Wins,
		Losses:          s.Losses,
		WinRate:         s.WinRate,
		ReturnPct:       s.TotalReturnPct,
		AvgWinPct:       s.AvgWinPct,
		AvgLossPct:      s.AvgLossPct,
		ProfitFactor:    s.ProfitFactor,
		MaxConsecWins:   s.MaxConsecutiveWins,
		MaxConsecLosses: s.MaxConsecutiveLosses,
		MaxDDPct:        s.MaxDrawdownPct,
		Sharpe:          s.Sharpe,
		OpenPosition:    res.OpenPosition.String(),
	}
}

// TradeRecords gives every closed trade a ULID stamped with its exit time.
func TradeRecords(res Result) []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(res.Trades))
	for i, t := range res.Trades {
		out[i] = journal.TradeRecord{
			TradeID:    id.At(t.ExitTime),
			RunID:      res.RunID,
			Instrument: res.Symbol,
			Direction:  t.Direction.String(),
			Size:       t.Size,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			PnLPct:     t.PnLPct,
			OpenTime:   t.EntryTime,
			CloseTime:  t.ExitTime,
			EntryIndex: t.EntryIndex,
			ExitIndex:  t.ExitIndex,
			Regime:     string(t.Regime),
			PlannedRR:  t.PlannedRR,
			Reason:     string(t.ExitReason),
		}
	}
	return out
}

func DecisionRecords(res Result) []journal.DecisionRecord {
	out := make([]journal.DecisionRecord, len(res.Trace))
	for i, b := range res.Trace {
		out[i] = journal.DecisionRecord{
			RunID:           res.RunID,
			Index:           b.Index,
			Time:            b.Time,
			Close:           b.Close,
			Regime:          string(b.Regime),
			Signal:          b.Signal.Value(),
			Strength:        b.Strength,
			Position:        int(b.Position),
			Action:          string(b.Action),
			EntryPrice:      b.EntryPrice,
			StopLoss:        b.StopLoss,
			TakeProfit:      b.TakeProfit,
			TrailingActive:  b.TrailingActive,
			PrimaryReason:   b.PrimaryReason,
			SecondaryReason: b.SecondaryReason,
		}
	}
	return out
}
