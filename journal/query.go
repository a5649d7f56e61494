package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `run_id, created, instrument, timeframe, dataset, strategy, start_time, end_time,
	bars, trades, wins, losses, win_rate, return_pct, avg_win_pct, avg_loss_pct,
	profit_factor, max_consec_wins, max_consec_losses, max_dd_pct, sharpe, open_position`

const tradeColumns = `trade_id, run_id, instrument, direction, size, entry_price, exit_price, pnl_pct,
	open_time, close_time, entry_index, exit_index, regime, planned_rr, reason`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (BacktestRun, error) {
	var r BacktestRun
	err := s.Scan(
		&r.RunID, &r.Created, &r.Instrument, &r.Timeframe, &r.Dataset, &r.Strategy, &r.Start, &r.End,
		&r.Bars, &r.Trades, &r.Wins, &r.Losses, &r.WinRate, &r.ReturnPct, &r.AvgWinPct, &r.AvgLossPct,
		&r.ProfitFactor, &r.MaxConsecWins, &r.MaxConsecLosses, &r.MaxDDPct, &r.Sharpe, &r.OpenPosition,
	)
	return r, err
}

func scanTrade(s scanner) (TradeRecord, error) {
	var t TradeRecord
	err := s.Scan(
		&t.TradeID, &t.RunID, &t.Instrument, &t.Direction, &t.Size, &t.EntryPrice, &t.ExitPrice, &t.PnLPct,
		&t.OpenTime, &t.CloseTime, &t.EntryIndex, &t.ExitIndex, &t.Regime, &t.PlannedRR, &t.Reason,
	)
	return t, err
}

// ListRuns returns every run, newest first.
func (j *SQLite) ListRuns(ctx context.Context) ([]BacktestRun, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created DESC, run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BacktestRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) GetBacktestRun(ctx context.Context, runID string) (BacktestRun, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BacktestRun{}, fmt.Errorf("run %q: %w", runID, ErrNotFound)
	}
	return r, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	return t, err
}

// ListTradesByRunID returns the trades of a run in the order they closed.
func (j *SQLite) ListTradesByRunID(ctx context.Context, runID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE run_id = ? ORDER BY exit_index ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDecisionsByRunID returns the decision trace of a run in bar order.
func (j *SQLite) ListDecisionsByRunID(ctx context.Context, runID string) ([]DecisionRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, bar, time, close, regime, signal, strength, position, action,
		       entry_price, stop_loss, take_profit, trailing_active, primary_reason, secondary_reason
		FROM decisions
		WHERE run_id = ?
		ORDER BY bar ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var (
			d                   DecisionRecord
			entry, stop, target sql.NullFloat64
		)
		if err := rows.Scan(
			&d.RunID, &d.Index, &d.Time, &d.Close, &d.Regime, &d.Signal, &d.Strength, &d.Position, &d.Action,
			&entry, &stop, &target, &d.TrailingActive, &d.PrimaryReason, &d.SecondaryReason,
		); err != nil {
			return nil, err
		}
		d.EntryPrice, d.StopLoss, d.TakeProfit = fromNull(entry), fromNull(stop), fromNull(target)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
