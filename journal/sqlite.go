package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one writer at a time; concurrent runs queue on the pool
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(ctx context.Context, r BacktestRun) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created, instrument, timeframe, dataset, strategy, start_time, end_time,
		 bars, trades, wins, losses, win_rate, return_pct, avg_win_pct, avg_loss_pct,
		 profit_factor, max_consec_wins, max_consec_losses, max_dd_pct, sharpe, open_position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Instrument, r.Timeframe, r.Dataset, r.Strategy, r.Start, r.End,
		r.Bars, r.Trades, r.Wins, r.Losses, r.WinRate, r.ReturnPct, r.AvgWinPct, r.AvgLossPct,
		r.ProfitFactor, r.MaxConsecWins, r.MaxConsecLosses, r.MaxDDPct, r.Sharpe, r.OpenPosition,
	)
	return err
}

func (j *SQLite) RecordTrade(ctx context.Context, t TradeRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, run_id, instrument, direction, size, entry_price, exit_price, pnl_pct,
		 open_time, close_time, entry_index, exit_index, regime, planned_rr, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Instrument, t.Direction, t.Size, t.EntryPrice, t.ExitPrice, t.PnLPct,
		t.OpenTime, t.CloseTime, t.EntryIndex, t.ExitIndex, t.Regime, t.PlannedRR, t.Reason,
	)
	return err
}

// RecordDecisions writes a whole trace in one transaction.
func (j *SQLite) RecordDecisions(ctx context.Context, ds []DecisionRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decisions
		(run_id, bar, time, close, regime, signal, strength, position, action,
		 entry_price, stop_loss, take_profit, trailing_active, primary_reason, secondary_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range ds {
		if _, err := stmt.ExecContext(ctx,
			d.RunID, d.Index, d.Time, d.Close, d.Regime, d.Signal, d.Strength, d.Position, d.Action,
			nullFloat(d.EntryPrice), nullFloat(d.StopLoss), nullFloat(d.TakeProfit),
			d.TrailingActive, d.PrimaryReason, d.SecondaryReason,
		); err != nil {
			return fmt.Errorf("journal: decision %d: %w", d.Index, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullFloat(x float64) sql.NullFloat64 {
	if math.IsNaN(x) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: x, Valid: true}
}

func fromNull(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}
