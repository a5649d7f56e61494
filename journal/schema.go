package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	dataset TEXT NOT NULL,
	strategy TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	bars INTEGER NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	return_pct REAL NOT NULL,
	avg_win_pct REAL NOT NULL,
	avg_loss_pct REAL NOT NULL,
	profit_factor REAL NOT NULL,
	max_consec_wins INTEGER NOT NULL,
	max_consec_losses INTEGER NOT NULL,
	max_dd_pct REAL NOT NULL,
	sharpe REAL NOT NULL,
	open_position TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	instrument TEXT NOT NULL,
	direction TEXT NOT NULL,
	size REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	pnl_pct REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	entry_index INTEGER NOT NULL,
	exit_index INTEGER NOT NULL,
	regime TEXT NOT NULL,
	planned_rr REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, exit_index);

CREATE TABLE IF NOT EXISTS decisions (
	run_id TEXT NOT NULL,
	bar INTEGER NOT NULL,
	time DATETIME NOT NULL,
	close REAL NOT NULL,
	regime TEXT NOT NULL,
	signal REAL NOT NULL,
	strength REAL NOT NULL,
	position INTEGER NOT NULL,
	action TEXT NOT NULL,
	entry_price REAL,
	stop_loss REAL,
	take_profit REAL,
	trailing_active INTEGER NOT NULL,
	primary_reason TEXT NOT NULL,
	secondary_reason TEXT NOT NULL,
	PRIMARY KEY (run_id, bar)
);
`
