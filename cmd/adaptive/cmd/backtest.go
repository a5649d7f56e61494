package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/adaptive/backtest"
	"github.com/rustyeddy/adaptive/config"
	"github.com/rustyeddy/adaptive/journal"
	"github.com/rustyeddy/adaptive/metrics"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the adaptive strategy over historical candles",
	Long: `Backtest runs the adaptive strategy over one or more candle files.

Candles are read from explicit --data files, or from
<data-dir>/<SYMBOL>_<period>.csv for every --symbol. Instruments run
concurrently, each with its own strategy instance.

Examples:
  adaptive backtest --data data/processed/AAPL_1y.csv
  adaptive backtest --symbol AAPL,MSFT --period 2y --db runs.db --trace
  adaptive backtest --symbol SPY --csv-dir out --org spy.org`,
	RunE: runBacktest,
}

var (
	btData        []string
	btSymbols     []string
	btPeriod      string
	btDataDir     string
	btDBPath      string
	btCSVDir      string
	btNoJournal   bool
	btTrace       bool
	btOrgPath     string
	btMetricsFile string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringArrayVar(&btData, "data", nil, "candle CSV file (repeatable)")
	backtestCmd.Flags().StringSliceVarP(&btSymbols, "symbol", "s", nil, "symbols to load from the data dir")
	backtestCmd.Flags().StringVarP(&btPeriod, "period", "p", "", "period suffix of the candle files (e.g. 1y)")
	backtestCmd.Flags().StringVar(&btDataDir, "data-dir", "", "directory holding <SYMBOL>_<period>.csv files")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "journal runs to this SQLite DB")
	backtestCmd.Flags().StringVar(&btCSVDir, "csv-dir", "", "journal runs as CSV files in this directory")
	backtestCmd.Flags().BoolVar(&btNoJournal, "no-journal", false, "do not journal the run")
	backtestCmd.Flags().BoolVar(&btTrace, "trace", false, "journal the per-bar decision trace")
	backtestCmd.Flags().StringVar(&btOrgPath, "org", "", "write an Org-mode report")
	backtestCmd.Flags().StringVar(&btMetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")

	backtestCmd.MarkFlagsMutuallyExclusive("db", "csv-dir", "no-journal")
}

func applyBacktestFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("symbol") {
		cfg.Data.Symbols = btSymbols
	}
	if flags.Changed("period") {
		cfg.Data.Period = btPeriod
	}
	if flags.Changed("data-dir") {
		cfg.Data.Dir = btDataDir
	}
	switch {
	case flags.Changed("db"):
		cfg.Journal.Type, cfg.Journal.DBPath = "sqlite", btDBPath
	case flags.Changed("csv-dir"):
		cfg.Journal.Type, cfg.Journal.CSVDir = "csv", btCSVDir
	case btNoJournal:
		cfg.Journal.Type = "none"
	}
	if flags.Changed("trace") {
		cfg.Journal.Trace = btTrace
	}
	if flags.Changed("org") {
		cfg.Report.OrgPath = btOrgPath
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = btMetricsFile
	}
	return cfg.Validate()
}

// backtestJobs builds one job per --data file, or else one per symbol.
func backtestJobs(c *config.Config, files []string) ([]backtest.Job, error) {
	var jobs []backtest.Job
	for _, path := range files {
		jobs = append(jobs, backtest.Job{
			Symbol: symbolFromPath(path),
			Period: c.Data.Period,
			Path:   path,
		})
	}
	if len(jobs) == 0 {
		for _, sym := range c.Data.Symbols {
			jobs = append(jobs, backtest.Job{Symbol: sym, Period: c.Data.Period})
		}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("nothing to backtest: use --data or --symbol")
	}

	if c.Report.OrgPath != "" {
		for i := range jobs {
			jobs[i].OrgPath = orgPathFor(c.Report.OrgPath, jobs[i].Symbol, len(jobs))
		}
	}
	return jobs, nil
}

// symbolFromPath maps data/AAPL_1y.csv to AAPL.
func symbolFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.Index(base, "_"); i > 0 {
		base = base[:i]
	}
	return strings.ToUpper(base)
}

// orgPathFor gives every instrument its own report when several run at once.
func orgPathFor(path, symbol string, jobs int) string {
	if jobs == 1 {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + strings.ToUpper(symbol) + ext
}

func openJournal(c *config.Config) (journal.Journal, error) {
	switch c.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(c.Journal.DBPath)
	case "csv":
		return journal.NewCSV(c.Journal.CSVDir)
	default:
		return nil, nil
	}
}

func runBacktest(cmd *cobra.Command, args []string) error {
	if err := applyBacktestFlags(cmd); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	jobs, err := backtestJobs(cfg, btData)
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Log:     log,
		DataDir: cfg.Data.Dir,
		Trace:   cfg.Journal.Trace,
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
		runner.Journal = j
	}
	if cfg.Metrics.Textfile != "" {
		runner.Metrics = metrics.New()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log.Info().Int("jobs", len(jobs)).Str("journal", cfg.Journal.Type).Msg("starting backtest")
	results, err := runner.RunAll(ctx, jobs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, res := range results {
		backtest.PrintResult(out, res)
		if jobs[i].OrgPath != "" {
			fmt.Fprintf(out, "Org report: %s\n\n", jobs[i].OrgPath)
		}
	}

	if runner.Metrics != nil {
		if err := runner.Metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
