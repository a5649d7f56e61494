package cmd

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/adaptive/backtest"
	"github.com/rustyeddy/adaptive/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the backtest journal",
	Long: `Query and display runs, trades and decision traces from the SQLite journal.

Subcommands:
  runs   - List recorded runs, newest first
  run    - Show a single run
  trades - List the trades of a run
  trace  - Show the per-bar decision trace of a run
  org    - Write the Org-mode report of a run

Examples:
  adaptive journal runs --db runs.db
  adaptive journal trades 01J0Z3... --db runs.db
  adaptive journal org 01J0Z3... -o report.org`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show a single run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "List the trades of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalTraceCmd = &cobra.Command{
	Use:   "trace <run-id>",
	Short: "Show the decision trace of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrace,
}

var journalOrgCmd = &cobra.Command{
	Use:   "org <run-id>",
	Short: "Write the Org-mode report of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalOrg,
}

var (
	journalDBPath string
	journalOrgOut string
	journalActive bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalTraceCmd)
	journalCmd.AddCommand(journalOrgCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default from config)")
	journalOrgCmd.Flags().StringVarP(&journalOrgOut, "output", "o", "", "write to this file instead of stdout")
	journalTraceCmd.Flags().BoolVar(&journalActive, "active", false, "only bars with an action other than WAIT")
}

func openReader() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal: use --db")
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openReader()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tINSTRUMENT\tBARS\tTRADES\tWIN %\tRETURN %\tOPEN")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.1f\t%.2f\t%s\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.Instrument,
			r.Bars, r.Trades, r.WinRate*100, r.ReturnPct, r.OpenPosition)
	}
	return tw.Flush()
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := openReader()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetBacktestRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	backtest.PrintBacktestRun(cmd.OutOrStdout(), run)
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openReader()
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTradesByRunID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(trades))
	return nil
}

func runJournalTrace(cmd *cobra.Command, args []string) error {
	j, err := openReader()
	if err != nil {
		return err
	}
	defer j.Close()

	ds, err := j.ListDecisionsByRunID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("query trace: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BAR\tDATE\tCLOSE\tREGIME\tSIGNAL\tPOS\tACTION\tSTOP\tTARGET\tREASON")
	for _, d := range ds {
		if journalActive && d.Action == "WAIT" {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%+.1f\t%+d\t%s\t%s\t%s\t%s\n",
			d.Index, d.Time.Format("2006-01-02"), d.Close, d.Regime, d.Signal,
			d.Position, d.Action, level(d.StopLoss), level(d.TakeProfit), d.PrimaryReason)
	}
	return tw.Flush()
}

func level(x float64) string {
	if math.IsNaN(x) {
		return "-"
	}
	return fmt.Sprintf("%.2f", x)
}

func runJournalOrg(cmd *cobra.Command, args []string) error {
	j, err := openReader()
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	run, err := j.GetBacktestRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	trades, err := j.ListTradesByRunID(ctx, run.RunID)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if journalOrgOut == "" {
		return run.WriteOrg(cmd.OutOrStdout(), trades)
	}
	run.OrgPath = journalOrgOut
	if err := run.WriteOrgFile(trades); err != nil {
		return fmt.Errorf("write org: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", journalOrgOut)
	return nil
}
