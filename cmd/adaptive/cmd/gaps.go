package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/adaptive/pricing"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps <file>...",
	Short: "Report missing days in candle files",
	Long: `Gaps lists the holes in daily candle files. Weekends are expected, a single
missing weekday is a minor gap (usually a holiday), anything longer is
suspicious.

Example:
  adaptive gaps data/processed/AAPL_1y.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGaps,
}

var gapsList bool

func init() {
	rootCmd.AddCommand(gapsCmd)

	gapsCmd.Flags().BoolVarP(&gapsList, "list", "l", false, "list every non-weekend gap")
}

func runGaps(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, path := range args {
		candles, err := pricing.LoadCSV(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", path)
		pricing.PrintStats(out, pricing.Stats(candles))
		if gapsList {
			for _, g := range pricing.Gaps(candles) {
				if g.Kind == pricing.GapWeekend {
					continue
				}
				fmt.Fprintf(out, "  %s  %d days  %s\n", g.From.Format("2006-01-02"), g.Len, g.Kind)
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}
