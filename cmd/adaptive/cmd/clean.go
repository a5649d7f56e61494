package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/adaptive/pricing"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>...",
	Short: "Convert raw downloaded candle files to the canonical layout",
	Long: `Clean rewrites raw downloads (three metadata rows, then
date,close,high,low,open,volume) in place as date,open,high,low,close,volume.

A file that fails is reported and the remaining files are still cleaned.

Examples:
  adaptive clean data/processed/AAPL_1y.csv
  adaptive clean --glob 'data/processed/*.csv'`,
	RunE: runClean,
}

var cleanGlob string

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVar(&cleanGlob, "glob", "", "clean every file matching this pattern")
}

func runClean(cmd *cobra.Command, args []string) error {
	files := args
	if cleanGlob != "" {
		matches, err := filepath.Glob(cleanGlob)
		if err != nil {
			return fmt.Errorf("glob: %w", err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to clean")
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range files {
		n, err := pricing.CleanCSV(path, path)
		if err != nil {
			failed++
			log.Error().Err(err).Str("file", path).Msg("clean failed")
			fmt.Fprintf(out, "✗ %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "✓ Cleaned %s (%d candles)\n", path, n)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
