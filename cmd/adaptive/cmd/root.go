package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/adaptive/config"
	"github.com/rustyeddy/adaptive/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "adaptive",
	Short: "Backtest a regime-switching trading strategy on daily candles",
	Long: `Adaptive classifies the market regime on every bar and switches between a
mean-reversion and a momentum signal, with volatility-scaled sizing and
ATR based stops.

It provides tools for:
  - Backtesting one or many instruments from CSV candle files
  - Journaling runs, trades and per-bar decisions to SQLite or CSV
  - Generating synthetic sample data and cleaning raw downloads
  - Org-mode reports and Prometheus textfile metrics`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile  string
	envFile  string
	logLevel string
	pretty   bool

	cfg *config.Config
	log zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with ADAPTIVE_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "human readable log output (default when stderr is a terminal)")
}

// loadConfig resolves defaults, then the config file, then the environment,
// then command line flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	switch {
	case flags.Changed("pretty"):
		cfg.Log.Pretty = pretty
	case isatty.IsTerminal(os.Stderr.Fd()):
		cfg.Log.Pretty = true
	}

	if cfg.Log.Pretty {
		log = logging.NewConsole(cfg.Log.Level, os.Stderr)
	} else {
		log = logging.New(cfg.Log.Level, os.Stderr)
	}
	return nil
}
