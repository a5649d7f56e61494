package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. ADAPTIVE_DATA_DIR.
const EnvPrefix = "ADAPTIVE_"

// Config represents the complete backtest configuration
type Config struct {
	Data    DataConfig    `json:"data" yaml:"data"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Report  ReportConfig  `json:"report" yaml:"report"`
}

// DataConfig says where candle files live and which ones to run.
type DataConfig struct {
	Dir     string   `json:"dir" yaml:"dir"`
	Symbols []string `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Period  string   `json:"period" yaml:"period"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CSVDir string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	Trace  bool   `json:"trace" yaml:"trace"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

type ReportConfig struct {
	OrgPath string `json:"org_path,omitempty" yaml:"org_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadEnv reads envfile (when it exists) into the process environment and
// then applies ADAPTIVE_* overrides on top of c. An empty envfile means ".env".
func (c *Config) LoadEnv(envfile string) error {
	if envfile == "" {
		envfile = ".env"
	}
	if _, err := os.Stat(envfile); err == nil {
		if err := godotenv.Load(envfile); err != nil {
			return fmt.Errorf("load %s: %w", envfile, err)
		}
	}

	if v, ok := lookup("DATA_DIR"); ok {
		c.Data.Dir = v
	}
	if v, ok := lookup("SYMBOLS"); ok {
		c.Data.Symbols = splitList(v)
	}
	if v, ok := lookup("PERIOD"); ok {
		c.Data.Period = v
	}
	if v, ok := lookup("JOURNAL_TYPE"); ok {
		c.Journal.Type = v
	}
	if v, ok := lookup("DB_PATH"); ok {
		c.Journal.DBPath = v
	}
	if v, ok := lookup("CSV_DIR"); ok {
		c.Journal.CSVDir = v
	}
	if v, ok := lookup("TRACE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sTRACE: %v", EnvPrefix, err)
		}
		c.Journal.Trace = b
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_PRETTY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sLOG_PRETTY: %v", EnvPrefix, err)
		}
		c.Log.Pretty = b
	}
	if v, ok := lookup("METRICS_FILE"); ok {
		c.Metrics.Textfile = v
	}
	if v, ok := lookup("ORG_PATH"); ok {
		c.Report.OrgPath = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// CandlePath returns the conventional candle file for symbol:
// <data.dir>/<SYMBOL>_<period>.csv
func (c *Config) CandlePath(symbol string) string {
	return CandlePath(c.Data.Dir, symbol, c.Data.Period)
}

func CandlePath(dir, symbol, period string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", strings.ToUpper(symbol), period))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Data.Period == "" {
		return fmt.Errorf("data.period is required")
	}
	for _, s := range c.Data.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("data.symbols must not contain empty entries")
		}
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.CSVDir == "" {
			return fmt.Errorf("journal.csv_dir required for csv type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not a known level", c.Log.Level)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:    "data",
			Period: "1y",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./adaptive.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
