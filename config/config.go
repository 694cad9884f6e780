package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/strategy"
)

// Config is the complete runtime configuration.
type Config struct {
	Symbols  []string        `yaml:"symbols"`
	Strategy StrategyConfig  `yaml:"strategy"`
	Risk     risk.Limits     `yaml:"risk"`
	Backtest backtest.Config `yaml:"backtest"`
	Live     LiveConfig      `yaml:"live"`
	Journal  JournalConfig   `yaml:"journal"`
	Notify   NotifyConfig    `yaml:"notify"`
}

// StrategyConfig selects a strategy and carries both parameter sets;
// only the selected one is used.
type StrategyConfig struct {
	Name    string                 `yaml:"name"` // "orb" or "ma-cross"
	ORB     strategy.ORBConfig     `yaml:"orb"`
	MACross strategy.MACrossConfig `yaml:"ma_cross"`
}

// LiveConfig controls the polling loop cadence and data window.
type LiveConfig struct {
	PollSeconds int              `yaml:"poll_seconds"`
	Timeframe   market.Timeframe `yaml:"timeframe"`
	BarLimit    int              `yaml:"bar_limit"`
}

type JournalConfig struct {
	DBPath string `yaml:"db_path"`
}

type NotifyConfig struct {
	Telegram bool `yaml:"telegram"`
}

// Default returns a runnable configuration for one liquid symbol.
func Default() Config {
	return Config{
		Symbols: []string{"SPY"},
		Strategy: StrategyConfig{
			Name:    "orb",
			ORB:     strategy.ORBConfigDefaults(),
			MACross: strategy.MACrossConfigDefaults(),
		},
		Risk:     risk.DefaultLimits(),
		Backtest: backtest.DefaultConfig(),
		Live: LiveConfig{
			PollSeconds: 60,
			Timeframe:   market.OneMinute,
			BarLimit:    390, // one full session of minute bars
		},
		Journal: JournalConfig{DBPath: "intraday.db"},
	}
}

// LoadFromFile reads a YAML config, overlaying the defaults, and
// validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols is required")
	}
	for _, s := range c.Symbols {
		if s == "" {
			return fmt.Errorf("symbols must not contain empty entries")
		}
	}
	if c.Strategy.Name != "orb" && c.Strategy.Name != "ma-cross" {
		return fmt.Errorf("strategy.name must be 'orb' or 'ma-cross'")
	}
	if p := c.Strategy.ORB.RiskPct; p <= 0 || p > 1 {
		return fmt.Errorf("strategy.orb.risk_pct must be between 0 and 1")
	}
	if c.Strategy.MACross.FastPeriod >= c.Strategy.MACross.SlowPeriod {
		return fmt.Errorf("strategy.ma_cross.fast_period must be less than slow_period")
	}
	if p := c.Risk.MaxPositionSizePct; p <= 0 || p > 1 {
		return fmt.Errorf("risk.max_position_size_pct must be between 0 and 1")
	}
	if c.Risk.MaxPositions <= 0 {
		return fmt.Errorf("risk.max_positions must be positive")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if c.Live.PollSeconds <= 0 {
		return fmt.Errorf("live.poll_seconds must be positive")
	}
	switch c.Live.Timeframe {
	case market.OneMinute, market.FiveMinute, market.OneDay:
	default:
		return fmt.Errorf("live.timeframe must be one of 1Min, 5Min, 1Day")
	}
	if c.Live.BarLimit < 20 {
		return fmt.Errorf("live.bar_limit must be at least 20")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	return nil
}

// LoadEnv reads a .env file if present and verifies the credentials the
// process needs. Missing required variables are a fatal configuration
// error reported before the loop starts.
func (c *Config) LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	required := []string{"APCA_API_KEY_ID", "APCA_API_SECRET_KEY"}
	if c.Notify.Telegram {
		required = append(required, "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID")
	}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}
