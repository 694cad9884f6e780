package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/broker/alpaca"
	"github.com/rustyeddy/intraday/config"
	"github.com/rustyeddy/intraday/data"
	"github.com/rustyeddy/intraday/live"
	"github.com/rustyeddy/intraday/notify"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/strategy"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live trading loop from a config file",
	Long: `Run the live trading loop using settings from a configuration file.

Credentials are read from the environment (or a .env file):
  APCA_API_KEY_ID, APCA_API_SECRET_KEY

Example:
  intraday run -f configs/orb.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.LoadEnv(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	strat, err := strategy.ByName(cfg.Strategy.Name, cfg.Strategy.ORB, cfg.Strategy.MACross)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	fmt.Printf("Starting %s on %v (poll every %ds)\n",
		cfg.Strategy.Name, cfg.Symbols, cfg.Live.PollSeconds)

	loop := &live.Loop{
		Broker:       alpaca.New(),
		Data:         data.NewAlpacaSource(),
		Strategy:     strat,
		Risk:         risk.NewManager(cfg.Risk),
		Notify:       notify.NewNotifier(cfg.Notify.Telegram),
		Symbols:      cfg.Symbols,
		Timeframe:    cfg.Live.Timeframe,
		BarLimit:     cfg.Live.BarLimit,
		PollInterval: time.Duration(cfg.Live.PollSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return loop.Run(ctx)
}
