package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intraday",
	Short: "An intraday opening-range breakout trading bot and backtester",
	Long: `Intraday runs an opening-range breakout strategy against US equities.

It provides tools for:
  - Live paper/real trading through the Alpaca API
  - Backtesting strategies against historical bar data
  - Risk-gated position sizing with daily and weekly loss limits
  - Journaling backtest runs, trades, and equity curves in SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
