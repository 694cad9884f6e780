package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/data"
	"github.com/rustyeddy/intraday/journal"
	"github.com/rustyeddy/intraday/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy over historical bars from a CSV file",
	Long: `Run a strategy over historical bars loaded from a CSV file and print
the performance report. With --db the run is also recorded in the journal.

Example:
  intraday backtest --csv bars/SPY-1min.csv --symbol SPY --strategy orb --db intraday.db`,
	RunE: runBacktest,
}

var (
	btCSV        string
	btSymbol     string
	btStrategy   string
	btTimeframe  string
	btDB         string
	btCapital    float64
	btCommission float64
	btSlippage   float64
	btSizePct    float64
	btStopPct    float64
	btTargetPct  float64
	btFast       int
	btSlow       int
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&btCSV, "csv", "", "path to CSV bar file (required)")
	backtestCmd.MarkFlagRequired("csv")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "SPY", "symbol the bars belong to")
	backtestCmd.Flags().StringVar(&btStrategy, "strategy", "orb", "strategy name (orb, ma-cross)")
	backtestCmd.Flags().StringVar(&btTimeframe, "timeframe", "1Min", "bar timeframe recorded with the run")
	backtestCmd.Flags().StringVar(&btDB, "db", "", "record the run in this journal database")

	def := backtest.DefaultConfig()
	backtestCmd.Flags().Float64Var(&btCapital, "capital", def.InitialCapital, "initial capital")
	backtestCmd.Flags().Float64Var(&btCommission, "commission", def.CommissionPct, "commission per trade as a fraction")
	backtestCmd.Flags().Float64Var(&btSlippage, "slippage", def.SlippagePct, "slippage per fill as a fraction")
	backtestCmd.Flags().Float64Var(&btSizePct, "size", def.PositionSizePct, "position size as a fraction of capital")
	backtestCmd.Flags().Float64Var(&btStopPct, "stop", def.StopLossPct, "stop loss as a fraction of entry")
	backtestCmd.Flags().Float64Var(&btTargetPct, "target", def.TakeProfitPct, "take profit as a fraction of entry")

	ma := strategy.MACrossConfigDefaults()
	backtestCmd.Flags().IntVar(&btFast, "fast", ma.FastPeriod, "fast MA period (ma-cross only)")
	backtestCmd.Flags().IntVar(&btSlow, "slow", ma.SlowPeriod, "slow MA period (ma-cross only)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	bars, err := data.LoadCSV(btCSV)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	strat, err := strategy.ByName(btStrategy,
		strategy.ORBConfigDefaults(),
		strategy.MACrossConfig{FastPeriod: btFast, SlowPeriod: btSlow})
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	eng := backtest.NewEngine(backtest.Config{
		InitialCapital:  btCapital,
		CommissionPct:   btCommission,
		SlippagePct:     btSlippage,
		PositionSizePct: btSizePct,
		StopLossPct:     btStopPct,
		TakeProfitPct:   btTargetPct,
	})

	result := eng.Run(strat, bars, btSymbol)
	backtest.PrintResult(os.Stdout, result)

	if btDB != "" {
		if err := recordRun(result); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}
	return nil
}

func recordRun(result backtest.Result) error {
	j, err := journal.NewSQLite(btDB)
	if err != nil {
		return err
	}
	defer j.Close()

	run, trades, equity := journal.NewRun(result, btTimeframe, filepath.Base(btCSV))
	if err := j.RecordRun(run, trades, equity); err != nil {
		return err
	}
	fmt.Printf("\nRecorded run %s in %s\n", run.RunID, btDB)
	return nil
}
