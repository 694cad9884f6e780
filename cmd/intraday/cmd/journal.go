package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded backtest runs",
	Long: `Query and display backtest runs recorded in the SQLite journal.

Subcommands:
  runs  - List recent runs, newest first
  show  - Show a run with its trades

Examples:
  intraday journal runs
  intraday journal show <run-id>`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run with its trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./intraday.db", "path to SQLite journal DB")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of runs to list")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(journalLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tSTRATEGY\tSYMBOL\tTRADES\tWIN RATE\tRETURN\tSHARPE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1f%%\t%+.2f%%\t%.2f\n",
			r.RunID,
			r.Created.Local().Format("2006-01-02 15:04"),
			r.Strategy,
			r.Symbol,
			r.NumTrades,
			r.WinRate*100,
			r.TotalReturnPct*100,
			r.SharpeRatio)
	}
	return w.Flush()
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID := args[0]
	run, err := j.GetRun(runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	trades, err := j.ListTrades(runID)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Printf("Run:       %s\n", run.RunID)
	fmt.Printf("Created:   %s\n", run.Created.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Strategy:  %s\n", run.Strategy)
	fmt.Printf("Symbol:    %s (%s, %s)\n", run.Symbol, run.Timeframe, run.Dataset)
	fmt.Printf("Period:    %s to %s\n",
		run.Start.Format("2006-01-02"), run.End.Format("2006-01-02"))
	fmt.Printf("Capital:   %.2f -> %.2f (%+.2f%%)\n",
		run.InitialCapital, run.FinalCapital, run.TotalReturnPct*100)
	fmt.Printf("Trades:    %d (%d W / %d L, %.1f%% win rate)\n",
		run.NumTrades, run.Wins, run.Losses, run.WinRate*100)
	fmt.Printf("Profit factor: %s  Max drawdown: %.2f%%  Sharpe: %.2f\n",
		formatProfitFactor(run.ProfitFactor), run.MaxDrawdownPct*100, run.SharpeRatio)

	if len(trades) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENTRY\tEXIT\tSIDE\tQTY\tENTRY PX\tEXIT PX\tPNL\tREASON")
	for _, t := range trades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%+.2f\t%s\n",
			t.EntryDate.Format("2006-01-02 15:04"),
			t.ExitDate.Format("2006-01-02 15:04"),
			t.Side,
			t.Quantity,
			t.EntryPrice,
			t.ExitPrice,
			t.PnL,
			t.ExitReason)
	}
	return w.Flush()
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}
