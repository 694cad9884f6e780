package backtest

import (
	"fmt"
	"io"
	"math"
	"time"
)

// Result is the aggregate outcome of one run. Immutable once produced.
type Result struct {
	StrategyName string
	Symbol       string
	Start        time.Time
	End          time.Time

	InitialCapital float64
	FinalCapital   float64
	TotalReturn    float64
	TotalReturnPct float64

	NumTrades     int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	AvgWin        float64
	AvgLoss       float64
	ProfitFactor  float64

	MaxDrawdown    float64
	MaxDrawdownPct float64
	SharpeRatio    float64

	Trades      []Trade
	EquityCurve []EquityPoint
}

func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Strategy:      %s\n", r.StrategyName)
	fmt.Fprintf(w, "Symbol:        %s\n", r.Symbol)

	if !r.Start.IsZero() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Period")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.NumTrades)
	fmt.Fprintf(w, "Wins:          %d\n", r.WinningTrades)
	fmt.Fprintf(w, "Losses:        %d\n", r.LosingTrades)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate*100)
	fmt.Fprintf(w, "Avg Win:       $%.2f\n", r.AvgWin)
	fmt.Fprintf(w, "Avg Loss:      $%.2f\n", r.AvgLoss)
	if math.IsInf(r.ProfitFactor, 1) {
		fmt.Fprintln(w, "Profit Factor: inf")
	} else {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", r.ProfitFactor)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Capital: $%.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "End Capital:   $%.2f\n", r.FinalCapital)
	fmt.Fprintf(w, "Net P/L:       $%.2f (%.2f%%)\n", r.TotalReturn, r.TotalReturnPct*100)
	fmt.Fprintf(w, "Max Drawdown:  $%.2f (%.2f%%)\n", r.MaxDrawdown, r.MaxDrawdownPct*100)
	fmt.Fprintf(w, "Sharpe Ratio:  %.2f\n", r.SharpeRatio)

	fmt.Fprintln(w)
}
