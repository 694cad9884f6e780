// journal/journal.go
package journal

import (
	"time"

	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/pkg/id"
)

// Run mirrors the backtest_runs table.
type Run struct {
	RunID     string
	Created   time.Time
	Strategy  string
	Symbol    string
	Timeframe string
	Dataset   string

	Start time.Time
	End   time.Time

	InitialCapital float64
	FinalCapital   float64
	TotalReturn    float64
	TotalReturnPct float64

	NumTrades int
	Wins      int
	Losses    int
	WinRate   float64

	ProfitFactor   float64
	MaxDrawdownPct float64
	SharpeRatio    float64
}

// Trade mirrors the backtest_trades table.
type Trade struct {
	TradeID    string
	RunID      string
	Symbol     string
	EntryDate  time.Time
	EntryPrice float64
	ExitDate   time.Time
	ExitPrice  float64
	Quantity   float64
	Side       string
	PnL        float64
	PnLPct     float64
	ExitReason string
}

// EquityPoint mirrors the equity_points table.
type EquityPoint struct {
	RunID  string
	Time   time.Time
	Equity float64
}

type Journal interface {
	RecordRun(run Run, trades []Trade, equity []EquityPoint) error
	GetRun(runID string) (Run, error)
	ListRuns(limit int) ([]Run, error)
	ListTrades(runID string) ([]Trade, error)
	ListEquity(runID string) ([]EquityPoint, error)
	Close() error
}

// NewRun converts a finished backtest into journal rows, assigning
// fresh ULIDs to the run and each trade.
func NewRun(r backtest.Result, timeframe, dataset string) (Run, []Trade, []EquityPoint) {
	run := Run{
		RunID:          id.New(),
		Created:        time.Now().UTC(),
		Strategy:       r.StrategyName,
		Symbol:         r.Symbol,
		Timeframe:      timeframe,
		Dataset:        dataset,
		Start:          r.Start,
		End:            r.End,
		InitialCapital: r.InitialCapital,
		FinalCapital:   r.FinalCapital,
		TotalReturn:    r.TotalReturn,
		TotalReturnPct: r.TotalReturnPct,
		NumTrades:      r.NumTrades,
		Wins:           r.WinningTrades,
		Losses:         r.LosingTrades,
		WinRate:        r.WinRate,
		ProfitFactor:   r.ProfitFactor,
		MaxDrawdownPct: r.MaxDrawdownPct,
		SharpeRatio:    r.SharpeRatio,
	}

	trades := make([]Trade, 0, len(r.Trades))
	for _, t := range r.Trades {
		trades = append(trades, Trade{
			TradeID:    id.New(),
			RunID:      run.RunID,
			Symbol:     r.Symbol,
			EntryDate:  t.EntryDate,
			EntryPrice: t.EntryPrice,
			ExitDate:   t.ExitDate,
			ExitPrice:  t.ExitPrice,
			Quantity:   t.Quantity,
			Side:       t.Side,
			PnL:        t.PnL,
			PnLPct:     t.PnLPct,
			ExitReason: t.ExitReason,
		})
	}

	equity := make([]EquityPoint, 0, len(r.EquityCurve))
	for _, p := range r.EquityCurve {
		equity = append(equity, EquityPoint{
			RunID:  run.RunID,
			Time:   p.Timestamp,
			Equity: p.Equity,
		})
	}

	return run, trades, equity
}
