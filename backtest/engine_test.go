package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/strategy"
)

// scripted emits a fixed signal at chosen bar indexes. The index is the
// last bar of the slice the engine hands over.
type scripted struct {
	buys  map[int]bool
	sells map[int]bool
}

func (s *scripted) Name() string                          { return "scripted" }
func (s *scripted) CalculateIndicators(bars []market.Bar) {}

func (s *scripted) GenerateSignal(bars []market.Bar, symbol string, equity float64) strategy.Signal {
	i := len(bars) - 1
	sig := strategy.Signal{Symbol: symbol, Type: strategy.Hold}
	switch {
	case s.buys[i]:
		sig.Type = strategy.Buy
	case s.sells[i]:
		sig.Type = strategy.Sell
	}
	return sig
}

func dailyBars(closes ...float64) []market.Bar {
	base := time.Date(2025, 6, 2, 16, 0, 0, 0, market.Exchange)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return bars
}

func flatBars(n int, close float64) []market.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = close
	}
	return dailyBars(closes...)
}

func TestRun_EmptySeries(t *testing.T) {
	e := NewEngine(DefaultConfig())
	r := e.Run(&scripted{}, nil, "SPY")

	assert.Zero(t, r.NumTrades)
	assert.Empty(t, r.EquityCurve)
	assert.Equal(t, 100_000.0, r.FinalCapital)
	assert.True(t, r.Start.IsZero())
}

func TestRun_ShortSeriesNeverTrades(t *testing.T) {
	e := NewEngine(DefaultConfig())
	strat := &scripted{buys: map[int]bool{0: true, 5: true, 9: true}}

	r := e.Run(strat, flatBars(10, 100), "SPY")

	assert.Zero(t, r.NumTrades)
	assert.Equal(t, 100_000.0, r.FinalCapital)
	assert.Zero(t, r.TotalReturn)
	assert.Zero(t, r.WinRate)
	assert.Zero(t, r.ProfitFactor)
	assert.Zero(t, r.MaxDrawdown)
	assert.Zero(t, r.SharpeRatio)
	assert.Len(t, r.EquityCurve, 10)
}

func TestRun_StopLossExit(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)

	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	closes[20] = 97 // through the 2% stop
	bars := dailyBars(closes...)

	r := e.Run(&scripted{buys: map[int]bool{19: true}}, bars, "SPY")

	require.Len(t, r.Trades, 1)
	tr := r.Trades[0]

	entry := 100 * (1 + cfg.SlippagePct)
	stop := entry * (1 - cfg.StopLossPct)
	exit := stop * (1 - cfg.SlippagePct)
	qty := 100_000 * cfg.PositionSizePct * (1 - cfg.CommissionPct) / entry
	pnl := (exit-entry)*qty - exit*qty*cfg.CommissionPct

	assert.Equal(t, "stop_loss", tr.ExitReason)
	assert.Equal(t, bars[20].Timestamp, tr.ExitDate)
	assert.InDelta(t, entry, tr.EntryPrice, 1e-9)
	assert.InDelta(t, exit, tr.ExitPrice, 1e-9)
	assert.InDelta(t, pnl, tr.PnL, 1e-9)
	assert.InDelta(t, pnl/(entry*qty), tr.PnLPct, 1e-9)

	// Equity on the exit bar is marked at the bar close before the
	// stop fill is processed.
	capitalAfterEntry := 100_000 - 100_000*cfg.PositionSizePct
	assert.InDelta(t, capitalAfterEntry+(97-entry)*qty, r.EquityCurve[20].Equity, 1e-9)
}

func TestRun_TakeProfitExit(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)

	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	closes[20] = 106 // through the 5% target
	bars := dailyBars(closes...)

	r := e.Run(&scripted{buys: map[int]bool{19: true}}, bars, "SPY")

	require.Len(t, r.Trades, 1)
	tr := r.Trades[0]

	entry := 100 * (1 + cfg.SlippagePct)
	exit := entry * (1 + cfg.TakeProfitPct) * (1 - cfg.SlippagePct)

	assert.Equal(t, "take_profit", tr.ExitReason)
	assert.InDelta(t, exit, tr.ExitPrice, 1e-9)
	assert.Positive(t, tr.PnL)
	assert.Equal(t, 1, r.WinningTrades)
	assert.Equal(t, 1.0, r.WinRate)
}

func TestRun_SellSignalExit(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)

	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	closes[21] = 101
	bars := dailyBars(closes...)

	strat := &scripted{buys: map[int]bool{19: true}, sells: map[int]bool{21: true}}
	r := e.Run(strat, bars, "SPY")

	require.Len(t, r.Trades, 1)
	tr := r.Trades[0]

	assert.Equal(t, "signal", tr.ExitReason)
	assert.Equal(t, bars[21].Timestamp, tr.ExitDate)
	assert.InDelta(t, 101*(1-cfg.SlippagePct), tr.ExitPrice, 1e-9)
}

func TestRun_SinglePositionOnly(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// A second BUY while a position is open is ignored.
	strat := &scripted{buys: map[int]bool{19: true, 20: true, 21: true}}
	r := e.Run(strat, flatBars(25, 100), "SPY")

	require.Len(t, r.Trades, 1)
	assert.Equal(t, "end_of_data", r.Trades[0].ExitReason)
}

func TestRun_MACrossoverScenario(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)

	// Flat, then a dip that holds the fast average under the slow one,
	// then a rally that crosses it back over exactly at index 20.
	closes := []float64{
		100, 100, 100, 100, 100, 100, 100, 100, 100, 100,
		100, 100, 100, 100, 100,
		95, 95, 95, 95, 95,
		105, 106, 107, 108, 109,
	}
	bars := dailyBars(closes...)

	strat := strategy.NewMACross(strategy.MACrossConfig{
		FastPeriod:    3,
		SlowPeriod:    10,
		StopLossPct:   0.02,
		TakeProfitPct: 0.05,
	})
	r := e.Run(strat, bars, "SPY")

	require.Len(t, r.Trades, 1)
	tr := r.Trades[0]

	entry := 105 * (1 + cfg.SlippagePct)
	qty := 100_000 * cfg.PositionSizePct * (1 - cfg.CommissionPct) / entry

	assert.Equal(t, bars[20].Timestamp, tr.EntryDate)
	assert.InDelta(t, entry, tr.EntryPrice, 1e-9)

	// No opposite crossover follows, so the position rides to the end
	// and is liquidated at the final close with no fill costs.
	assert.Equal(t, "end_of_data", tr.ExitReason)
	assert.Equal(t, bars[24].Timestamp, tr.ExitDate)
	assert.InDelta(t, 109.0, tr.ExitPrice, 1e-9)
	assert.InDelta(t, (109-entry)*qty, tr.PnL, 1e-9)

	assert.Equal(t, 1, r.NumTrades)
	assert.Equal(t, 1, r.WinningTrades)
	assert.Positive(t, r.TotalReturn)
}

func TestRun_CapitalAccounting(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)

	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	closes[21] = 102
	bars := dailyBars(closes...)

	strat := &scripted{buys: map[int]bool{19: true}, sells: map[int]bool{21: true}}
	r := e.Run(strat, bars, "SPY")

	require.Len(t, r.Trades, 1)
	tr := r.Trades[0]

	// Final capital is the entry stake returned plus realized pnl on
	// top of the capital that stayed in cash.
	value := 100_000 * cfg.PositionSizePct
	want := 100_000 - value + tr.Quantity*tr.EntryPrice + tr.PnL
	assert.InDelta(t, want, r.FinalCapital, 1e-9)
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(Config{})
	assert.Equal(t, 100_000.0, e.cfg.InitialCapital)
	assert.Equal(t, 0.05, e.cfg.PositionSizePct)
}
