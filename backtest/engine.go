package backtest

import (
	"log"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/strategy"
)

// warmupBars is the minimum history before the engine asks the strategy
// for a signal. Bars before that still contribute to the equity curve.
const warmupBars = 20

// Config controls fills and sizing for a single run.
type Config struct {
	InitialCapital  float64 `yaml:"initial_capital"`
	CommissionPct   float64 `yaml:"commission_pct"`
	SlippagePct     float64 `yaml:"slippage_pct"`
	PositionSizePct float64 `yaml:"position_size_pct"`
	StopLossPct     float64 `yaml:"stop_loss_pct"`
	TakeProfitPct   float64 `yaml:"take_profit_pct"`
}

func DefaultConfig() Config {
	return Config{
		InitialCapital:  100_000,
		CommissionPct:   0.001,
		SlippagePct:     0.001,
		PositionSizePct: 0.05,
		StopLossPct:     0.02,
		TakeProfitPct:   0.05,
	}
}

// Trade is one closed simulated position.
type Trade struct {
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

// EquityPoint is one mark-to-market observation, recorded every bar
// before exits are processed.
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// openPosition is the engine's single long position. Stop and target
// are fixed at entry and never re-derived from the strategy.
type openPosition struct {
	entryDate  time.Time
	entryPrice float64
	quantity   float64
	stopLoss   float64
	takeProfit float64
}

// Engine replays an ordered bar series through a strategy, long-only,
// one position at a time. State is local to a run.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = DefaultConfig().InitialCapital
	}
	if cfg.PositionSizePct <= 0 {
		cfg.PositionSizePct = DefaultConfig().PositionSizePct
	}
	return &Engine{cfg: cfg}
}

// Run executes a single pass over bars. Bars must be ascending by
// timestamp; the engine never reorders them.
func (e *Engine) Run(strat strategy.Strategy, bars []market.Bar, symbol string) Result {
	log.Printf("backtest: %s on %s, %d bars", strat.Name(), symbol, len(bars))

	strat.CalculateIndicators(bars)

	capital := e.cfg.InitialCapital
	var pos *openPosition
	var trades []Trade
	var curve []EquityPoint

	for i, bar := range bars {
		price := bar.Close

		// Equity is marked before exits so a bar that closes the
		// position still records the pre-exit mark.
		equity := capital
		if pos != nil {
			equity = capital + (price-pos.entryPrice)*pos.quantity
		}
		curve = append(curve, EquityPoint{Timestamp: bar.Timestamp, Equity: equity})

		if pos != nil {
			var exit float64
			var reason string

			switch {
			case price <= pos.stopLoss:
				exit = pos.stopLoss * (1 - e.cfg.SlippagePct)
				reason = "stop_loss"
			case price >= pos.takeProfit:
				exit = pos.takeProfit * (1 - e.cfg.SlippagePct)
				reason = "take_profit"
			}

			if reason != "" {
				tr, delta := closeTrade(pos, bar.Timestamp, exit, e.cfg.CommissionPct, reason)
				trades = append(trades, tr)
				capital += delta
				pos = nil
				continue
			}
		}

		if i+1 < warmupBars {
			continue
		}

		sig := strat.GenerateSignal(bars[:i+1], symbol, capital)

		switch {
		case sig.Type == strategy.Buy && pos == nil:
			value := capital * e.cfg.PositionSizePct
			entry := price * (1 + e.cfg.SlippagePct)
			pos = &openPosition{
				entryDate:  bar.Timestamp,
				entryPrice: entry,
				quantity:   value * (1 - e.cfg.CommissionPct) / entry,
				stopLoss:   entry * (1 - e.cfg.StopLossPct),
				takeProfit: entry * (1 + e.cfg.TakeProfitPct),
			}
			capital -= value

		case sig.Type == strategy.Sell && pos != nil:
			exit := price * (1 - e.cfg.SlippagePct)
			tr, delta := closeTrade(pos, bar.Timestamp, exit, e.cfg.CommissionPct, "signal")
			trades = append(trades, tr)
			capital += delta
			pos = nil
		}
	}

	// Anything still open is liquidated at the final close. This is a
	// mark, not a fill: no slippage or commission is applied.
	if pos != nil {
		last := bars[len(bars)-1]
		tr, delta := closeTrade(pos, last.Timestamp, last.Close, 0, "end_of_data")
		trades = append(trades, tr)
		capital += delta
	}

	return computeResult(strat.Name(), symbol, e.cfg.InitialCapital, bars, trades, curve)
}

// closeTrade realizes a long exit and returns the trade record plus the
// capital delta (entry cost released plus realized pnl). Commission is
// charged on the exit leg only.
func closeTrade(p *openPosition, when time.Time, exit, commissionPct float64, reason string) (Trade, float64) {
	pnl := (exit - p.entryPrice) * p.quantity
	pnl -= exit * p.quantity * commissionPct

	return Trade{
		EntryDate:  p.entryDate,
		EntryPrice: p.entryPrice,
		ExitDate:   when,
		ExitPrice:  exit,
		Quantity:   p.quantity,
		Side:       "long",
		PnL:        pnl,
		PnLPct:     pnl / (p.entryPrice * p.quantity),
		ExitReason: reason,
	}, p.quantity*p.entryPrice + pnl
}
