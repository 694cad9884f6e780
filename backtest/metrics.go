package backtest

import (
	"math"

	"github.com/rustyeddy/intraday/market"
)

// computeResult derives the aggregate metrics once, over the full trade
// list and equity curve. An empty curve yields a zero-default result.
func computeResult(strategyName, symbol string, initial float64, bars []market.Bar, trades []Trade, curve []EquityPoint) Result {
	r := Result{
		StrategyName:   strategyName,
		Symbol:         symbol,
		InitialCapital: initial,
		FinalCapital:   initial,
		Trades:         trades,
		EquityCurve:    curve,
	}
	if len(bars) > 0 {
		r.Start = bars[0].Timestamp
		r.End = bars[len(bars)-1].Timestamp
	}
	if len(curve) == 0 {
		return r
	}

	r.FinalCapital = curve[len(curve)-1].Equity
	r.TotalReturn = r.FinalCapital - initial
	if initial > 0 {
		r.TotalReturnPct = r.TotalReturn / initial
	}

	r.NumTrades = len(trades)
	var totalWins, totalLosses float64
	for _, t := range trades {
		if t.PnL > 0 {
			r.WinningTrades++
			totalWins += t.PnL
		} else {
			r.LosingTrades++
			totalLosses += t.PnL
		}
	}
	totalLosses = math.Abs(totalLosses)

	if r.NumTrades > 0 {
		r.WinRate = float64(r.WinningTrades) / float64(r.NumTrades)
	}
	if r.WinningTrades > 0 {
		r.AvgWin = totalWins / float64(r.WinningTrades)
	}
	if r.LosingTrades > 0 {
		r.AvgLoss = totalLosses / float64(r.LosingTrades)
	}
	switch {
	case r.NumTrades == 0:
		r.ProfitFactor = 0
	case totalLosses > 0:
		r.ProfitFactor = totalWins / totalLosses
	default:
		r.ProfitFactor = math.Inf(1)
	}

	r.MaxDrawdown, r.MaxDrawdownPct = maxDrawdown(curve)
	r.SharpeRatio = sharpe(curve)

	return r
}

// maxDrawdown returns the largest absolute and relative decline from
// the running equity peak.
func maxDrawdown(curve []EquityPoint) (dd, ddPct float64) {
	peak := curve[0].Equity
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		d := peak - p.Equity
		if d > dd {
			dd = d
		}
		if peak > 0 {
			if pct := d / peak; pct > ddPct {
				ddPct = pct
			}
		}
	}
	return dd, ddPct
}

// sharpe annualizes per-bar equity returns assuming 252 trading
// periods and a zero risk-free rate. Zero when the deviation is
// zero or undefined.
func sharpe(curve []EquityPoint) float64 {
	var rets []float64
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev != 0 {
			rets = append(rets, (curve[i].Equity-prev)/prev)
		}
	}
	if len(rets) < 2 {
		return 0
	}

	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	var variance float64
	for _, r := range rets {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rets) - 1) // sample deviation

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(252)
}
