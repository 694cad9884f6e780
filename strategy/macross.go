package strategy

import (
	"math"
	"time"

	"github.com/rustyeddy/intraday/indicators"
	"github.com/rustyeddy/intraday/market"
)

// MACrossConfig holds the tunables of the moving-average crossover
// strategy.
type MACrossConfig struct {
	FastPeriod    int     `yaml:"fast_period"`
	SlowPeriod    int     `yaml:"slow_period"`
	StopLossPct   float64 `yaml:"stop_loss_pct"`
	TakeProfitPct float64 `yaml:"take_profit_pct"`
}

func MACrossConfigDefaults() MACrossConfig {
	return MACrossConfig{
		FastPeriod:    10,
		SlowPeriod:    20,
		StopLossPct:   0.02,
		TakeProfitPct: 0.05,
	}
}

// MACross trades a fast/slow SMA crossover: BUY when the fast average
// crosses above the slow one, SELL on the opposite cross. Stateless per
// evaluation; the cross is detected by comparing the latest diff with
// the previous bar's diff.
type MACross struct {
	MACrossConfig

	// prefix sums of closes for O(1) SMA lookups when evaluating
	// prefixes of a known series (the backtest path).
	prefix []float64
}

func NewMACross(cfg MACrossConfig) *MACross {
	if cfg.FastPeriod <= 0 {
		cfg.FastPeriod = 10
	}
	if cfg.SlowPeriod <= cfg.FastPeriod {
		cfg.SlowPeriod = cfg.FastPeriod * 2
	}
	return &MACross{MACrossConfig: cfg}
}

func (s *MACross) Name() string { return "MA Crossover" }

// CalculateIndicators precomputes close-price prefix sums over the full
// series so per-bar SMA lookups during a backtest are O(1).
func (s *MACross) CalculateIndicators(bars []market.Bar) {
	s.prefix = make([]float64, len(bars)+1)
	for i, b := range bars {
		s.prefix[i+1] = s.prefix[i] + b.Close
	}
}

// sma returns the period-SMA ending at index end (exclusive) of the
// series. Falls back to direct summation when the prefix table does not
// cover the requested window.
func (s *MACross) sma(bars []market.Bar, end, period int) float64 {
	if end < period {
		return 0
	}
	if len(s.prefix) > end {
		return (s.prefix[end] - s.prefix[end-period]) / float64(period)
	}
	v, err := indicators.SMA(bars[:end], period)
	if err != nil {
		return 0
	}
	return v
}

func (s *MACross) GenerateSignal(bars []market.Bar, symbol string, equity float64) Signal {
	n := len(bars)

	var ts time.Time
	price := 0.0
	if n > 0 {
		last := bars[n-1]
		ts = last.Timestamp
		price = last.Close
	}

	hold := Signal{Symbol: symbol, Type: Hold, Price: price, Timestamp: ts}

	// Need one bar beyond the slow window to have a previous diff.
	if n < s.SlowPeriod+1 {
		return hold
	}

	diff := s.sma(bars, n, s.FastPeriod) - s.sma(bars, n, s.SlowPeriod)
	diffPrev := s.sma(bars, n-1, s.FastPeriod) - s.sma(bars, n-1, s.SlowPeriod)

	crossAbove := diff > 0 && diffPrev <= 0
	crossBelow := diff < 0 && diffPrev >= 0

	switch {
	case crossAbove:
		stop := price * (1 - s.StopLossPct)
		target := price * (1 + s.TakeProfitPct)
		return Signal{
			Symbol:     symbol,
			Type:       Buy,
			Strength:   s.strength(diff, price),
			Price:      price,
			Timestamp:  ts,
			StopLoss:   &stop,
			TakeProfit: &target,
			Metadata: map[string]any{
				"strategy": "MACross",
				"reason":   "cross_above",
				"ma_diff":  diff,
			},
		}

	case crossBelow:
		return Signal{
			Symbol:    symbol,
			Type:      Sell,
			Strength:  s.strength(diff, price),
			Price:     price,
			Timestamp: ts,
			Metadata: map[string]any{
				"strategy": "MACross",
				"reason":   "cross_below",
				"ma_diff":  diff,
			},
		}

	default:
		return hold
	}
}

// strength weights a cross by its momentum: a bare-touch cross scores
// 0.5, a wide separation approaches 1.0.
func (s *MACross) strength(diff, price float64) float64 {
	if price <= 0 {
		return 0.5
	}
	boost := math.Min(0.5, math.Abs(diff)/price*100)
	return 0.5 + boost
}
