package strategy

import (
	"log"
	"math"
	"time"

	"github.com/rustyeddy/intraday/market"
)

// ORBConfig holds the tunables of the opening-range breakout strategy.
type ORBConfig struct {
	RiskPct            float64 `yaml:"risk_pct"`             // per-trade risk, 0.0025 = 0.25%
	DailyMaxLossPct    float64 `yaml:"daily_max_loss_pct"`   // 0.02 = 2%
	VolumeMultiplier   float64 `yaml:"volume_multiplier"`    // entry volume vs 20-bar average
	MinORRangePct      float64 `yaml:"min_or_range_pct"`     // minimum OR width vs OR low
	RiskRewardRatio    float64 `yaml:"risk_reward_ratio"`    // target as R multiple
	MaxPositions       int     `yaml:"max_positions"`        // simultaneous open positions
	CheckFalseBreakout bool    `yaml:"check_false_breakout"` // exit when price falls back under OR high
}

func ORBConfigDefaults() ORBConfig {
	return ORBConfig{
		RiskPct:            0.0025,
		DailyMaxLossPct:    0.02,
		VolumeMultiplier:   1.5,
		MinORRangePct:      0.002,
		RiskRewardRatio:    2.0,
		MaxPositions:       1,
		CheckFalseBreakout: true,
	}
}

// Position is an open ORB position. Created on an accepted BUY, removed
// on any SELL; unique per symbol.
type Position struct {
	Symbol     string
	EntryPrice float64
	EntryTime  time.Time
	Shares     int
	StopLoss   float64
	TakeProfit float64
	ORHigh     float64
}

// dayState is everything scoped to one trading day. The daily reset
// replaces the whole structure rather than clearing fields one by one.
type dayState struct {
	date        time.Time
	ranges      map[string]OpeningRange
	positions   map[string]*Position
	realizedPnL float64
	startEquity float64
	stopped     bool
}

func newDayState(date time.Time, equity float64) *dayState {
	return &dayState{
		date:        market.ExchangeDate(date),
		ranges:      make(map[string]OpeningRange),
		positions:   make(map[string]*Position),
		startEquity: equity,
	}
}

// ORB is the opening-range breakout state machine. Time is taken from
// the latest bar's timestamp, so the same code drives both the live loop
// (where the latest bar is the current minute) and backtests.
type ORB struct {
	ORBConfig
	day *dayState
}

func NewORB(cfg ORBConfig) *ORB {
	if cfg.RiskRewardRatio <= 0 {
		cfg.RiskRewardRatio = 2.0
	}
	if cfg.VolumeMultiplier <= 0 {
		cfg.VolumeMultiplier = 1.5
	}
	if cfg.MaxPositions <= 0 {
		cfg.MaxPositions = 1
	}
	return &ORB{ORBConfig: cfg}
}

func (s *ORB) Name() string { return "Opening Range Breakout" }

// CalculateIndicators is a no-op; ORB works from raw bars.
func (s *ORB) CalculateIndicators(bars []market.Bar) {}

// GenerateSignal evaluates one symbol at the latest bar of the series,
// in strict priority order: daily stop, phase dispatch, entry checks,
// exit checks.
func (s *ORB) GenerateSignal(bars []market.Bar, symbol string, equity float64) Signal {
	if len(bars) == 0 {
		return Signal{Symbol: symbol, Type: Hold}
	}

	now := bars[len(bars)-1].Timestamp.In(market.Exchange)

	// A new exchange-local calendar day clears all per-day state.
	if s.day == nil || !market.SameExchangeDay(s.day.date, now) {
		s.day = newDayState(now, equity)
		log.Printf("orb: daily state reset, starting equity $%.2f", equity)
	}

	// Daily stop latches the first tick the realized day loss crosses
	// the limit and holds until the next daily reset.
	if !s.day.stopped && s.day.startEquity > 0 &&
		s.day.realizedPnL/s.day.startEquity <= -s.DailyMaxLossPct {
		s.day.stopped = true
		log.Printf("orb: daily loss limit hit (%.2f%%), trading stopped for the day",
			100*s.day.realizedPnL/s.day.startEquity)
	}
	if s.day.stopped {
		if _, open := s.day.positions[symbol]; open {
			return s.sell(symbol, bars, now, "daily_risk_stop")
		}
		return s.hold(symbol, bars, now)
	}

	switch PhaseAt(now) {
	case PreMarket, Noise:
		return s.hold(symbol, bars, now)

	case CalcOR:
		// Compute once and freeze: a Pending result is not cached so
		// later ticks in the window can retry; a computed band is.
		if _, ok := s.day.ranges[symbol]; !ok {
			or := ComputeOpeningRange(symbol, bars, now, orCalcStart, orCalcEnd, s.MinORRangePct)
			if or.State != ORPending {
				s.day.ranges[symbol] = or
				log.Printf("orb: %s OR high=%.2f low=%.2f range=%.2f state=%s",
					symbol, or.High, or.Low, or.Range, or.State)
			}
		}
		return s.hold(symbol, bars, now)

	case EntryWindow:
		if _, open := s.day.positions[symbol]; open {
			return s.checkExit(symbol, bars, now)
		}
		if len(s.day.positions) >= s.MaxPositions {
			return s.hold(symbol, bars, now)
		}
		or, ok := s.day.ranges[symbol]
		if !ok || or.State != ORValid {
			return s.hold(symbol, bars, now)
		}
		return s.checkEntry(symbol, bars, now, or, equity)

	case ManageOnly:
		if _, open := s.day.positions[symbol]; open {
			return s.checkExit(symbol, bars, now)
		}
		return s.hold(symbol, bars, now)

	case ForceClose:
		if _, open := s.day.positions[symbol]; open {
			return s.sell(symbol, bars, now, "force_close_eod")
		}
		return s.hold(symbol, bars, now)

	default: // AfterHours
		return s.hold(symbol, bars, now)
	}
}

// checkEntry emits a BUY when the latest bar closes above the OR high on
// confirming volume and the sized position is at least one share.
func (s *ORB) checkEntry(symbol string, bars []market.Bar, now time.Time, or OpeningRange, equity float64) Signal {
	latest := bars[len(bars)-1]

	breakout := latest.Close > or.High
	volumeConfirm := float64(latest.Volume) > s.VolumeMultiplier*or.AvgVolume
	if !breakout || !volumeConfirm {
		return s.hold(symbol, bars, now)
	}

	entry := latest.Close
	stop := entry - or.Range
	target := entry + s.RiskRewardRatio*or.Range

	shares := positionSize(equity, s.RiskPct, entry, stop)
	if shares <= 0 {
		return s.hold(symbol, bars, now)
	}

	s.day.positions[symbol] = &Position{
		Symbol:     symbol,
		EntryPrice: entry,
		EntryTime:  now,
		Shares:     shares,
		StopLoss:   stop,
		TakeProfit: target,
		ORHigh:     or.High,
	}

	log.Printf("orb: %s breakout entry %d shares @ %.2f stop=%.2f target=%.2f",
		symbol, shares, entry, stop, target)

	return Signal{
		Symbol:     symbol,
		Type:       Buy,
		Strength:   1.0,
		Price:      entry,
		Timestamp:  now,
		StopLoss:   &stop,
		TakeProfit: &target,
		Metadata: map[string]any{
			"strategy": "ORB",
			"reason":   "breakout",
			"or_high":  or.High,
			"or_low":   or.Low,
			"or_range": or.Range,
			"shares":   shares,
		},
	}
}

// checkExit applies the shared exit rules to an open position: stop
// first, then target, then optional false-breakout detection.
func (s *ORB) checkExit(symbol string, bars []market.Bar, now time.Time) Signal {
	pos := s.day.positions[symbol]
	price := bars[len(bars)-1].Close

	switch {
	case price <= pos.StopLoss:
		return s.sell(symbol, bars, now, "stop_loss")
	case price >= pos.TakeProfit:
		return s.sell(symbol, bars, now, "take_profit")
	case s.CheckFalseBreakout && price < pos.ORHigh:
		return s.sell(symbol, bars, now, "false_breakout")
	default:
		return s.hold(symbol, bars, now)
	}
}

// sell realizes P&L into the day's running total and removes the
// position. This is the single authoritative accounting point.
func (s *ORB) sell(symbol string, bars []market.Bar, now time.Time, reason string) Signal {
	price := bars[len(bars)-1].Close

	if pos, ok := s.day.positions[symbol]; ok {
		pnl := (price - pos.EntryPrice) * float64(pos.Shares)
		s.day.realizedPnL += pnl
		delete(s.day.positions, symbol)
		log.Printf("orb: %s closed @ %.2f pnl=%.2f reason=%s", symbol, price, pnl, reason)
	}

	return Signal{
		Symbol:    symbol,
		Type:      Sell,
		Strength:  1.0,
		Price:     price,
		Timestamp: now,
		Metadata: map[string]any{
			"strategy": "ORB",
			"reason":   reason,
		},
	}
}

func (s *ORB) hold(symbol string, bars []market.Bar, now time.Time) Signal {
	price := 0.0
	if len(bars) > 0 {
		price = bars[len(bars)-1].Close
	}
	return Signal{
		Symbol:    symbol,
		Type:      Hold,
		Price:     price,
		Timestamp: now,
	}
}

// positionSize converts a risk budget and stop distance into whole
// shares: floor(equity*riskPct / (entry-stop)), clamped at zero.
func positionSize(equity, riskPct, entry, stop float64) int {
	riskPerShare := entry - stop
	if riskPerShare <= 0 {
		return 0
	}
	shares := math.Floor(equity * riskPct / riskPerShare)
	if shares < 0 {
		return 0
	}
	return int(shares)
}

// DayPnL returns the realized P&L accumulated since the daily reset.
func (s *ORB) DayPnL() float64 {
	if s.day == nil {
		return 0
	}
	return s.day.realizedPnL
}

// Stopped reports whether the daily risk stop has latched.
func (s *ORB) Stopped() bool {
	return s.day != nil && s.day.stopped
}

// OpenPosition returns the open position for symbol, if any.
func (s *ORB) OpenPosition(symbol string) (*Position, bool) {
	if s.day == nil {
		return nil, false
	}
	p, ok := s.day.positions[symbol]
	return p, ok
}

// OpeningRangeFor returns the cached opening range for symbol, if the
// band has been computed today.
func (s *ORB) OpeningRangeFor(symbol string) (OpeningRange, bool) {
	if s.day == nil {
		return OpeningRange{}, false
	}
	or, ok := s.day.ranges[symbol]
	return or, ok
}
