package risk

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/rustyeddy/intraday/broker"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/strategy"
)

// Manager gates and sizes trading signals against account-level limits.
// It owns the process-lifetime risk state: daily/weekly equity
// baselines, the drawdown peak, and the kill switch. All of that is
// explicit injected state; baselines initialize from the first equity
// observation and roll on day/week boundaries.
//
// Single-writer: callers that evaluate symbols in parallel must
// serialize access so the kill-switch latch is atomic within a tick.
type Manager struct {
	limits Limits

	peakEquity           float64
	dailyStartingEquity  float64
	weeklyStartingEquity float64
	lastDailyReset       time.Time
	lastWeeklyReset      time.Time
	killSwitchActive     bool

	now func() time.Time // injectable clock
}

func NewManager(limits Limits) *Manager {
	return &Manager{
		limits: limits,
		now:    market.Now,
	}
}

// UpdateEquityTracking rolls the daily baseline on the first observation
// of a new exchange-local day, the weekly baseline on the first Monday
// observation not yet reset this week, and advances the monotone peak.
func (m *Manager) UpdateEquityTracking(equity float64) {
	today := market.ExchangeDate(m.now())

	if !market.SameExchangeDay(m.lastDailyReset, today) {
		m.dailyStartingEquity = equity
		m.lastDailyReset = today
	}

	if m.lastWeeklyReset.IsZero() ||
		(today.Weekday() == time.Monday && !market.SameExchangeDay(m.lastWeeklyReset, today)) {
		m.weeklyStartingEquity = equity
		m.lastWeeklyReset = today
	}

	if equity > m.peakEquity {
		m.peakEquity = equity
	}
}

// GetRiskStatus computes the current snapshot and applies the blocking
// cascade. Precedence, first match wins: kill switch, daily loss,
// weekly loss, drawdown (which also latches the kill switch), position
// count, allocation.
func (m *Manager) GetRiskStatus(account broker.Account, positions []broker.Position) Status {
	m.UpdateEquityTracking(account.Equity)

	st := Status{CanTrade: true, PositionsCount: len(positions)}

	st.DailyPnL = account.Equity - m.dailyStartingEquity
	if m.dailyStartingEquity > 0 {
		st.DailyPnLPct = st.DailyPnL / m.dailyStartingEquity
	}
	st.WeeklyPnL = account.Equity - m.weeklyStartingEquity
	if m.weeklyStartingEquity > 0 {
		st.WeeklyPnLPct = st.WeeklyPnL / m.weeklyStartingEquity
	}
	if m.peakEquity > 0 {
		st.CurrentDrawdownPct = (m.peakEquity - account.Equity) / m.peakEquity
	}

	totalValue := 0.0
	for _, p := range positions {
		totalValue += p.MarketValue
	}
	if account.PortfolioValue > 0 {
		st.PortfolioAllocationPct = totalValue / account.PortfolioValue
	}

	switch {
	case m.killSwitchActive:
		st.block("kill switch is active")
	case st.DailyPnLPct <= -m.limits.MaxDailyLossPct:
		st.block(fmt.Sprintf("daily loss limit reached (%.2f%%)", 100*st.DailyPnLPct))
	case st.WeeklyPnLPct <= -m.limits.MaxWeeklyLossPct:
		st.block(fmt.Sprintf("weekly loss limit reached (%.2f%%)", 100*st.WeeklyPnLPct))
	case st.CurrentDrawdownPct >= m.limits.MaxDrawdownPct:
		st.block(fmt.Sprintf("max drawdown reached (%.2f%%)", 100*st.CurrentDrawdownPct))
		// Drawdown breach halts trading until a manual reset.
		m.killSwitchActive = true
		log.Printf("risk: kill switch latched, drawdown %.2f%%", 100*st.CurrentDrawdownPct)
	case len(positions) >= m.limits.MaxPositions:
		st.block(fmt.Sprintf("max positions reached (%d)", len(positions)))
	case st.PortfolioAllocationPct >= m.limits.MaxPortfolioPct:
		st.block(fmt.Sprintf("max portfolio allocation reached (%.2f%%)", 100*st.PortfolioAllocationPct))
	}

	return st
}

func (st *Status) block(reason string) {
	st.CanTrade = false
	st.BlockedReason = reason
}

// ValidateSignal checks a signal against the current risk status and,
// for BUYs, sizes the position in dollars. Non-BUY signals pass through
// unsized.
func (m *Manager) ValidateSignal(sig strategy.Signal, account broker.Account, positions []broker.Position) (bool, string, float64) {
	st := m.GetRiskStatus(account, positions)
	if !st.CanTrade {
		return false, st.BlockedReason, 0
	}

	if sig.Type != strategy.Buy {
		return true, "", 0
	}

	for _, p := range positions {
		if p.Symbol == sig.Symbol {
			return false, fmt.Sprintf("already have position in %s", sig.Symbol), 0
		}
	}

	dollars := math.Min(account.PortfolioValue*m.limits.MaxPositionSizePct, account.BuyingPower)
	dollars *= sig.Strength
	if dollars < 1 {
		return false, "position size too small", 0
	}

	return true, "", dollars
}

// Shares converts a dollar position size into whole shares, clamped at
// zero.
func (m *Manager) Shares(dollars, price float64) int {
	if price <= 0 {
		return 0
	}
	shares := int(dollars / price)
	if shares < 0 {
		return 0
	}
	return shares
}

// StopLossPrice returns the default protective stop for an entry.
func (m *Manager) StopLossPrice(entry float64) float64 {
	return entry * (1 - m.limits.DefaultStopLossPct)
}

// TakeProfitPrice returns the default profit target for an entry.
func (m *Manager) TakeProfitPrice(entry float64) float64 {
	return entry * (1 + m.limits.DefaultTakeProfit)
}

// KillSwitchActive reports whether the latch is set.
func (m *Manager) KillSwitchActive() bool {
	return m.killSwitchActive
}

// ActivateKillSwitch halts all new trading until a manual reset.
func (m *Manager) ActivateKillSwitch(reason string) {
	m.killSwitchActive = true
	log.Printf("risk: KILL SWITCH ACTIVATED: %s", reason)
}

// ResetKillSwitch clears the latch. Manual operation only.
func (m *Manager) ResetKillSwitch() {
	m.killSwitchActive = false
	log.Printf("risk: kill switch has been manually reset")
}
