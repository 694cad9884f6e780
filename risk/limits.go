package risk

// Limits is the static risk configuration. Immutable per manager
// instance.
type Limits struct {
	MaxPositionSizePct float64 `yaml:"max_position_size_pct"` // per-position cap vs portfolio
	MaxPositions       int     `yaml:"max_positions"`
	MaxPortfolioPct    float64 `yaml:"max_portfolio_pct"` // total allocation cap
	MaxDailyLossPct    float64 `yaml:"max_daily_loss_pct"`
	MaxWeeklyLossPct   float64 `yaml:"max_weekly_loss_pct"`
	MaxDrawdownPct     float64 `yaml:"max_drawdown_pct"`
	DefaultStopLossPct float64 `yaml:"default_stop_loss_pct"`
	DefaultTakeProfit  float64 `yaml:"default_take_profit_pct"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxPositionSizePct: 0.05,
		MaxPositions:       10,
		MaxPortfolioPct:    0.80,
		MaxDailyLossPct:    0.05,
		MaxWeeklyLossPct:   0.10,
		MaxDrawdownPct:     0.15,
		DefaultStopLossPct: 0.02,
		DefaultTakeProfit:  0.05,
	}
}

// Status is a derived snapshot of the current risk posture, recomputed
// every evaluation and never persisted.
type Status struct {
	CanTrade               bool
	DailyPnL               float64
	DailyPnLPct            float64
	WeeklyPnL              float64
	WeeklyPnLPct           float64
	CurrentDrawdownPct     float64
	PositionsCount         int
	PortfolioAllocationPct float64
	BlockedReason          string
}
