package strategy

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/intraday/market"
)

// Strategy is the capability contract shared by the live loop and the
// backtest engine. Neither depends on a concrete strategy type.
type Strategy interface {
	Name() string

	// CalculateIndicators precomputes whatever derived series the
	// strategy needs over the full bar history. The backtest engine
	// calls it once before replaying; strategies that work from raw
	// bars may treat it as a no-op.
	CalculateIndicators(bars []market.Bar)

	// GenerateSignal returns the decision for the latest bar of the
	// series. equity is the current account equity used for sizing.
	GenerateSignal(bars []market.Bar, symbol string, equity float64) Signal
}

// ByName constructs one of the reference strategies from its CLI name.
func ByName(name string, cfg ORBConfig, maCfg MACrossConfig) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "orb", "opening-range-breakout":
		return NewORB(cfg), nil

	case "ma-cross", "macross":
		return NewMACross(maCfg), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: orb, ma-cross)", name)
	}
}
