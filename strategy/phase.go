package strategy

import (
	"time"

	"github.com/rustyeddy/intraday/market"
)

// Phase is the segment of the trading day a given wall-clock time falls
// into. The seven phases partition the full 24h day with no gap or
// overlap.
type Phase int

const (
	PreMarket Phase = iota
	Noise
	CalcOR
	EntryWindow
	ManageOnly
	ForceClose
	AfterHours
)

// Session boundaries in exchange-local time.
var (
	marketOpen     = market.Clock(9, 30)
	orCalcStart    = market.Clock(9, 35)
	orCalcEnd      = market.Clock(9, 45)
	entryWindowEnd = market.Clock(11, 0)
	forceCloseTime = market.Clock(15, 55)
	marketClose    = market.Clock(16, 0)
)

// PhaseAt maps a wall-clock time to its trading-day phase. It is a pure
// function; callers evaluate it fresh every tick rather than caching the
// result.
func PhaseAt(t time.Time) Phase {
	tod := market.TimeOfDayOf(t)

	switch {
	case tod < marketOpen:
		return PreMarket
	case tod < orCalcStart:
		return Noise
	case tod < orCalcEnd:
		return CalcOR
	case tod < entryWindowEnd:
		return EntryWindow
	case tod < forceCloseTime:
		return ManageOnly
	case tod < marketClose:
		return ForceClose
	default:
		return AfterHours
	}
}

func (p Phase) String() string {
	switch p {
	case PreMarket:
		return "pre_market"
	case Noise:
		return "noise"
	case CalcOR:
		return "calc_or"
	case EntryWindow:
		return "entry_window"
	case ManageOnly:
		return "manage_only"
	case ForceClose:
		return "force_close"
	case AfterHours:
		return "after_hours"
	default:
		return "unknown"
	}
}
