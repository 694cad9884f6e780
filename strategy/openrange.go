package strategy

import (
	"time"

	"github.com/rustyeddy/intraday/indicators"
	"github.com/rustyeddy/intraday/market"
)

// ORState distinguishes "not yet computable" from "computed but too
// narrow to trade". Absence and invalidity are never conflated.
type ORState int

const (
	ORPending ORState = iota // fewer than minORBars inside the window
	ORInvalid                // computed, fails the minimum range check
	ORValid                  // computed, tradeable reference band
)

func (s ORState) String() string {
	switch s {
	case ORPending:
		return "pending"
	case ORInvalid:
		return "invalid"
	case ORValid:
		return "valid"
	default:
		return "unknown"
	}
}

// OpeningRange is the per-symbol, per-day breakout reference band derived
// from the early-session bar window.
type OpeningRange struct {
	Symbol    string
	Date      time.Time
	High      float64
	Low       float64
	Range     float64
	AvgVolume float64
	State     ORState
}

// minORBars is the minimum number of one-minute bars required inside the
// OR window before the band is considered computable.
const minORBars = 5

// avgVolumeBars is the trailing-volume lookback, taken over the full
// series rather than just the OR window.
const avgVolumeBars = 20

// ComputeOpeningRange derives the opening range for one symbol on one
// exchange-local day. bars is the full available 1-minute series; only
// bars inside [from, to) on day contribute to the band itself.
//
// A Pending result means the caller should hold and retry; it is not an
// error.
func ComputeOpeningRange(symbol string, bars []market.Bar, day time.Time, from, to market.TimeOfDay, minRangePct float64) OpeningRange {
	or := OpeningRange{
		Symbol: symbol,
		Date:   market.ExchangeDate(day),
		State:  ORPending,
	}

	window := market.Window(bars, day, from, to)
	if len(window) < minORBars {
		return or
	}

	or.High = window[0].High
	or.Low = window[0].Low
	for _, b := range window[1:] {
		if b.High > or.High {
			or.High = b.High
		}
		if b.Low < or.Low {
			or.Low = b.Low
		}
	}
	or.Range = or.High - or.Low
	or.AvgVolume = indicators.AvgVolume(bars, avgVolumeBars)

	if or.Low > 0 && or.Range/or.Low >= minRangePct {
		or.State = ORValid
	} else {
		or.State = ORInvalid
	}
	return or
}
