package market

import "time"

// Bar represents one OHLCV candlestick for a single symbol.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Timeframe identifies the bar interval using the broker's notation.
type Timeframe string

const (
	OneMinute  Timeframe = "1Min"
	FiveMinute Timeframe = "5Min"
	OneDay     Timeframe = "1Day"
)

// Ascending reports whether bars are strictly time-ordered.
func Ascending(bars []Bar) bool {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			return false
		}
	}
	return true
}

// Tail returns the last n bars, or all of them if fewer exist.
func Tail(bars []Bar, n int) []Bar {
	if n <= 0 || len(bars) == 0 {
		return nil
	}
	if len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}

// Window returns the bars whose exchange-local time of day falls in
// [from, to) on the given exchange-local calendar day.
func Window(bars []Bar, day time.Time, from, to TimeOfDay) []Bar {
	y, m, d := day.In(Exchange).Date()

	var out []Bar
	for _, b := range bars {
		et := b.Timestamp.In(Exchange)
		by, bm, bd := et.Date()
		if by != y || bm != m || bd != d {
			continue
		}
		tod := TimeOfDayOf(et)
		if tod >= from && tod < to {
			out = append(out, b)
		}
	}
	return out
}
