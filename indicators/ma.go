package indicators

import (
	"fmt"

	"github.com/rustyeddy/intraday/market"
)

// SMA calculates the Simple Moving Average of closing prices for the
// given period, using the most recent bars.
func SMA(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period, len(bars))
	}

	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].Close
	}
	return sum / float64(period), nil
}

// AvgVolume returns the mean volume of the trailing n bars. If fewer than
// n bars exist the mean is taken over what is available; an empty series
// yields 0.
func AvgVolume(bars []market.Bar, n int) float64 {
	tail := market.Tail(bars, n)
	if len(tail) == 0 {
		return 0
	}

	sum := 0.0
	for _, b := range tail {
		sum += float64(b.Volume)
	}
	return sum / float64(len(tail))
}
