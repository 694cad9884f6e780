package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/intraday/market"
)

// orBar builds a 1m bar at the given exchange-local clock time.
func orBar(hour, minute int, high, low float64, volume int64) market.Bar {
	ts := time.Date(2025, 6, 2, hour, minute, 0, 0, market.Exchange)
	return market.Bar{
		Timestamp: ts,
		Open:      low, High: high, Low: low, Close: high,
		Volume: volume,
	}
}

func orDay() time.Time {
	return time.Date(2025, 6, 2, 0, 0, 0, 0, market.Exchange)
}

func TestComputeOpeningRange_Pending(t *testing.T) {
	// Only 4 bars inside the window.
	var bars []market.Bar
	for i := 0; i < 4; i++ {
		bars = append(bars, orBar(9, 35+i, 101, 100, 1000))
	}

	or := ComputeOpeningRange("SPY", bars, orDay(), market.Clock(9, 35), market.Clock(9, 45), 0.002)
	assert.Equal(t, ORPending, or.State)
	assert.Zero(t, or.High)
}

func TestComputeOpeningRange_Valid(t *testing.T) {
	// high=101, low=100 -> range/low = 1% >= 0.2%
	var bars []market.Bar
	for i := 0; i < 10; i++ {
		bars = append(bars, orBar(9, 35+i, 101, 100, 1000+int64(i)))
	}

	or := ComputeOpeningRange("SPY", bars, orDay(), market.Clock(9, 35), market.Clock(9, 45), 0.002)
	assert.Equal(t, ORValid, or.State)
	assert.Equal(t, 101.0, or.High)
	assert.Equal(t, 100.0, or.Low)
	assert.InDelta(t, 1.0, or.Range, 1e-9)
	assert.InDelta(t, 1004.5, or.AvgVolume, 1e-9)
	assert.Equal(t, "SPY", or.Symbol)
}

func TestComputeOpeningRange_ValidAtThreshold(t *testing.T) {
	// range/low exactly equal to the minimum is valid (inclusive).
	var bars []market.Bar
	for i := 0; i < 6; i++ {
		bars = append(bars, orBar(9, 35+i, 100.2, 100, 1000))
	}

	or := ComputeOpeningRange("QQQ", bars, orDay(), market.Clock(9, 35), market.Clock(9, 45), 0.002)
	assert.Equal(t, ORValid, or.State)
}

func TestComputeOpeningRange_Invalid(t *testing.T) {
	t.Run("too narrow", func(t *testing.T) {
		var bars []market.Bar
		for i := 0; i < 6; i++ {
			bars = append(bars, orBar(9, 35+i, 100.1, 100, 1000))
		}
		or := ComputeOpeningRange("IWM", bars, orDay(), market.Clock(9, 35), market.Clock(9, 45), 0.002)
		assert.Equal(t, ORInvalid, or.State)
	})

	t.Run("non-positive low", func(t *testing.T) {
		var bars []market.Bar
		for i := 0; i < 6; i++ {
			bars = append(bars, orBar(9, 35+i, 1, 0, 1000))
		}
		or := ComputeOpeningRange("XXX", bars, orDay(), market.Clock(9, 35), market.Clock(9, 45), 0.002)
		assert.Equal(t, ORInvalid, or.State)
	})
}

func TestComputeOpeningRange_AvgVolumeUsesFullSeries(t *testing.T) {
	// Bars outside the window still count toward the trailing volume mean.
	var bars []market.Bar
	for i := 0; i < 5; i++ {
		bars = append(bars, orBar(9, 30+i, 101, 100, 9000)) // noise phase
	}
	for i := 0; i < 5; i++ {
		bars = append(bars, orBar(9, 35+i, 101, 100, 1000)) // window
	}

	or := ComputeOpeningRange("SPY", bars, orDay(), market.Clock(9, 35), market.Clock(9, 45), 0.002)
	assert.Equal(t, ORValid, or.State)
	assert.InDelta(t, 5000.0, or.AvgVolume, 1e-9)
}
