package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/intraday/market"
)

func bars(closes ...float64) []market.Bar {
	base := time.Date(2025, 6, 2, 9, 30, 0, 0, market.Exchange)
	out := make([]market.Bar, len(closes))
	for i, c := range closes {
		out[i] = market.Bar{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Open:      c, High: c, Low: c, Close: c,
			Volume: int64(1000 * (i + 1)),
		}
	}
	return out
}

func TestSMA(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		got, err := SMA(bars(1, 2, 3, 4, 5), 5)
		assert.NoError(t, err)
		assert.Equal(t, 3.0, got)
	})

	t.Run("uses most recent bars", func(t *testing.T) {
		got, err := SMA(bars(100, 1, 2, 3), 3)
		assert.NoError(t, err)
		assert.Equal(t, 2.0, got)
	})

	t.Run("not enough bars", func(t *testing.T) {
		_, err := SMA(bars(1, 2), 3)
		assert.Error(t, err)
	})

	t.Run("bad period", func(t *testing.T) {
		_, err := SMA(bars(1, 2, 3), 0)
		assert.Error(t, err)
	})
}

func TestAvgVolume(t *testing.T) {
	b := bars(1, 2, 3, 4) // volumes 1000..4000

	assert.Equal(t, 3500.0, AvgVolume(b, 2))
	assert.Equal(t, 2500.0, AvgVolume(b, 10)) // fewer bars than requested
	assert.Equal(t, 0.0, AvgVolume(nil, 20))
}
