package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/intraday/market"
)

func closesToBars(closes []float64) []market.Bar {
	base := time.Date(2025, 6, 2, 9, 30, 0, 0, market.Exchange)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Open:      c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return bars
}

// crossSeries is 25 bars: flat, a dip pulling the fast average under the
// slow one, then a rally that crosses the fast average back above.
func crossSeries() []float64 {
	closes := make([]float64, 0, 25)
	for i := 0; i < 10; i++ {
		closes = append(closes, 100)
	}
	for i := 0; i < 8; i++ {
		closes = append(closes, 98)
	}
	for i := 0; i < 7; i++ {
		closes = append(closes, 104+float64(i))
	}
	return closes
}

func TestMACross_Warmup(t *testing.T) {
	s := NewMACross(MACrossConfig{FastPeriod: 3, SlowPeriod: 5})

	sig := s.GenerateSignal(closesToBars([]float64{1, 2, 3, 4, 5}), "SPY", 100_000)
	assert.Equal(t, Hold, sig.Type)

	sig = s.GenerateSignal(nil, "SPY", 100_000)
	assert.Equal(t, Hold, sig.Type)
	assert.Zero(t, sig.Price)
}

func TestMACross_BuyOnCrossAbove(t *testing.T) {
	cfg := MACrossConfig{FastPeriod: 3, SlowPeriod: 10, StopLossPct: 0.02, TakeProfitPct: 0.05}
	s := NewMACross(cfg)

	bars := closesToBars(crossSeries())

	// Find the cross by replaying prefixes and asserting exactly one BUY.
	var buys []int
	for i := cfg.SlowPeriod + 1; i <= len(bars); i++ {
		if s.GenerateSignal(bars[:i], "SPY", 100_000).Type == Buy {
			buys = append(buys, i)
		}
	}
	require.Len(t, buys, 1)

	sig := s.GenerateSignal(bars[:buys[0]], "SPY", 100_000)
	require.Equal(t, Buy, sig.Type)
	assert.GreaterOrEqual(t, sig.Strength, 0.5)
	assert.LessOrEqual(t, sig.Strength, 1.0)
	require.NotNil(t, sig.StopLoss)
	require.NotNil(t, sig.TakeProfit)
	assert.InDelta(t, sig.Price*0.98, *sig.StopLoss, 1e-9)
	assert.InDelta(t, sig.Price*1.05, *sig.TakeProfit, 1e-9)
}

func TestMACross_SellOnCrossBelow(t *testing.T) {
	cfg := MACrossConfig{FastPeriod: 3, SlowPeriod: 10}
	s := NewMACross(cfg)

	// Rising then falling: the fast average crosses back under.
	closes := make([]float64, 0, 30)
	for i := 0; i < 15; i++ {
		closes = append(closes, 100+float64(i))
	}
	for i := 0; i < 15; i++ {
		closes = append(closes, 114-3*float64(i))
	}
	bars := closesToBars(closes)

	var sells int
	for i := cfg.SlowPeriod + 1; i <= len(bars); i++ {
		sig := s.GenerateSignal(bars[:i], "SPY", 100_000)
		if sig.Type == Sell {
			sells++
			assert.Nil(t, sig.StopLoss)
			assert.Equal(t, "cross_below", sig.Reason())
		}
	}
	assert.Equal(t, 1, sells)
}

func TestMACross_PrefixMatchesDirect(t *testing.T) {
	cfg := MACrossConfig{FastPeriod: 3, SlowPeriod: 10}
	bars := closesToBars(crossSeries())

	withPrefix := NewMACross(cfg)
	withPrefix.CalculateIndicators(bars)
	direct := NewMACross(cfg)

	for i := cfg.SlowPeriod + 1; i <= len(bars); i++ {
		a := withPrefix.GenerateSignal(bars[:i], "SPY", 100_000)
		b := direct.GenerateSignal(bars[:i], "SPY", 100_000)
		assert.Equal(t, b.Type, a.Type, "prefix and direct paths diverge at bar %d", i)
	}
}

func TestNewMACross_Defaults(t *testing.T) {
	s := NewMACross(MACrossConfig{})
	assert.Equal(t, 10, s.FastPeriod)
	assert.Equal(t, 20, s.SlowPeriod)

	s = NewMACross(MACrossConfig{FastPeriod: 8, SlowPeriod: 4})
	assert.Equal(t, 16, s.SlowPeriod)
}

func TestByName(t *testing.T) {
	s, err := ByName("orb", ORBConfigDefaults(), MACrossConfigDefaults())
	require.NoError(t, err)
	assert.Equal(t, "Opening Range Breakout", s.Name())

	s, err = ByName(" MA-Cross ", ORBConfigDefaults(), MACrossConfigDefaults())
	require.NoError(t, err)
	assert.Equal(t, "MA Crossover", s.Name())

	_, err = ByName("bogus", ORBConfigDefaults(), MACrossConfigDefaults())
	assert.Error(t, err)
}
