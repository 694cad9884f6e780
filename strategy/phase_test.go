package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/intraday/market"
)

func et(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, market.Exchange)
}

func TestPhaseAt(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want Phase
	}{
		{"midnight", et(0, 0), PreMarket},
		{"just before open", et(9, 29), PreMarket},
		{"open", et(9, 30), Noise},
		{"noise end boundary", et(9, 34), Noise},
		{"or calc start", et(9, 35), CalcOR},
		{"or calc last minute", et(9, 44), CalcOR},
		{"entry window start", et(9, 45), EntryWindow},
		{"entry window last minute", et(10, 59), EntryWindow},
		{"manage only start", et(11, 0), ManageOnly},
		{"manage only last minute", et(15, 54), ManageOnly},
		{"force close start", et(15, 55), ForceClose},
		{"force close last minute", et(15, 59), ForceClose},
		{"market close", et(16, 0), AfterHours},
		{"late evening", et(23, 59), AfterHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhaseAt(tt.at))
		})
	}
}

// Every minute of the day maps to exactly one phase and the sequence is
// monotone through the seven phases.
func TestPhasePartitionsDay(t *testing.T) {
	prev := PreMarket
	seen := map[Phase]bool{PreMarket: true}

	for m := 0; m < 24*60; m++ {
		p := PhaseAt(et(0, 0).Add(time.Duration(m) * time.Minute))
		assert.GreaterOrEqual(t, int(p), int(prev), "phase regressed at minute %d", m)
		seen[p] = true
		prev = p
	}

	assert.Len(t, seen, 7)
}

func TestPhaseAtIsIdempotent(t *testing.T) {
	at := et(10, 15)
	assert.Equal(t, PhaseAt(at), PhaseAt(at))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "pre_market", PreMarket.String())
	assert.Equal(t, "calc_or", CalcOR.String())
	assert.Equal(t, "after_hours", AfterHours.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
