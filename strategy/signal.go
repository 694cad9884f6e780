package strategy

import "time"

type SignalType string

const (
	Buy  SignalType = "BUY"
	Sell SignalType = "SELL"
	Hold SignalType = "HOLD"
)

// Signal is one strategy decision for one symbol at one evaluation tick.
// It is ephemeral; nothing holds a Signal across ticks.
type Signal struct {
	Symbol     string
	Type       SignalType
	Strength   float64 // [0,1]
	Price      float64
	Timestamp  time.Time
	StopLoss   *float64
	TakeProfit *float64
	Metadata   map[string]any
}

// Reason returns the "reason" metadata entry, if present. SELL signals
// carry the exit reason here ("stop_loss", "take_profit", ...).
func (s Signal) Reason() string {
	if s.Metadata == nil {
		return ""
	}
	r, _ := s.Metadata["reason"].(string)
	return r
}
