package data

import (
	"context"

	"github.com/rustyeddy/intraday/market"
)

// BarSource yields historical bars for one symbol, ascending by
// timestamp, possibly empty. Implementations own their own timeouts;
// a failed fetch is an error, never a panic.
type BarSource interface {
	GetBars(ctx context.Context, symbol string, timeframe market.Timeframe, limit int) ([]market.Bar, error)
}
