package data

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/rustyeddy/intraday/market"
)

// AlpacaSource fetches historical bars from the Alpaca market data API.
// Credentials come from the standard APCA_* environment variables.
type AlpacaSource struct {
	md *marketdata.Client
}

var _ BarSource = (*AlpacaSource)(nil)

func NewAlpacaSource() *AlpacaSource {
	return &AlpacaSource{
		md: marketdata.NewClient(marketdata.ClientOpts{}),
	}
}

func (s *AlpacaSource) GetBars(ctx context.Context, symbol string, timeframe market.Timeframe, limit int) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tf, lookback, err := mapTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	raw, err := s.md.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  tf,
		Start:      time.Now().Add(-lookback),
		TotalLimit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("get bars %s: %w", symbol, err)
	}

	bars := make([]market.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, market.Bar{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    int64(b.Volume),
		})
	}
	if len(bars) > limit && limit > 0 {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

// mapTimeframe converts our timeframe to the SDK's and picks a request
// window wide enough to cover limit bars across weekends and halts.
func mapTimeframe(tf market.Timeframe) (marketdata.TimeFrame, time.Duration, error) {
	switch tf {
	case market.OneMinute:
		return marketdata.OneMin, 5 * 24 * time.Hour, nil
	case market.FiveMinute:
		return marketdata.NewTimeFrame(5, marketdata.Min), 10 * 24 * time.Hour, nil
	case market.OneDay:
		return marketdata.OneDay, 365 * 24 * time.Hour, nil
	default:
		return marketdata.TimeFrame{}, 0, fmt.Errorf("unsupported timeframe %q", tf)
	}
}
