// Package live runs the intraday polling loop: one full scan of the
// symbol universe per iteration, fixed sleep in between. A failing
// broker or data call degrades to "no data this tick" for that symbol;
// it never aborts the iteration.
package live

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rustyeddy/intraday/broker"
	"github.com/rustyeddy/intraday/data"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/notify"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/strategy"
)

// Loop wires the strategy, risk manager, and broker into one polled
// trading session. Single-threaded: all state below is touched only by
// Run's goroutine.
type Loop struct {
	Broker   broker.Broker
	Data     data.BarSource
	Strategy strategy.Strategy
	Risk     *risk.Manager
	Notify   *notify.Notifier

	Symbols      []string
	Timeframe    market.Timeframe
	BarLimit     int
	PollInterval time.Duration

	// Now is the session clock, injectable for tests.
	Now func() time.Time

	startEquity float64
	riskClosed  bool
}

// Run executes the session until the market closes, the force-close
// window liquidates, or ctx is cancelled. Cancellation is cooperative:
// the current iteration finishes before the loop exits.
func (l *Loop) Run(ctx context.Context) error {
	if l.Now == nil {
		l.Now = market.Now
	}
	if l.PollInterval <= 0 {
		l.PollInterval = time.Minute
	}

	if err := l.Broker.Connect(ctx); err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}

	account, err := l.Broker.GetAccount(ctx)
	if err != nil {
		return fmt.Errorf("initial account fetch: %w", err)
	}
	l.startEquity = account.Equity
	l.Risk.UpdateEquityTracking(account.Equity)

	log.Printf("live: session start, strategy=%s symbols=%d equity=$%.2f",
		l.Strategy.Name(), len(l.Symbols), l.startEquity)

	for {
		if done := l.iteration(ctx); done {
			break
		}
		if !l.pause(ctx) {
			log.Printf("live: cancelled, finishing session")
			break
		}
	}

	l.summary(ctx)
	return nil
}

// iteration runs one scan. It returns true when the trading day is
// over and the loop should stop.
func (l *Loop) iteration(ctx context.Context) bool {
	now := l.Now()
	phase := strategy.PhaseAt(now)

	switch phase {
	case strategy.PreMarket, strategy.Noise:
		log.Printf("live: [%s] waiting for session (%s)", now.Format("15:04:05"), phase)
		return false
	case strategy.ForceClose:
		log.Printf("live: force-close window, liquidating")
		if _, err := l.Broker.CloseAllPositions(ctx); err != nil {
			log.Printf("live: close all failed: %v", err)
		}
		l.Notify.Alert("force-close window reached, all positions liquidated")
		return true
	case strategy.AfterHours:
		log.Printf("live: after hours, session over")
		return true
	}

	account, err := l.Broker.GetAccount(ctx)
	if err != nil {
		log.Printf("live: account fetch failed, skipping tick: %v", err)
		return false
	}
	l.Risk.UpdateEquityTracking(account.Equity)

	positions, err := l.Broker.GetPositions(ctx)
	if err != nil {
		log.Printf("live: positions fetch failed, skipping tick: %v", err)
		return false
	}

	st := l.Risk.GetRiskStatus(account, positions)
	if !st.CanTrade {
		log.Printf("live: trading blocked: %s", st.BlockedReason)
		if !l.riskClosed && len(positions) > 0 {
			if _, err := l.Broker.CloseAllPositions(ctx); err != nil {
				log.Printf("live: close all failed: %v", err)
			} else {
				l.riskClosed = true
				l.Notify.Alert(fmt.Sprintf("risk stop: %s, positions closed", st.BlockedReason))
			}
		}
		return false
	}

	for _, symbol := range l.Symbols {
		if err := l.evalSymbol(ctx, symbol, account, positions); err != nil {
			log.Printf("live: %s: %v", symbol, err)
		}
	}

	log.Printf("live: [%s] equity=$%.2f dayPnL=$%+.2f positions=%d",
		now.Format("15:04:05"), account.Equity, account.Equity-l.startEquity, len(positions))
	return false
}

// evalSymbol generates and executes one symbol's signal. Panics inside
// a symbol's evaluation are contained here so one bad symbol cannot
// abort the scan.
func (l *Loop) evalSymbol(ctx context.Context, symbol string, account broker.Account, positions []broker.Position) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluate: %v", r)
		}
	}()

	bars, err := l.Data.GetBars(ctx, symbol, l.Timeframe, l.BarLimit)
	if err != nil {
		return fmt.Errorf("get bars: %w", err)
	}
	if len(bars) == 0 {
		return nil
	}

	sig := l.Strategy.GenerateSignal(bars, symbol, account.Equity)

	switch sig.Type {
	case strategy.Buy:
		ok, reason, dollars := l.Risk.ValidateSignal(sig, account, positions)
		if !ok {
			log.Printf("live: %s buy rejected: %s", symbol, reason)
			return nil
		}
		qty := l.Risk.Shares(dollars, sig.Price)
		if qty <= 0 {
			return nil
		}

		req := broker.OrderRequest{
			Symbol: symbol,
			Side:   broker.BuySide,
			Qty:    float64(qty),
			Type:   broker.Market,
		}
		// Bracket legs: the strategy's levels win, the risk manager's
		// defaults back them up.
		if req.StopLoss = sig.StopLoss; req.StopLoss == nil {
			sl := l.Risk.StopLossPrice(sig.Price)
			req.StopLoss = &sl
		}
		if req.TakeProfit = sig.TakeProfit; req.TakeProfit == nil {
			tp := l.Risk.TakeProfitPrice(sig.Price)
			req.TakeProfit = &tp
		}

		order, err := l.Broker.SubmitOrder(ctx, req)
		if err != nil {
			return fmt.Errorf("submit order: %w", err)
		}
		log.Printf("live: %s BUY %d @ $%.2f stop=$%.2f target=$%.2f order=%s",
			symbol, qty, sig.Price, *req.StopLoss, *req.TakeProfit, order.ID)
		l.Notify.Alert(fmt.Sprintf("BUY %s: %d shares @ $%.2f", symbol, qty, sig.Price))

	case strategy.Sell:
		if !hasPosition(positions, symbol) {
			return nil
		}
		order, err := l.Broker.ClosePosition(ctx, symbol)
		if err != nil {
			return fmt.Errorf("close position: %w", err)
		}
		reason := sig.Reason()
		log.Printf("live: %s SELL (%s)", symbol, reason)
		if order != nil {
			l.Notify.Alert(fmt.Sprintf("SELL %s (%s)", symbol, reason))
		}
	}

	return nil
}

// pause sleeps one poll interval, returning false if ctx is cancelled
// first.
func (l *Loop) pause(ctx context.Context) bool {
	t := time.NewTimer(l.PollInterval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (l *Loop) summary(ctx context.Context) {
	account, err := l.Broker.GetAccount(ctx)
	if err != nil {
		log.Printf("live: final account fetch failed: %v", err)
		return
	}

	pnl := account.Equity - l.startEquity
	pct := 0.0
	if l.startEquity > 0 {
		pct = pnl / l.startEquity * 100
	}

	log.Printf("live: session summary: start=$%.2f end=$%.2f pnl=$%+.2f (%+.2f%%)",
		l.startEquity, account.Equity, pnl, pct)
	l.Notify.Alert(fmt.Sprintf("session over: P/L $%+.2f (%+.2f%%)", pnl, pct))
}

func hasPosition(positions []broker.Position, symbol string) bool {
	for _, p := range positions {
		if p.Symbol == symbol {
			return true
		}
	}
	return false
}
