// Package alpaca implements the broker interface against the Alpaca
// trading API. Credentials come from the standard APCA_* environment
// variables, which the SDK reads on its own.
package alpaca

import (
	"context"
	"fmt"
	"log"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/intraday/broker"
)

type Client struct {
	trading *alpaca.Client
}

var _ broker.Broker = (*Client)(nil)

func New() *Client {
	return &Client{
		trading: alpaca.NewClient(alpaca.ClientOpts{}),
	}
}

// Connect verifies credentials by fetching the account once.
func (c *Client) Connect(ctx context.Context) error {
	acct, err := c.trading.GetAccount()
	if err != nil {
		return fmt.Errorf("alpaca connect: %w", err)
	}
	log.Printf("alpaca: connected account=%s status=%s equity=%s",
		acct.ID, acct.Status, acct.Equity.StringFixed(2))
	return nil
}

func (c *Client) GetAccount(ctx context.Context) (broker.Account, error) {
	acct, err := c.trading.GetAccount()
	if err != nil {
		return broker.Account{}, fmt.Errorf("get account: %w", err)
	}
	return broker.Account{
		ID:                    acct.ID,
		Cash:                  acct.Cash.InexactFloat64(),
		PortfolioValue:        acct.PortfolioValue.InexactFloat64(),
		BuyingPower:           acct.BuyingPower.InexactFloat64(),
		Equity:                acct.Equity.InexactFloat64(),
		LastEquity:            acct.LastEquity.InexactFloat64(),
		DaytradingBuyingPower: acct.DaytradingBuyingPower.InexactFloat64(),
		PatternDayTrader:      acct.PatternDayTrader,
	}, nil
}

func (c *Client) GetPositions(ctx context.Context) ([]broker.Position, error) {
	positions, err := c.trading.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}

	out := make([]broker.Position, 0, len(positions))
	for i := range positions {
		out = append(out, mapPosition(&positions[i]))
	}
	return out, nil
}

func (c *Client) GetPosition(ctx context.Context, symbol string) (*broker.Position, error) {
	p, err := c.trading.GetPosition(symbol)
	if err != nil {
		return nil, fmt.Errorf("get position %s: %w", symbol, err)
	}
	pos := mapPosition(p)
	return &pos, nil
}

func (c *Client) SubmitOrder(ctx context.Context, req broker.OrderRequest) (broker.Order, error) {
	qty := decimal.NewFromFloat(req.Qty)
	placeReq := alpaca.PlaceOrderRequest{
		Symbol:      req.Symbol,
		Qty:         &qty,
		Side:        alpaca.Side(req.Side),
		Type:        alpaca.OrderType(req.Type),
		TimeInForce: alpaca.Day,
	}
	if req.LimitPrice != nil {
		lp := decimal.NewFromFloat(*req.LimitPrice)
		placeReq.LimitPrice = &lp
	}
	if req.StopPrice != nil {
		sp := decimal.NewFromFloat(*req.StopPrice)
		placeReq.StopPrice = &sp
	}

	// Attached exit legs turn a buy into a bracket order.
	if req.Side == broker.BuySide && (req.TakeProfit != nil || req.StopLoss != nil) {
		placeReq.OrderClass = alpaca.Bracket
		if req.TakeProfit != nil {
			tp := decimal.NewFromFloat(*req.TakeProfit)
			placeReq.TakeProfit = &alpaca.TakeProfit{LimitPrice: &tp}
		}
		if req.StopLoss != nil {
			sl := decimal.NewFromFloat(*req.StopLoss)
			placeReq.StopLoss = &alpaca.StopLoss{StopPrice: &sl}
		}
	}

	o, err := c.trading.PlaceOrder(placeReq)
	if err != nil {
		return broker.Order{}, fmt.Errorf("submit order %s %s: %w", req.Side, req.Symbol, err)
	}
	return mapOrder(o), nil
}

func (c *Client) ClosePosition(ctx context.Context, symbol string) (*broker.Order, error) {
	o, err := c.trading.ClosePosition(symbol, alpaca.ClosePositionRequest{})
	if err != nil {
		return nil, fmt.Errorf("close position %s: %w", symbol, err)
	}
	order := mapOrder(o)
	return &order, nil
}

func (c *Client) CloseAllPositions(ctx context.Context) ([]broker.Order, error) {
	orders, err := c.trading.CloseAllPositions(alpaca.CloseAllPositionsRequest{
		CancelOrders: true,
	})
	if err != nil {
		return nil, fmt.Errorf("close all positions: %w", err)
	}

	out := make([]broker.Order, 0, len(orders))
	for i := range orders {
		out = append(out, mapOrder(&orders[i]))
	}
	return out, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	if err := c.trading.CancelOrder(orderID); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*broker.Order, error) {
	o, err := c.trading.GetOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	order := mapOrder(o)
	return &order, nil
}

func (c *Client) GetOpenOrders(ctx context.Context) ([]broker.Order, error) {
	orders, err := c.trading.GetOrders(alpaca.GetOrdersRequest{
		Status: "open",
		Limit:  100,
	})
	if err != nil {
		return nil, fmt.Errorf("get open orders: %w", err)
	}

	out := make([]broker.Order, 0, len(orders))
	for i := range orders {
		out = append(out, mapOrder(&orders[i]))
	}
	return out, nil
}

func mapPosition(p *alpaca.Position) broker.Position {
	return broker.Position{
		Symbol:          p.Symbol,
		Quantity:        p.Qty.InexactFloat64(),
		AvgEntryPrice:   p.AvgEntryPrice.InexactFloat64(),
		CurrentPrice:    derefDecimal(p.CurrentPrice),
		MarketValue:     derefDecimal(p.MarketValue),
		UnrealizedPL:    derefDecimal(p.UnrealizedPL),
		UnrealizedPLPct: derefDecimal(p.UnrealizedPLPC) * 100,
	}
}

func mapOrder(o *alpaca.Order) broker.Order {
	out := broker.Order{
		ID:            o.ID,
		ClientOrderID: o.ClientOrderID,
		Symbol:        o.Symbol,
		Side:          broker.OrderSide(o.Side),
		Type:          broker.OrderType(o.Type),
		Status:        broker.OrderStatus(o.Status),
		FilledQty:     o.FilledQty.InexactFloat64(),
		CreatedAt:     o.CreatedAt,
		FilledAt:      o.FilledAt,
	}
	if o.Qty != nil {
		out.Qty = o.Qty.InexactFloat64()
	}
	if o.LimitPrice != nil {
		v := o.LimitPrice.InexactFloat64()
		out.LimitPrice = &v
	}
	if o.StopPrice != nil {
		v := o.StopPrice.InexactFloat64()
		out.StopPrice = &v
	}
	if o.FilledAvgPrice != nil {
		v := o.FilledAvgPrice.InexactFloat64()
		out.FilledAvgPrice = &v
	}
	return out
}

func derefDecimal(d *decimal.Decimal) float64 {
	if d == nil {
		return 0
	}
	return d.InexactFloat64()
}
