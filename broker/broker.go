package broker

import (
	"context"
	"time"
)

type OrderSide string

const (
	BuySide  OrderSide = "buy"
	SellSide OrderSide = "sell"
)

type OrderType string

const (
	Market    OrderType = "market"
	Limit     OrderType = "limit"
	Stop      OrderType = "stop"
	StopLimit OrderType = "stop_limit"
)

type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusAccepted        OrderStatus = "accepted"
	StatusFilled          OrderStatus = "filled"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusCancelled       OrderStatus = "cancelled"
	StatusRejected        OrderStatus = "rejected"
)

// Account is a snapshot of the brokerage account.
type Account struct {
	ID                    string
	Cash                  float64
	PortfolioValue        float64
	BuyingPower           float64
	Equity                float64
	LastEquity            float64
	DaytradingBuyingPower float64
	PatternDayTrader      bool
}

// Position is an open brokerage position.
type Position struct {
	Symbol          string
	Quantity        float64
	AvgEntryPrice   float64
	CurrentPrice    float64
	MarketValue     float64
	UnrealizedPL    float64
	UnrealizedPLPct float64
}

// Order is the broker's view of an order.
type Order struct {
	ID             string
	ClientOrderID  string
	Symbol         string
	Side           OrderSide
	Type           OrderType
	Qty            float64
	Status         OrderStatus
	LimitPrice     *float64
	StopPrice      *float64
	FilledQty      float64
	FilledAvgPrice *float64
	CreatedAt      time.Time
	FilledAt       *time.Time
}

// OrderRequest describes an order to submit. TakeProfit/StopLoss, when
// set on a buy, request a bracket order with attached exit legs.
type OrderRequest struct {
	Symbol     string
	Side       OrderSide
	Qty        float64
	Type       OrderType
	LimitPrice *float64
	StopPrice  *float64
	TakeProfit *float64
	StopLoss   *float64
}

// Broker is the narrow interface the trading loop depends on. Every
// call is synchronous and may fail; callers degrade to a logged skip.
type Broker interface {
	Connect(ctx context.Context) error
	GetAccount(ctx context.Context) (Account, error)
	GetPositions(ctx context.Context) ([]Position, error)
	GetPosition(ctx context.Context, symbol string) (*Position, error)
	SubmitOrder(ctx context.Context, req OrderRequest) (Order, error)
	ClosePosition(ctx context.Context, symbol string) (*Order, error)
	CloseAllPositions(ctx context.Context) ([]Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	GetOpenOrders(ctx context.Context) ([]Order, error)
}
