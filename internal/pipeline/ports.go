package pipeline

import (
	"context"

	"github.com/minsuk-dev/hermes/internal/contracts"
)

// External interfaces the pipeline stages depend on. Each run receives its
// own client instances; no implementation may share mutable state between
// concurrent runs.

// AccountBalance is the account-level summary returned by a broker
type AccountBalance struct {
	TotalCash  float64
	TotalValue float64
	TotalPnl   float64
}

// AccountService provides the account and holdings queries for the snapshot
type AccountService interface {
	GetBalance(ctx context.Context) (*AccountBalance, error)
	GetHoldings(ctx context.Context) ([]contracts.Position, error)
}

// PriceQuote is one ticker's current market state
type PriceQuote struct {
	Price      float64
	ChangeRate float64
	Volume     int64
}

// LeaderQuote is one entry in the market-wide volume ranking
type LeaderQuote struct {
	Ticker     string
	Name       string
	Price      float64
	ChangeRate float64
	Volume     int64
}

// QuoteService provides per-ticker prices and the volume ranking
type QuoteService interface {
	GetPrice(ctx context.Context, ticker string) (*PriceQuote, error)
	GetVolumeLeaders(ctx context.Context, limit int) ([]LeaderQuote, error)
}

// OrderReceipt is the broker's answer to one order submission
type OrderReceipt struct {
	OrderID string
	Success bool
	Message string
}

// OrderService submits orders to the broker
type OrderService interface {
	SubmitOrder(ctx context.Context, action contracts.Action) (*OrderReceipt, error)
}

// FlowReader provides investor net-flow data. Optional: the analyzer treats
// a missing or failing implementation as a degraded sub-result.
type FlowReader interface {
	InvestorNetFlow(ctx context.Context, ticker string) (foreignNet, institutionNet int64, err error)
}

// TradeStore persists executed trade records
type TradeStore interface {
	InsertTradeRecord(ctx context.Context, record contracts.TradeRecord) error
}
