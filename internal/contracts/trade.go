package contracts

import "time"

// TradeRecord is the durable record of one executed order, including the
// market and portfolio context the decision was made against.
type TradeRecord struct {
	TradeID          string             `json:"trade_id"`
	RunID            string             `json:"run_id"`
	Ticker           string             `json:"ticker"`
	Action           ActionType         `json:"action"`
	Quantity         int                `json:"quantity"`
	Price            float64            `json:"price"`
	Reason           string             `json:"reason"`
	ExecutedAt       time.Time          `json:"executed_at"`
	MarketContext    *MarketSignal      `json:"market_context,omitempty"`
	PortfolioContext *PortfolioSnapshot `json:"portfolio_context,omitempty"`
}
