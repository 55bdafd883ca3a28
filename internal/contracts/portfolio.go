package contracts

import (
	"fmt"
	"sort"
	"time"
)

// Position is one holding in the account
type Position struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	AvgBuyPrice  float64 `json:"avg_buy_price"`
	CurrentPrice float64 `json:"current_price"`
	EvalAmount   float64 `json:"eval_amount"`
	PnlAmount    float64 `json:"pnl_amount"`
	PnlRate      float64 `json:"pnl_rate"` // 수익률 (%)
}

// PortfolioSnapshot is the account picture taken at the start of a run
type PortfolioSnapshot struct {
	Cash       float64    `json:"cash"`        // 주문가능현금
	TotalValue float64    `json:"total_value"` // 총평가금액
	TotalPnl   float64    `json:"total_pnl"`
	CashRatio  float64    `json:"cash_ratio"` // 현금 비중 (%)
	Positions  []Position `json:"positions"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// NewPortfolioSnapshot builds a snapshot and derives the cash ratio.
// An empty account (total value zero) is 100% cash, not a division error.
func NewPortfolioSnapshot(cash, totalValue, totalPnl float64, positions []Position) *PortfolioSnapshot {
	ratio := 100.0
	if totalValue > 0 {
		ratio = cash / totalValue * 100.0
	}
	if positions == nil {
		positions = []Position{}
	}
	return &PortfolioSnapshot{
		Cash:       cash,
		TotalValue: totalValue,
		TotalPnl:   totalPnl,
		CashRatio:  ratio,
		Positions:  positions,
		FetchedAt:  time.Now(),
	}
}

// Position returns the holding for a ticker, or nil
func (p *PortfolioSnapshot) Position(ticker string) *Position {
	for i := range p.Positions {
		if p.Positions[i].Ticker == ticker {
			return &p.Positions[i]
		}
	}
	return nil
}

// SortedPositions returns positions in ticker order. Planning scans holdings
// in this order so the same snapshot always yields the same plan.
func (p *PortfolioSnapshot) SortedPositions() []Position {
	out := make([]Position, len(p.Positions))
	copy(out, p.Positions)
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// Validate checks invariants before the snapshot enters the state
func (p *PortfolioSnapshot) Validate() error {
	if p.Cash < 0 {
		return fmt.Errorf("negative cash: %.0f", p.Cash)
	}
	if p.TotalValue < 0 {
		return fmt.Errorf("negative total value: %.0f", p.TotalValue)
	}
	for _, pos := range p.Positions {
		if pos.Ticker == "" {
			return fmt.Errorf("position with empty ticker")
		}
		if pos.Quantity < 0 {
			return fmt.Errorf("negative quantity for %s: %d", pos.Ticker, pos.Quantity)
		}
	}
	return nil
}
