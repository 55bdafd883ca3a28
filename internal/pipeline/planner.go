package pipeline

import (
	"fmt"
	"time"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/pkg/config"
)

// Score thresholds for the fixed decision policy
const (
	buyScoreThreshold  = 70
	sellScoreThreshold = 30
	buyCashRatioFloor  = 30.0
	sellLossThreshold  = -5.0
)

// Planner produces a candidate trade plan from the portfolio and market
// state. Pure: no I/O, same inputs always yield the same plan. The policy
// here is a fixed-rule placeholder with the same shape a model-backed
// generator would return.
type Planner struct {
	cfg config.TradingConfig
}

// NewPlanner creates a plan generator
func NewPlanner(cfg config.TradingConfig) *Planner {
	return &Planner{cfg: cfg}
}

// Plan applies the decision policy:
//   - score > 70 and cash ratio > 30: one buy of the default instrument
//   - score < 30: sell half of the first position (ticker order) whose
//     unrealized loss is beyond -5%; at most one sell per run
//   - otherwise: hold
func (p *Planner) Plan(snap *contracts.PortfolioSnapshot, signal *contracts.MarketSignal) (*contracts.TradePlan, error) {
	if snap == nil {
		return nil, &ErrMissingInput{Stage: "plan", Slot: "portfolio"}
	}
	if signal == nil {
		return nil, &ErrMissingInput{Stage: "plan", Slot: "market"}
	}

	var actions []contracts.Action
	var justification string

	switch {
	case signal.Score > buyScoreThreshold && snap.CashRatio > buyCashRatioFloor:
		actions = append(actions, contracts.Action{
			Type:     contracts.ActionBuy,
			Ticker:   p.cfg.DefaultBuyTicker,
			Quantity: int(p.cfg.DefaultBuyQty),
			Price:    float64(p.cfg.DefaultBuyPrice),
			Reason:   "market score is high and cash reserve allows a blue-chip buy",
		})
		justification = "bullish market with cash headroom: deploying reserve into the default instrument"

	case signal.Score < sellScoreThreshold:
		for _, pos := range snap.SortedPositions() {
			if pos.PnlRate < sellLossThreshold {
				qty := pos.Quantity / 2
				if qty < 1 {
					qty = 1
				}
				actions = append(actions, contracts.Action{
					Type:     contracts.ActionSell,
					Ticker:   pos.Ticker,
					Quantity: qty,
					Price:    pos.CurrentPrice,
					Reason:   fmt.Sprintf("cutting losses and managing risk (%.1f%% unrealized loss)", pos.PnlRate),
				})
				break // at most one sell per run
			}
		}
		justification = "bearish market: loss management and cash preservation take priority"

	default:
		justification = "neutral market: keeping current positions is appropriate"
	}

	if len(actions) == 0 {
		justification += "; watching from the sidelines is the best move in the current situation"
		actions = []contracts.Action{}
	}

	confidence := signal.Score + 30
	if confidence > 95 {
		confidence = 95
	}

	return &contracts.TradePlan{
		Actions:       actions,
		Justification: justification,
		Confidence:    confidence,
		PlannedAt:     time.Now(),
	}, nil
}
