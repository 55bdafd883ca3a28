package contracts

import (
	"fmt"
	"time"
)

// ActionType is the kind of trade an action requests
type ActionType string

const (
	ActionBuy  ActionType = "buy"
	ActionSell ActionType = "sell"
)

// Action is one intended trade in a plan
type Action struct {
	Type     ActionType `json:"type"`
	Ticker   string     `json:"ticker"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Reason   string     `json:"reason"`
}

// Amount returns the notional value of the action
func (a Action) Amount() float64 {
	return float64(a.Quantity) * a.Price
}

// Validate checks a single action's invariants
func (a Action) Validate() error {
	if a.Type != ActionBuy && a.Type != ActionSell {
		return fmt.Errorf("unknown action type: %q", a.Type)
	}
	if a.Ticker == "" {
		return fmt.Errorf("action with empty ticker")
	}
	if a.Quantity <= 0 {
		return fmt.Errorf("non-positive quantity for %s: %d", a.Ticker, a.Quantity)
	}
	if a.Price <= 0 {
		return fmt.Errorf("non-positive price for %s: %.0f", a.Ticker, a.Price)
	}
	return nil
}

// TradePlan is the planner's output. An empty Actions list is a valid plan
// meaning "hold"; Justification explains the decision either way.
type TradePlan struct {
	Actions       []Action  `json:"actions"`
	Justification string    `json:"justification"`
	Confidence    int       `json:"confidence"` // 0-100
	PlannedAt     time.Time `json:"planned_at"`
}

// IsHold reports whether the plan requests no trades
func (p *TradePlan) IsHold() bool {
	return len(p.Actions) == 0
}
