package pipeline

import (
	"fmt"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/pkg/config"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// Validator applies the hard risk limits to a candidate plan. It never
// returns an error: every plan yields a verdict, and all four checks run
// unconditionally so the violation list enumerates every problem at once.
type Validator struct {
	cfg    config.TradingConfig
	logger *logger.Logger
}

// NewValidator creates a risk validator
func NewValidator(cfg config.TradingConfig, log *logger.Logger) *Validator {
	return &Validator{cfg: cfg, logger: log}
}

// Validate runs the four risk checks against the plan:
//  1. cash sufficiency: total buy cost must not exceed available cash
//  2. position concentration: no single ticker beyond the max ratio
//  3. daily loss ceiling: existing unrealized losses must stay under the
//     limit; the check reads the current portfolio, not the plan's
//     projected loss
//  4. price sanity: every target price must be positive
func (v *Validator) Validate(snap *contracts.PortfolioSnapshot, plan *contracts.TradePlan) *contracts.RiskVerdict {
	checks := []contracts.CheckResult{
		v.checkCash(snap, plan),
		v.checkConcentration(snap, plan),
		v.checkDailyLoss(snap),
		v.checkPrices(plan),
	}

	verdict := contracts.NewRiskVerdict(checks)

	v.logger.WithFields(map[string]interface{}{
		"is_valid":   verdict.IsValid,
		"violations": len(verdict.Violations),
	}).Info("Risk validation complete")

	return verdict
}

func (v *Validator) checkCash(snap *contracts.PortfolioSnapshot, plan *contracts.TradePlan) contracts.CheckResult {
	result := contracts.CheckResult{Name: contracts.CheckCash, Passed: true}

	var required float64
	for _, action := range plan.Actions {
		if action.Type == contracts.ActionBuy {
			required += action.Amount()
		}
	}

	if required > snap.Cash {
		result.Passed = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("insufficient cash: required %.0f exceeds available %.0f", required, snap.Cash))
	}
	return result
}

func (v *Validator) checkConcentration(snap *contracts.PortfolioSnapshot, plan *contracts.TradePlan) contracts.CheckResult {
	result := contracts.CheckResult{Name: contracts.CheckConcentration, Passed: true}

	for _, action := range plan.Actions {
		if action.Type != contracts.ActionBuy {
			continue
		}
		if snap.TotalValue <= 0 {
			continue
		}

		var existing float64
		if pos := snap.Position(action.Ticker); pos != nil {
			existing = pos.EvalAmount
		}

		ratio := (existing + action.Amount()) / snap.TotalValue * 100
		if ratio > v.cfg.MaxPositionRatio {
			result.Passed = false
			result.Violations = append(result.Violations,
				fmt.Sprintf("%s position too large: %.1f%% exceeds %.1f%%", action.Ticker, ratio, v.cfg.MaxPositionRatio))
		}
	}
	return result
}

func (v *Validator) checkDailyLoss(snap *contracts.PortfolioSnapshot) contracts.CheckResult {
	result := contracts.CheckResult{Name: contracts.CheckDailyLoss, Passed: true}

	var currentLoss float64
	for _, pos := range snap.Positions {
		if pos.PnlAmount < 0 {
			currentLoss += -pos.PnlAmount
		}
	}

	maxLoss := snap.TotalValue * v.cfg.DailyLossRatio / 100
	if currentLoss > maxLoss {
		result.Passed = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("daily loss ceiling breached: %.0f exceeds %.0f", currentLoss, maxLoss))
	}
	return result
}

func (v *Validator) checkPrices(plan *contracts.TradePlan) contracts.CheckResult {
	result := contracts.CheckResult{Name: contracts.CheckPrice, Passed: true}

	for _, action := range plan.Actions {
		if action.Price <= 0 {
			result.Passed = false
			result.Violations = append(result.Violations,
				fmt.Sprintf("invalid target price for %s: %.0f", action.Ticker, action.Price))
		}
	}
	return result
}
