package pipeline

import (
	"context"
	"time"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// GateState is the execution gate's state, driven solely by the risk verdict
type GateState string

const (
	// GateClosed 검증 실패: 주문 인터페이스에 접근하지 않음
	GateClosed GateState = "gated"
	// GateOpen 검증 통과: 계획 순서대로 순차 주문
	GateOpen GateState = "dispatching"
)

// ResolveGate is the single predicate deciding whether orders dispatch.
// No other condition may gate execution.
func ResolveGate(verdict *contracts.RiskVerdict) GateState {
	if verdict != nil && verdict.IsValid {
		return GateOpen
	}
	return GateClosed
}

// Dispatcher submits a validated plan's actions through the order interface.
type Dispatcher struct {
	orders OrderService
	delay  time.Duration
	logger *logger.Logger
}

// NewDispatcher creates an order dispatcher. delay is the fixed pause
// between successive submissions.
func NewDispatcher(orders OrderService, delay time.Duration, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		orders: orders,
		delay:  delay,
		logger: log,
	}
}

// Dispatch runs the gate and, when open, submits actions sequentially in
// plan order. Each submission's outcome is recorded independently: one
// failure never aborts the remaining actions, and an unexpected error is
// recorded as a failed order rather than propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, plan *contracts.TradePlan, verdict *contracts.RiskVerdict) *contracts.ExecutionOutcome {
	if ResolveGate(verdict) == GateClosed {
		d.logger.Warn("Risk validation failed, execution gated")
		return contracts.NewSkippedOutcome()
	}

	executed := []contracts.OrderRecord{}
	failed := []contracts.FailedOrder{}

	d.logger.WithField("actions", len(plan.Actions)).Info("Dispatching orders")

	for i, action := range plan.Actions {
		if i > 0 && d.delay > 0 {
			time.Sleep(d.delay)
		}

		receipt, err := d.orders.SubmitOrder(ctx, action)
		switch {
		case err != nil:
			failed = append(failed, contracts.FailedOrder{
				Ticker:   action.Ticker,
				Type:     action.Type,
				Quantity: action.Quantity,
				Price:    action.Price,
				Reason:   action.Reason,
				Error:    err.Error(),
				FailedAt: time.Now(),
			})
			d.logger.WithError(err).WithField("ticker", action.Ticker).Error("Order submission errored")

		case !receipt.Success:
			failed = append(failed, contracts.FailedOrder{
				Ticker:   action.Ticker,
				Type:     action.Type,
				Quantity: action.Quantity,
				Price:    action.Price,
				Reason:   action.Reason,
				Error:    receipt.Message,
				FailedAt: time.Now(),
			})
			d.logger.WithFields(map[string]interface{}{
				"ticker":  action.Ticker,
				"message": receipt.Message,
			}).Error("Order rejected")

		default:
			executed = append(executed, contracts.OrderRecord{
				OrderID:     receipt.OrderID,
				Ticker:      action.Ticker,
				Type:        action.Type,
				Quantity:    action.Quantity,
				Price:       action.Price,
				Reason:      action.Reason,
				SubmittedAt: time.Now(),
			})
			d.logger.WithFields(map[string]interface{}{
				"ticker":   action.Ticker,
				"order_id": receipt.OrderID,
			}).Info("Order submitted")
		}
	}

	return contracts.NewExecutionOutcome(executed, failed)
}
