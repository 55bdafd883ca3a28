package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// Reporter persists executed trades and renders the run's final report.
type Reporter struct {
	store  TradeStore // nil disables persistence
	logger *logger.Logger
}

// NewReporter creates a reporter. store may be nil when no database is
// configured; persistence then degrades to a log entry.
func NewReporter(store TradeStore, log *logger.Logger) *Reporter {
	return &Reporter{store: store, logger: log}
}

// Report saves one trade record per executed order and assembles the final
// report from every populated slot. Individual persistence failures are
// logged and counted but never fail the stage.
func (r *Reporter) Report(ctx context.Context, state contracts.RunState) (*contracts.ReportOutcome, error) {
	if state.Execution == nil {
		return nil, &ErrMissingInput{Stage: "report", Slot: "execution"}
	}

	saved := 0
	if r.store != nil {
		for _, order := range state.Execution.Executed {
			record := contracts.TradeRecord{
				TradeID:          uuid.NewString(),
				RunID:            state.RunID,
				Ticker:           order.Ticker,
				Action:           order.Type,
				Quantity:         order.Quantity,
				Price:            order.Price,
				Reason:           order.Reason,
				ExecutedAt:       order.SubmittedAt,
				MarketContext:    state.Market,
				PortfolioContext: state.Portfolio,
			}
			if err := r.store.InsertTradeRecord(ctx, record); err != nil {
				r.logger.WithError(err).WithField("ticker", order.Ticker).Error("Trade record save failed")
				continue
			}
			saved++
		}
	} else if len(state.Execution.Executed) > 0 {
		r.logger.Warn("No trade store configured, executed orders not persisted")
	}

	outcome := &contracts.ReportOutcome{
		Text:         renderReport(state, saved),
		RecordsSaved: saved,
		GeneratedAt:  time.Now(),
	}

	r.logger.WithFields(map[string]interface{}{
		"records_saved": saved,
		"report_bytes":  len(outcome.Text),
	}).Info("Report generated")

	return outcome, nil
}

// renderReport assembles the deterministic, ordered report text. Section
// order is fixed; sections for missing slots are omitted.
func renderReport(state contracts.RunState, saved int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Trading Pipeline Report\n")
	fmt.Fprintf(&b, "**Run ID**: %s\n", state.RunID)
	fmt.Fprintf(&b, "**Started**: %s\n", state.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Environment**: %s (%s)\n\n", state.Environment, state.ExecutionMode)

	if snap := state.Portfolio; snap != nil {
		fmt.Fprintf(&b, "## Portfolio\n")
		fmt.Fprintf(&b, "- **Total value**: %.0f\n", snap.TotalValue)
		fmt.Fprintf(&b, "- **Cash**: %.0f (%.1f%%)\n", snap.Cash, snap.CashRatio)
		fmt.Fprintf(&b, "- **Positions**: %d\n\n", len(snap.Positions))
	}

	if sig := state.Market; sig != nil {
		fmt.Fprintf(&b, "## Market Analysis\n")
		fmt.Fprintf(&b, "- **Sentiment**: %s\n", sig.Sentiment)
		fmt.Fprintf(&b, "- **Score**: %d/100\n", sig.Score)
		fmt.Fprintf(&b, "- **Movers**: %d\n", len(sig.Movers))
		fmt.Fprintf(&b, "- **Opportunity factors**: %s\n", strings.Join(sig.Opportunity, "; "))
		fmt.Fprintf(&b, "- **Risk factors**: %s\n\n", strings.Join(sig.Risk, "; "))
	}

	if plan := state.Plan; plan != nil {
		fmt.Fprintf(&b, "## Trade Plan\n")
		fmt.Fprintf(&b, "- **Confidence**: %d%%\n", plan.Confidence)
		fmt.Fprintf(&b, "- **Planned actions**: %d\n", len(plan.Actions))
		fmt.Fprintf(&b, "- **Justification**: %s\n", plan.Justification)
		for i, action := range plan.Actions {
			fmt.Fprintf(&b, "  %d. %s %s x%d @ %.0f - %s\n", i+1, action.Type, action.Ticker, action.Quantity, action.Price, action.Reason)
		}
		b.WriteString("\n")
	}

	if verdict := state.Verdict; verdict != nil {
		fmt.Fprintf(&b, "## Risk Validation\n")
		if verdict.IsValid {
			fmt.Fprintf(&b, "- **Result**: passed\n\n")
		} else {
			fmt.Fprintf(&b, "- **Result**: failed (%d violations)\n", len(verdict.Violations))
			for i, violation := range verdict.Violations {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, violation)
			}
			b.WriteString("\n")
		}
	}

	if exec := state.Execution; exec != nil {
		fmt.Fprintf(&b, "## Execution\n")
		fmt.Fprintf(&b, "- **Summary**: %s\n", exec.Summary)
		fmt.Fprintf(&b, "- **Succeeded**: %d\n", len(exec.Executed))
		fmt.Fprintf(&b, "- **Failed**: %d\n", len(exec.Failed))
		fmt.Fprintf(&b, "- **Records persisted**: %d\n", saved)
		for i, order := range exec.Executed {
			fmt.Fprintf(&b, "  %d. %s %s x%d @ %.0f (order %s)\n", i+1, order.Type, order.Ticker, order.Quantity, order.Price, order.OrderID)
		}
		b.WriteString("\n")
	}

	// every error, fatal or degraded, so a failed run is diagnosable from
	// its own output
	if len(state.Errors) > 0 || (state.Execution != nil && len(state.Execution.Failed) > 0) {
		fmt.Fprintf(&b, "## Errors\n")
		for _, e := range state.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		if state.Execution != nil {
			for _, f := range state.Execution.Failed {
				fmt.Fprintf(&b, "- order failed: %s %s - %s\n", f.Type, f.Ticker, f.Error)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	return b.String()
}
