package contracts

import (
	"fmt"
	"time"
)

// OrderRecord is one successfully submitted order
type OrderRecord struct {
	OrderID     string     `json:"order_id"`
	Ticker      string     `json:"ticker"`
	Type        ActionType `json:"type"`
	Quantity    int        `json:"quantity"`
	Price       float64    `json:"price"`
	Reason      string     `json:"reason"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// FailedOrder is one order the broker rejected or that errored in flight
type FailedOrder struct {
	Ticker   string     `json:"ticker"`
	Type     ActionType `json:"type"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Reason   string     `json:"reason"`
	Error    string     `json:"error"`
	FailedAt time.Time  `json:"failed_at"`
}

// ExecutionOutcome is the dispatcher's slot. Orders are submitted
// sequentially, so Executed preserves plan order; a failure never stops
// the remaining actions from being attempted.
type ExecutionOutcome struct {
	Executed   []OrderRecord `json:"executed"`
	Failed     []FailedOrder `json:"failed"`
	Skipped    bool          `json:"skipped"` // true when the gate stayed closed
	Summary    string        `json:"summary"`
	FinishedAt time.Time     `json:"finished_at"`
}

// NewSkippedOutcome records that dispatch never ran
func NewSkippedOutcome() *ExecutionOutcome {
	return &ExecutionOutcome{
		Executed:   []OrderRecord{},
		Failed:     []FailedOrder{},
		Skipped:    true,
		Summary:    "execution skipped: risk validation failed, all orders cancelled",
		FinishedAt: time.Now(),
	}
}

// NewExecutionOutcome derives the counts-and-rate summary from the lists
func NewExecutionOutcome(executed []OrderRecord, failed []FailedOrder) *ExecutionOutcome {
	total := len(executed) + len(failed)
	rate := 0.0
	if total > 0 {
		rate = float64(len(executed)) / float64(total) * 100
	}
	return &ExecutionOutcome{
		Executed:   executed,
		Failed:     failed,
		Summary:    fmt.Sprintf("execution complete: %d succeeded, %d failed (%.1f%% success rate)", len(executed), len(failed), rate),
		FinishedAt: time.Now(),
	}
}

// Attempted returns how many orders were actually submitted
func (e *ExecutionOutcome) Attempted() int {
	return len(e.Executed) + len(e.Failed)
}
