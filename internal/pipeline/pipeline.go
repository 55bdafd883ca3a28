package pipeline

import (
	"context"
	"time"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// Runner drives one pipeline run through its six stages:
//
//	Snapshot → Analyze → Plan → Validate → (Dispatch | skip) → Report
//
// Stages run strictly sequentially. A fatal stage error is appended to the
// state and short-circuits the run; degraded sub-failures stay inside the
// failing stage's own output. A Runner is stateless across runs and safe
// for concurrent use as long as its injected services are.
type Runner struct {
	snapshot   *SnapshotBuilder
	analyzer   *Analyzer
	planner    *Planner
	validator  *Validator
	dispatcher *Dispatcher
	reporter   *Reporter
	logger     *logger.Logger
}

// NewRunner wires the six stages into a runner
func NewRunner(
	snapshot *SnapshotBuilder,
	analyzer *Analyzer,
	planner *Planner,
	validator *Validator,
	dispatcher *Dispatcher,
	reporter *Reporter,
	log *logger.Logger,
) *Runner {
	return &Runner{
		snapshot:   snapshot,
		analyzer:   analyzer,
		planner:    planner,
		validator:  validator,
		dispatcher: dispatcher,
		reporter:   reporter,
		logger:     log,
	}
}

// RunPipeline executes one full run. Timeout and cancellation are the
// caller's responsibility via ctx; the pipeline itself provides no
// mid-stage abort hook.
func (r *Runner) RunPipeline(ctx context.Context, env contracts.Environment, mode contracts.ExecutionMode) contracts.RunResult {
	state := contracts.NewRunState(env, mode)
	start := time.Now()

	log := r.logger.WithField("run_id", state.RunID)
	log.WithFields(map[string]interface{}{
		"environment":    env,
		"execution_mode": mode,
	}).Info("Pipeline run started")

	state = r.runStages(ctx, state)

	result := contracts.RunResult{
		Success:    !state.HasErrors(),
		RunID:      state.RunID,
		Elapsed:    time.Since(start),
		ErrorCount: len(state.Errors),
		State:      state,
	}
	if state.Execution != nil {
		result.OrdersExecuted = len(state.Execution.Executed)
	}
	if state.Report != nil {
		result.FinalReport = state.Report.Text
	}

	log.WithFields(map[string]interface{}{
		"success":         result.Success,
		"elapsed":         result.Elapsed.String(),
		"orders_executed": result.OrdersExecuted,
		"error_count":     result.ErrorCount,
	}).Info("Pipeline run finished")

	return result
}

// runStages advances the state through the stages, short-circuiting on the
// first fatal error.
func (r *Runner) runStages(ctx context.Context, state contracts.RunState) contracts.RunState {
	snap, err := r.snapshot.Build(ctx)
	if err != nil {
		return state.WithError(contracts.StageSnapshot, err)
	}
	state = state.WithPortfolio(snap)

	signal, err := r.analyzer.Analyze(ctx, state.Portfolio)
	if err != nil {
		return state.WithError(contracts.StageAnalyze, err)
	}
	state = state.WithMarket(signal)

	plan, err := r.planner.Plan(state.Portfolio, state.Market)
	if err != nil {
		return state.WithError(contracts.StagePlan, err)
	}
	state = state.WithPlan(plan)

	// the validator never fails; it always produces a verdict
	verdict := r.validator.Validate(state.Portfolio, state.Plan)
	state = state.WithVerdict(verdict)

	// sole branch point: the gate decides between dispatch and skip
	outcome := r.dispatcher.Dispatch(ctx, state.Plan, state.Verdict)
	state = state.WithExecution(outcome)

	report, err := r.reporter.Report(ctx, state)
	if err != nil {
		return state.WithError(contracts.StageReport, err)
	}
	return state.WithReport(report)
}
