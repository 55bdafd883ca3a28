package contracts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 스냅샷, DB row에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   Snapshot → Analyze → Plan → Validate → (Dispatch | skip) → Report

// Stage represents a pipeline stage
type Stage string

const (
	// StageSnapshot 포트폴리오 진단 (계좌 + 보유종목)
	StageSnapshot Stage = "SNAPSHOT"

	// StageAnalyze 시장 분석 (시세 + 거래량)
	StageAnalyze Stage = "ANALYZE"

	// StagePlan 거래 계획 생성
	StagePlan Stage = "PLAN"

	// StageValidate 리스크 검증
	StageValidate Stage = "VALIDATE"

	// StageDispatch 주문 실행 (검증 통과 시에만)
	StageDispatch Stage = "DISPATCH"

	// StageReport 기록 및 보고
	StageReport Stage = "REPORT"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageSnapshot,
		StageAnalyze,
		StagePlan,
		StageValidate,
		StageDispatch,
		StageReport,
	}
}

// Environment represents the brokerage environment a run targets
type Environment string

const (
	EnvPaper Environment = "paper" // 모의투자
	EnvProd  Environment = "prod"  // 실전투자
)

// ExecutionMode controls whether orders touch the real order interface
type ExecutionMode string

const (
	ModeSimulated ExecutionMode = "simulated"
	ModeLive      ExecutionMode = "live"
)

// RunState is the accumulating state threaded through one pipeline run.
// Each stage returns a new RunState with its own slot populated; slots are
// never mutated after they are set, and Errors is append-only. The pipeline
// driver exclusively owns the RunState for the duration of a run.
type RunState struct {
	RunID         string        `json:"run_id"`
	StartTime     time.Time     `json:"start_time"`
	Environment   Environment   `json:"environment"`
	ExecutionMode ExecutionMode `json:"execution_mode"`
	CurrentStage  Stage         `json:"current_stage"`
	Errors        []string      `json:"errors"`

	// One slot per stage output
	Portfolio *PortfolioSnapshot `json:"portfolio,omitempty"`
	Market    *MarketSignal      `json:"market,omitempty"`
	Plan      *TradePlan         `json:"plan,omitempty"`
	Verdict   *RiskVerdict       `json:"verdict,omitempty"`
	Execution *ExecutionOutcome  `json:"execution,omitempty"`
	Report    *ReportOutcome     `json:"report,omitempty"`
}

// NewRunState creates the initial state for one run with all slots empty
func NewRunState(env Environment, mode ExecutionMode) RunState {
	return RunState{
		RunID:         GenerateRunID(),
		StartTime:     time.Now(),
		Environment:   env,
		ExecutionMode: mode,
		Errors:        []string{},
	}
}

// GenerateRunID generates a unique run ID
func GenerateRunID() string {
	return fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}

// clone returns a copy with an independent error slice so that appending to
// one RunState never shows through another.
func (s RunState) clone() RunState {
	errs := make([]string, len(s.Errors))
	copy(errs, s.Errors)
	s.Errors = errs
	return s
}

// WithPortfolio returns a new state with the snapshot slot populated
func (s RunState) WithPortfolio(p *PortfolioSnapshot) RunState {
	next := s.clone()
	next.Portfolio = p
	next.CurrentStage = StageSnapshot
	return next
}

// WithMarket returns a new state with the market signal slot populated
func (s RunState) WithMarket(m *MarketSignal) RunState {
	next := s.clone()
	next.Market = m
	next.CurrentStage = StageAnalyze
	return next
}

// WithPlan returns a new state with the trade plan slot populated
func (s RunState) WithPlan(p *TradePlan) RunState {
	next := s.clone()
	next.Plan = p
	next.CurrentStage = StagePlan
	return next
}

// WithVerdict returns a new state with the risk verdict slot populated
func (s RunState) WithVerdict(v *RiskVerdict) RunState {
	next := s.clone()
	next.Verdict = v
	next.CurrentStage = StageValidate
	return next
}

// WithExecution returns a new state with the execution outcome slot populated
func (s RunState) WithExecution(e *ExecutionOutcome) RunState {
	next := s.clone()
	next.Execution = e
	next.CurrentStage = StageDispatch
	return next
}

// WithReport returns a new state with the report slot populated
func (s RunState) WithReport(r *ReportOutcome) RunState {
	next := s.clone()
	next.Report = r
	next.CurrentStage = StageReport
	return next
}

// WithError returns a new state with one error appended for the given stage
func (s RunState) WithError(stage Stage, err error) RunState {
	next := s.clone()
	next.CurrentStage = stage
	next.Errors = append(next.Errors, fmt.Sprintf("%s: %v", stage, err))
	return next
}

// HasErrors reports whether any stage recorded a fatal error
func (s RunState) HasErrors() bool {
	return len(s.Errors) > 0
}

// ReportOutcome is the reporter's slot: the rendered report plus how many
// trade records were persisted. Write-once, never re-derived.
type ReportOutcome struct {
	Text         string    `json:"text"`
	RecordsSaved int       `json:"records_saved"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// RunResult is what RunPipeline returns to the caller
type RunResult struct {
	Success        bool          `json:"success"`
	RunID          string        `json:"run_id"`
	Elapsed        time.Duration `json:"elapsed"`
	OrdersExecuted int           `json:"orders_executed"`
	ErrorCount     int           `json:"error_count"`
	FinalReport    string        `json:"final_report"`
	State          RunState      `json:"state"`
}
