package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/pkg/config"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// runTimeout caps a synchronous pipeline run triggered over HTTP
const runTimeout = 90 * time.Second

// PipelineRunner executes one full decision pipeline run
type PipelineRunner interface {
	RunPipeline(ctx context.Context, env contracts.Environment, mode contracts.ExecutionMode) contracts.RunResult
}

// PipelineHandler handles pipeline trigger and run inspection endpoints
// ⭐ SSOT: 파이프라인 API 핸들러는 이 구조체에서만
type PipelineHandler struct {
	runner PipelineRunner
	cfg    *config.Config
	logger *logger.Logger

	runMu    sync.Mutex // one run at a time
	latestMu sync.RWMutex
	latest   *contracts.RunResult
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(runner PipelineRunner, cfg *config.Config, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		runner: runner,
		cfg:    cfg,
		logger: log,
	}
}

// Run triggers one pipeline run and waits for it to finish.
// The execution mode is fixed at process wiring time; the endpoint only
// triggers runs, it cannot flip simulated trading into live trading.
// POST /api/v1/pipeline/run
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	mode := contracts.ExecutionMode(h.cfg.Trading.ExecutionMode)

	if !h.runMu.TryLock() {
		respondError(w, http.StatusConflict, "A pipeline run is already in progress")
		return
	}
	defer h.runMu.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), runTimeout)
	defer cancel()

	env := contracts.Environment(h.cfg.Trading.Environment)
	result := h.runner.RunPipeline(ctx, env, mode)

	h.latestMu.Lock()
	h.latest = &result
	h.latestMu.Unlock()

	h.logger.WithFields(map[string]interface{}{
		"run_id":          result.RunID,
		"success":         result.Success,
		"orders_executed": result.OrdersExecuted,
	}).Info("Pipeline run triggered via API")

	respondJSON(w, http.StatusOK, result)
}

// GetLatestRun returns the result of the most recent run of this process
// GET /api/v1/runs/latest
func (h *PipelineHandler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	h.latestMu.RLock()
	latest := h.latest
	h.latestMu.RUnlock()

	if latest == nil {
		respondError(w, http.StatusNotFound, "No pipeline run yet")
		return
	}

	respondJSON(w, http.StatusOK, latest)
}
