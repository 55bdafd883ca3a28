package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/internal/history"
	"github.com/minsuk-dev/hermes/pkg/config"
	"github.com/minsuk-dev/hermes/pkg/logger"
	"github.com/minsuk-dev/hermes/pkg/redis"
)

// ============================================================
// Fakes
// ============================================================

type fakeRunner struct {
	lastMode contracts.ExecutionMode
	result   contracts.RunResult
}

func (f *fakeRunner) RunPipeline(_ context.Context, _ contracts.Environment, mode contracts.ExecutionMode) contracts.RunResult {
	f.lastMode = mode
	return f.result
}

type fakeTradeReader struct {
	recent  []contracts.TradeRecord
	byRun   map[string][]contracts.TradeRecord
	summary *history.TradeSummary
	err     error

	summaryCalls int
}

func (f *fakeTradeReader) GetRecentTrades(_ context.Context, limit int) ([]contracts.TradeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeTradeReader) GetTradesByRun(_ context.Context, runID string) ([]contracts.TradeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byRun[runID], nil
}

func (f *fakeTradeReader) GetTradeSummary(_ context.Context, _, _ time.Time) (*history.TradeSummary, error) {
	f.summaryCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func testPipelineHandler(result contracts.RunResult) (*PipelineHandler, *fakeRunner) {
	runner := &fakeRunner{result: result}
	cfg := &config.Config{
		Trading: config.TradingConfig{
			Environment:   "paper",
			ExecutionMode: "simulated",
		},
	}
	return NewPipelineHandler(runner, cfg, logger.Nop()), runner
}

func noopCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	return redis.NewCache(client, "test")
}

// ============================================================
// Pipeline handler
// ============================================================

func TestPipelineRunReturnsResult(t *testing.T) {
	h, runner := testPipelineHandler(contracts.RunResult{
		Success:        true,
		RunID:          "run_20260901_093000_abcd1234",
		OrdersExecuted: 1,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/run", nil)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contracts.ModeSimulated, runner.lastMode)

	var result contracts.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "run_20260901_093000_abcd1234", result.RunID)
}

func TestPipelineRunIgnoresRequestBodyMode(t *testing.T) {
	h, runner := testPipelineHandler(contracts.RunResult{Success: true})

	// Execution mode is wiring-time config; a request cannot escalate to live
	body := strings.NewReader(`{"execution_mode":"live"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/run", body)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contracts.ModeSimulated, runner.lastMode)
}

func TestGetLatestRun(t *testing.T) {
	h, _ := testPipelineHandler(contracts.RunResult{Success: true, RunID: "run_x"})

	// No run yet
	rec := httptest.NewRecorder()
	h.GetLatestRun(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// After a run
	h.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/run", nil))

	rec = httptest.NewRecorder()
	h.GetLatestRun(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run_x")
}

// ============================================================
// Trades handler
// ============================================================

func TestGetTradesDefaultLimit(t *testing.T) {
	repo := &fakeTradeReader{recent: []contracts.TradeRecord{
		{TradeID: "t1", Ticker: "005930", Action: "buy"},
		{TradeID: "t2", Ticker: "000660", Action: "sell"},
	}}
	h := NewTradesHandler(repo, noopCache(t), logger.Nop())

	rec := httptest.NewRecorder()
	h.GetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trades", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Trades []contracts.TradeRecord `json:"trades"`
		Count  int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestGetTradesByRun(t *testing.T) {
	repo := &fakeTradeReader{byRun: map[string][]contracts.TradeRecord{
		"run_a": {{TradeID: "t1", RunID: "run_a"}},
	}}
	h := NewTradesHandler(repo, noopCache(t), logger.Nop())

	rec := httptest.NewRecorder()
	h.GetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trades?run_id=run_a", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"run_id":"run_a"`)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestGetTradesInvalidLimit(t *testing.T) {
	h := NewTradesHandler(&fakeTradeReader{}, noopCache(t), logger.Nop())

	for _, limit := range []string{"0", "-1", "9999", "abc"} {
		rec := httptest.NewRecorder()
		h.GetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trades?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestGetTradesRepositoryError(t *testing.T) {
	repo := &fakeTradeReader{err: errors.New("connection refused")}
	h := NewTradesHandler(repo, noopCache(t), logger.Nop())

	rec := httptest.NewRecorder()
	h.GetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trades", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetSummary(t *testing.T) {
	repo := &fakeTradeReader{summary: &history.TradeSummary{
		TotalCount: 5,
		BuyCount:   3,
		SellCount:  2,
		BuyAmount:  225000,
		SellAmount: 180000,
	}}
	h := NewTradesHandler(repo, noopCache(t), logger.Nop())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trades/summary?days=30", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var summary history.TradeSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 5, summary.TotalCount)
	assert.Equal(t, 1, repo.summaryCalls)
}

func TestGetSummaryInvalidDays(t *testing.T) {
	h := NewTradesHandler(&fakeTradeReader{}, noopCache(t), logger.Nop())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trades/summary?days=999", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
