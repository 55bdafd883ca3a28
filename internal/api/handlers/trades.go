package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/internal/history"
	"github.com/minsuk-dev/hermes/pkg/logger"
	"github.com/minsuk-dev/hermes/pkg/redis"
)

const (
	defaultTradeLimit  = 50
	maxTradeLimit      = 500
	defaultSummaryDays = 7
	summaryCacheTTL    = time.Minute
)

// TradeReader is the history repository surface the handler needs
type TradeReader interface {
	GetRecentTrades(ctx context.Context, limit int) ([]contracts.TradeRecord, error)
	GetTradesByRun(ctx context.Context, runID string) ([]contracts.TradeRecord, error)
	GetTradeSummary(ctx context.Context, from, to time.Time) (*history.TradeSummary, error)
}

// TradesHandler handles trade history API endpoints
// ⭐ SSOT: 거래 이력 API 핸들러는 이 구조체에서만
type TradesHandler struct {
	repo   TradeReader
	cache  *redis.Cache
	logger *logger.Logger
}

// NewTradesHandler creates a new trades handler
func NewTradesHandler(repo TradeReader, cache *redis.Cache, log *logger.Logger) *TradesHandler {
	return &TradesHandler{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// GetTrades returns recent trade records, optionally filtered by run
// GET /api/v1/trades?limit=50&run_id=...
func (h *TradesHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if runID := r.URL.Query().Get("run_id"); runID != "" {
		trades, err := h.repo.GetTradesByRun(ctx, runID)
		if err != nil {
			h.logger.WithError(err).Error("Failed to get trades by run")
			respondError(w, http.StatusInternalServerError, "Failed to retrieve trades")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"run_id": runID,
			"trades": trades,
			"count":  len(trades),
		})
		return
	}

	limit := defaultTradeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxTradeLimit {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	trades, err := h.repo.GetRecentTrades(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recent trades")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve trades")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trades": trades,
		"count":  len(trades),
	})
}

// GetSummary returns aggregate trade statistics over the last N days
// GET /api/v1/trades/summary?days=7
func (h *TradesHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days := defaultSummaryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			respondError(w, http.StatusBadRequest, "Invalid days")
			return
		}
		days = parsed
	}

	cacheKey := fmt.Sprintf("trades:summary:%dd", days)
	var cached history.TradeSummary
	if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	summary, err := h.repo.GetTradeSummary(ctx, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get trade summary")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve summary")
		return
	}

	if err := h.cache.Set(ctx, cacheKey, summary, summaryCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache trade summary")
	}

	respondJSON(w, http.StatusOK, summary)
}
