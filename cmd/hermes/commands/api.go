package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minsuk-dev/hermes/internal/api"
	"github.com/minsuk-dev/hermes/internal/api/handlers"
	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/internal/history"
	"github.com/minsuk-dev/hermes/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 파이프라인 실행 트리거 제공
- 거래 이력 조회 엔드포인트 제공

Endpoints:
  GET  /health                  - Health check
  POST /api/v1/pipeline/run     - 파이프라인 1회 실행
  GET  /api/v1/runs/latest      - 최근 실행 결과 조회
  GET  /api/v1/trades           - 거래 이력 조회
  GET  /api/v1/trades/summary   - 거래 통계 조회

Example:
  go run ./cmd/hermes api
  go run ./cmd/hermes api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default PORT env, 8090)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Hermes API Server ===")

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	// Summary cache (no-op when redis is disabled)
	cache := redis.NewCache(rt.redis, "hermes")

	// Trade history requires a database; without one the trades endpoints
	// respond with errors but the pipeline trigger still works
	var tradeReader handlers.TradeReader
	if rt.db != nil {
		tradeReader = history.NewRepository(rt.db.Pool)
	} else {
		tradeReader = unavailableTrades{}
	}

	pipelineHandler := handlers.NewPipelineHandler(rt.runner, rt.cfg, rt.log)
	tradesHandler := handlers.NewTradesHandler(tradeReader, cache, rt.log)

	router := api.NewRouter(pipelineHandler, tradesHandler, rt.db, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/v1/pipeline/run")
	fmt.Println("  GET  /api/v1/runs/latest")
	fmt.Println("  GET  /api/v1/trades")
	fmt.Println("  GET  /api/v1/trades/summary")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}

var errNoDatabase = errors.New("trade history unavailable: DATABASE_URL not set")

// unavailableTrades backs the trades endpoints when no database is wired
type unavailableTrades struct{}

func (unavailableTrades) GetRecentTrades(context.Context, int) ([]contracts.TradeRecord, error) {
	return nil, errNoDatabase
}

func (unavailableTrades) GetTradesByRun(context.Context, string) ([]contracts.TradeRecord, error) {
	return nil, errNoDatabase
}

func (unavailableTrades) GetTradeSummary(context.Context, time.Time, time.Time) (*history.TradeSummary, error) {
	return nil, errNoDatabase
}
