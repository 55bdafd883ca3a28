package commands

import (
	"fmt"
	"time"

	"github.com/minsuk-dev/hermes/internal/external/kis"
	"github.com/minsuk-dev/hermes/internal/external/naver"
	"github.com/minsuk-dev/hermes/internal/history"
	"github.com/minsuk-dev/hermes/internal/pipeline"
	"github.com/minsuk-dev/hermes/pkg/config"
	"github.com/minsuk-dev/hermes/pkg/database"
	"github.com/minsuk-dev/hermes/pkg/httputil"
	"github.com/minsuk-dev/hermes/pkg/logger"
	"github.com/minsuk-dev/hermes/pkg/redis"
)

// runtime holds everything a command needs after wiring
// ⭐ SSOT: 의존성 조립은 이 파일에서만
type runtime struct {
	cfg       *config.Config
	log       *logger.Logger
	kisClient *kis.Client
	runner    *pipeline.Runner
	db        *database.DB  // nil when DATABASE_URL is not set
	redis     *redis.Client // no-op when REDIS_ENABLED is not set
}

// buildRuntime loads config and wires the full pipeline.
// The database is optional: without DATABASE_URL the reporter degrades to
// log-only persistence and the trade history endpoints are unavailable.
func buildRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	kisClient := kis.NewClient(cfg.KIS, httputil.New(log), log)

	// The KIS client has its own token-bucket limiter; the Naver scraper
	// shares a redis sliding window across processes instead
	naverHTTP := httputil.New(log).WithRateLimiter(
		redis.NewRateLimiter(redisClient, "hermes"),
		redis.RateLimitConfig{Key: "naver", Limit: 30, Window: time.Minute},
	)
	naverClient := naver.NewClient(cfg.Naver, naverHTTP, log)

	var db *database.DB
	if cfg.Database.URL != "" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, trade records will not be persisted")
	}

	// Broker adapters
	account := pipeline.NewKISAccount(kisClient)
	quotes := pipeline.NewKISQuotes(kisClient)
	flows := pipeline.NewNaverFlows(naverClient)

	var orders pipeline.OrderService
	if cfg.Trading.ExecutionMode == "live" {
		orders = pipeline.NewKISOrders(kisClient)
	} else {
		orders = pipeline.NewSimulatedOrders()
	}

	var store pipeline.TradeStore
	if db != nil {
		store = history.NewRepository(db.Pool)
	}

	runner := pipeline.NewRunner(
		pipeline.NewSnapshotBuilder(account, log),
		pipeline.NewAnalyzer(quotes, flows, cfg.Trading, log),
		pipeline.NewPlanner(cfg.Trading),
		pipeline.NewValidator(cfg.Trading, log),
		pipeline.NewDispatcher(orders, cfg.Trading.OrderDelay, log),
		pipeline.NewReporter(store, log),
		log,
	)

	return &runtime{
		cfg:       cfg,
		log:       log,
		kisClient: kisClient,
		runner:    runner,
		db:        db,
		redis:     redisClient,
	}, nil
}

// Close releases wired resources
func (rt *runtime) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
	if rt.redis != nil {
		rt.redis.Close()
	}
}
