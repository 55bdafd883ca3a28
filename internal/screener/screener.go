package screener

import (
	"context"
	"strings"
	"time"

	"github.com/minsuk-dev/hermes/internal/external/kis"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// OrderableProber is the slice of the KIS client the screener needs.
type OrderableProber interface {
	GetOrderable(ctx context.Context, stockCode string, price int64) (*kis.Orderable, error)
}

// Config holds screening options
type Config struct {
	TestPrice  int64         // 거래가능 여부 확인용 테스트 가격
	CallDelay  time.Duration // API 호출 간격
	MaxRetries int           // 에러 시 재시도 횟수
}

// DefaultConfig returns the default screening options
func DefaultConfig() Config {
	return Config{
		TestPrice:  1000,
		CallDelay:  100 * time.Millisecond,
		MaxRetries: 2,
	}
}

// TickerError records an API failure for one ticker
type TickerError struct {
	Ticker string `json:"ticker"`
	Error  string `json:"error"`
}

// Result holds the outcome of one screening batch
type Result struct {
	Tradable     []string      `json:"tradable"`
	NonTradable  []string      `json:"non_tradable"`
	ErrorTickers []string      `json:"error_tickers"`
	TotalChecked int           `json:"total_checked"`
	Elapsed      time.Duration `json:"elapsed"`
	Errors       []TickerError `json:"errors"`
}

// Stats summarizes a screening result
type Stats struct {
	TotalTickers  int           `json:"total_tickers"`
	TradableCount int           `json:"tradable_count"`
	ErrorCount    int           `json:"error_count"`
	TradableRatio float64       `json:"tradable_ratio"`
	SuccessRatio  float64       `json:"success_ratio"`
	Elapsed       time.Duration `json:"elapsed"`
}

// Screener checks order availability for a batch of tickers.
// ⭐ SSOT: 거래가능 종목 판별
//
// A ticker counts as tradable when the buyable-quantity inquiry succeeds;
// suspended, delisted and administered stocks are rejected by the API and
// classified as non-tradable without retrying.
type Screener struct {
	prober OrderableProber
	cfg    Config
	logger *logger.Logger
}

// New creates a Screener
func New(prober OrderableProber, cfg Config, log *logger.Logger) *Screener {
	if cfg.TestPrice <= 0 {
		cfg.TestPrice = DefaultConfig().TestPrice
	}
	return &Screener{prober: prober, cfg: cfg, logger: log}
}

// Screen checks every ticker in the list sequentially, pausing CallDelay
// between calls to stay inside the broker's rate limit.
func (s *Screener) Screen(ctx context.Context, tickers []string) (*Result, error) {
	start := time.Now()
	result := &Result{
		Tradable:     []string{},
		NonTradable:  []string{},
		ErrorTickers: []string{},
		TotalChecked: len(tickers),
		Errors:       []TickerError{},
	}

	s.logger.WithField("count", len(tickers)).Info("Ticker screening started")

	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tradable, probeErr := s.checkOne(ctx, ticker)
		switch {
		case probeErr != nil:
			result.ErrorTickers = append(result.ErrorTickers, ticker)
			result.Errors = append(result.Errors, TickerError{Ticker: ticker, Error: probeErr.Error()})
			s.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  probeErr.Error(),
			}).Warn("Ticker check failed")
		case tradable:
			result.Tradable = append(result.Tradable, ticker)
		default:
			result.NonTradable = append(result.NonTradable, ticker)
		}

		if i < len(tickers)-1 {
			time.Sleep(s.cfg.CallDelay)
		}
	}

	result.Elapsed = time.Since(start)
	s.logger.WithFields(map[string]interface{}{
		"tradable":     len(result.Tradable),
		"non_tradable": len(result.NonTradable),
		"errors":       len(result.ErrorTickers),
		"elapsed":      result.Elapsed.String(),
	}).Info("Ticker screening complete")

	return result, nil
}

// checkOne probes a single ticker with bounded retries.
// Returns (tradable, nil) on a definitive answer, or the last error
// when every attempt failed.
func (s *Screener) checkOne(ctx context.Context, ticker string) (bool, error) {
	if !validTicker(ticker) {
		return false, nil
	}

	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		orderable, err := s.prober.GetOrderable(ctx, ticker, s.cfg.TestPrice)
		if err == nil {
			return orderable != nil, nil
		}

		// 거래정지/상장폐지/관리종목 rejections are definitive, not transient
		if isNonTradableError(err) {
			return false, nil
		}

		lastErr = err
		if attempt < s.cfg.MaxRetries {
			time.Sleep(s.cfg.CallDelay * 2)
		}
	}
	return false, lastErr
}

// Summarize computes summary statistics for a screening result
func Summarize(result *Result) Stats {
	total := result.TotalChecked
	if total == 0 {
		return Stats{}
	}
	decided := len(result.Tradable) + len(result.NonTradable)
	return Stats{
		TotalTickers:  total,
		TradableCount: len(result.Tradable),
		ErrorCount:    len(result.ErrorTickers),
		TradableRatio: float64(len(result.Tradable)) / float64(total),
		SuccessRatio:  float64(decided) / float64(total),
		Elapsed:       result.Elapsed,
	}
}

var nonTradableKeywords = []string{"거래정지", "상장폐지", "관리종목", "suspended", "delisted"}

func isNonTradableError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, kw := range nonTradableKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// validTicker reports whether the code looks like a 6-digit KRX ticker
func validTicker(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
