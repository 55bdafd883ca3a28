package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minsuk-dev/hermes/pkg/config"
	"github.com/minsuk-dev/hermes/pkg/httputil"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Naver Finance client
func NewClient(cfg config.NaverConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://finance.naver.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// fetchHTML fetches an HTML page from Naver Finance
func (c *Client) fetchHTML(ctx context.Context, path string) (string, error) {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://finance.naver.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// InvestorFlow represents one day of investor trading flow for a stock
type InvestorFlow struct {
	StockCode      string    `json:"stock_code"`
	TradeDate      time.Time `json:"trade_date"`
	ForeignNet     int64     `json:"foreign_net"`     // 외국인 순매수
	InstitutionNet int64     `json:"institution_net"` // 기관 순매수
	IndividualNet  int64     `json:"individual_net"`  // 개인 순매수 (계산)
}

// RankedStock represents one entry in a Naver ranking
type RankedStock struct {
	Rank       int     `json:"rank"`
	StockCode  string  `json:"stock_code"`
	StockName  string  `json:"stock_name"`
	Price      int64   `json:"price"`
	ChangeRate float64 `json:"change_rate"`
	Volume     int64   `json:"volume"`
}
