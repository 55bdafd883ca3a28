package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// stock API response (api.stock.naver.com)
type stockAPIResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	Stocks     []struct {
		ItemCode           string `json:"itemCode"`
		StockName          string `json:"stockName"`
		ClosePrice         string `json:"closePrice"`
		FluctuationsRatio  string `json:"fluctuationsRatio"`
		AccumulatedVolume  string `json:"accumulatedTradingVolume"`
	} `json:"stocks"`
}

// GetVolumeRanking fetches the volume ranking from the Naver stock API.
// Used as a market-data fallback when the brokerage ranking endpoint is
// unavailable. market is "KOSPI" or "KOSDAQ".
func (c *Client) GetVolumeRanking(ctx context.Context, market string, limit int) ([]RankedStock, error) {
	apiURL := fmt.Sprintf(
		"https://api.stock.naver.com/stock/exchange/%s?type=ALL&sortType=ACC_TRADING_VOLUME&page=1&pageSize=100",
		market,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var apiResp stockAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	ranked := make([]RankedStock, 0, len(apiResp.Stocks))
	for i, stock := range apiResp.Stocks {
		if limit > 0 && i >= limit {
			break
		}
		ranked = append(ranked, RankedStock{
			Rank:       i + 1,
			StockCode:  stock.ItemCode,
			StockName:  stock.StockName,
			Price:      parseFlowNum(stock.ClosePrice),
			ChangeRate: parseRatio(stock.FluctuationsRatio),
			Volume:     parseFlowNum(stock.AccumulatedVolume),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"market": market,
		"count":  len(ranked),
	}).Debug("Fetched volume ranking from Naver Stock API")

	return ranked, nil
}

func parseRatio(s string) float64 {
	var v float64
	fmt.Sscanf(s, "%f", &v)
	return v
}
