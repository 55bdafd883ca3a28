package kis

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// TR IDs for quotations
const (
	// 국내주식 현재가
	TRIDCurrentPrice = "FHKST01010100"
	// 거래량 순위
	TRIDVolumeRank = "FHPST01710000"
)

// GetQuote gets the real-time current price for a stock
func (c *Client) GetQuote(ctx context.Context, stockCode string) (*Quote, error) {
	path := "/uapi/domestic-stock/v1/quotations/inquire-price"
	params := fmt.Sprintf("?fid_cond_mrkt_div_code=J&fid_input_iscd=%s", stockCode)

	resp, err := c.request(ctx, http.MethodGet, path+params, TRIDCurrentPrice, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	var result quoteResponse
	if err := decodeEnvelope(resp, &result); err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}

	if result.RtCd != "0" {
		return nil, fmt.Errorf("quote API error: %s - %s", result.MsgCd, result.Msg1)
	}

	return &Quote{
		StockCode:  stockCode,
		Price:      parseIntSafe(result.Output.StckPrpr),
		Change:     parseIntSafe(result.Output.PrdyVrss),
		ChangeRate: parseFloatSafe(result.Output.PrdyCtrt),
		Volume:     parseIntSafe(result.Output.AcmlVol),
		FetchedAt:  time.Now(),
	}, nil
}

// GetVolumeLeaders returns the top stocks by accumulated volume.
// limit caps the result; KIS returns at most 30 rows per call.
func (c *Client) GetVolumeLeaders(ctx context.Context, limit int) ([]VolumeLeader, error) {
	path := "/uapi/domestic-stock/v1/quotations/volume-rank"
	params := "?FID_COND_MRKT_DIV_CODE=J&FID_COND_SCR_DIV_CODE=20171&FID_INPUT_ISCD=0000&FID_DIV_CLS_CODE=0&FID_BLNG_CLS_CODE=0&FID_TRGT_CLS_CODE=111111111&FID_TRGT_EXLS_CLS_CODE=000000&FID_INPUT_PRICE_1=&FID_INPUT_PRICE_2=&FID_VOL_CNT=&FID_INPUT_DATE_1="

	resp, err := c.request(ctx, http.MethodGet, path+params, TRIDVolumeRank, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("volume rank request: %w", err)
	}
	defer resp.Body.Close()

	var result volumeRankResponse
	if err := decodeEnvelope(resp, &result); err != nil {
		return nil, fmt.Errorf("volume rank: %w", err)
	}

	if result.RtCd != "0" {
		return nil, fmt.Errorf("volume rank API error: %s - %s", result.MsgCd, result.Msg1)
	}

	leaders := make([]VolumeLeader, 0, len(result.Output))
	for i, out := range result.Output {
		if limit > 0 && i >= limit {
			break
		}
		leaders = append(leaders, VolumeLeader{
			Rank:       i + 1,
			StockCode:  out.MkscShrnIscd,
			StockName:  out.HtsKorIsnm,
			Price:      parseIntSafe(out.StckPrpr),
			ChangeRate: parseFloatSafe(out.PrdyCtrt),
			Volume:     parseIntSafe(out.AcmlVol),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"count": len(leaders),
	}).Debug("Volume leaders fetched")

	return leaders, nil
}
