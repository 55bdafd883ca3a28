package kis

import (
	"context"
	"fmt"
	"net/http"
)

// TR IDs for the buyable-quantity inquiry
const (
	// 매수가능조회
	TRIDOrderableReal    = "TTTC8908R"
	TRIDOrderableVirtual = "VTTC8908R"
)

// GetOrderable queries how many shares of a stock the account could buy
// at the given price. A successful response means the stock is tradable
// from this account; suspended or delisted stocks come back as API errors.
func (c *Client) GetOrderable(ctx context.Context, stockCode string, price int64) (*Orderable, error) {
	path := "/uapi/domestic-stock/v1/trading/inquire-psbl-order"

	trID := TRIDOrderableReal
	if c.cfg.IsVirtual {
		trID = TRIDOrderableVirtual
	}

	cano, acntPrdtCd, err := c.splitAccountNo()
	if err != nil {
		return nil, err
	}

	// ORD_DVSN 01 (시장가) keeps the probe price-independent
	params := fmt.Sprintf(
		"?CANO=%s&ACNT_PRDT_CD=%s&PDNO=%s&ORD_UNPR=%d&ORD_DVSN=01&CMA_EVLU_AMT_ICLD_YN=N&OVRS_ICLD_YN=N",
		cano, acntPrdtCd, stockCode, price,
	)

	resp, err := c.request(ctx, http.MethodGet, path+params, trID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("orderable request: %w", err)
	}
	defer resp.Body.Close()

	var result orderableResponse
	if err := decodeEnvelope(resp, &result); err != nil {
		return nil, fmt.Errorf("orderable: %w", err)
	}

	if result.RtCd != "0" {
		return nil, fmt.Errorf("orderable API error: %s - %s", result.MsgCd, result.Msg1)
	}

	return &Orderable{
		StockCode:   stockCode,
		MaxQuantity: parseIntSafe(result.Output.MaxBuyQty),
		MaxAmount:   parseIntSafe(result.Output.MaxBuyAmt),
	}, nil
}
