package kis

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// TR IDs for balance queries
const (
	// 실전
	TRIDBalanceReal = "TTTC8434R"
	// 모의
	TRIDBalanceVirtual = "VTTC8434R"
)

// GetBalance returns account balance and holdings
func (c *Client) GetBalance(ctx context.Context) (*Balance, []Holding, error) {
	path := "/uapi/domestic-stock/v1/trading/inquire-balance"

	trID := TRIDBalanceReal
	if c.cfg.IsVirtual {
		trID = TRIDBalanceVirtual
	}

	cano, acntPrdtCd, err := c.splitAccountNo()
	if err != nil {
		return nil, nil, err
	}

	params := fmt.Sprintf("?CANO=%s&ACNT_PRDT_CD=%s&AFHR_FLPR_YN=N&OFL_YN=&INQR_DVSN=02&UNPR_DVSN=01&FUND_STTL_ICLD_YN=N&FNCG_AMT_AUTO_RDPT_YN=N&PRCS_DVSN=00&CTX_AREA_FK100=&CTX_AREA_NK100=",
		cano, acntPrdtCd)

	resp, err := c.request(ctx, http.MethodGet, path+params, trID, nil, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("balance request: %w", err)
	}
	defer resp.Body.Close()

	var result balanceResponse
	if err := decodeEnvelope(resp, &result); err != nil {
		return nil, nil, fmt.Errorf("balance: %w", err)
	}

	if result.RtCd != "0" {
		return nil, nil, fmt.Errorf("balance API error: %s - %s", result.MsgCd, result.Msg1)
	}

	balance := &Balance{}
	if len(result.Output2) > 0 {
		out := result.Output2[0]
		balance.TotalDeposit = parseIntSafe(out.DncaTotAmt)
		balance.AvailableCash = parseIntSafe(out.PrvsRcdlExccAmt)
		balance.TotalPurchase = parseIntSafe(out.PchsAmtSmtlAmt)
		balance.TotalEvaluation = parseIntSafe(out.EvluAmtSmtlAmt)
		balance.TotalProfitLoss = parseIntSafe(out.EvluPflsSmtlAmt)
		balance.TotalAsset = parseIntSafe(out.TotEvluAmt)

		if balance.TotalPurchase > 0 {
			balance.ProfitLossRate = float64(balance.TotalProfitLoss) / float64(balance.TotalPurchase) * 100
		}
	}

	holdings := make([]Holding, 0, len(result.Output1))
	for _, out := range result.Output1 {
		qty := parseIntSafe(out.HldgQty)
		if qty == 0 {
			continue // Skip zero quantity positions
		}

		holdings = append(holdings, Holding{
			StockCode:         out.Pdno,
			StockName:         out.PrdtName,
			Quantity:          qty,
			AvailableQuantity: parseIntSafe(out.OrdPsblQty),
			AvgBuyPrice:       parseIntSafe(out.PchsAvgPric),
			CurrentPrice:      parseIntSafe(out.Prpr),
			EvalAmount:        parseIntSafe(out.EvluAmt),
			PurchaseAmount:    parseIntSafe(out.PchsAmt),
			ProfitLoss:        parseIntSafe(out.EvluPflsAmt),
			ProfitLossRate:    parseFloatSafe(out.EvluPflsRt),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"total_asset":    balance.TotalAsset,
		"holdings_count": len(holdings),
	}).Debug("Balance fetched")

	return balance, holdings, nil
}

// splitAccountNo splits the 10-digit account number into CANO (first 8)
// and ACNT_PRDT_CD (last 2)
func (c *Client) splitAccountNo() (string, string, error) {
	accountNo := c.cfg.AccountNo
	if len(accountNo) < 10 {
		return "", "", fmt.Errorf("invalid account number format")
	}
	return accountNo[:8], accountNo[8:10], nil
}

// Helper functions
func parseIntSafe(s string) int64 {
	if s == "" {
		return 0
	}
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloatSafe(s string) float64 {
	if s == "" {
		return 0
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
