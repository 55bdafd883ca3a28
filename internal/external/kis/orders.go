package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TR IDs for order operations
const (
	// 매수
	TRIDBuyReal    = "TTTC0802U"
	TRIDBuyVirtual = "VTTC0802U"

	// 매도
	TRIDSellReal    = "TTTC0801U"
	TRIDSellVirtual = "VTTC0801U"
)

// PlaceOrder places a cash order
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	path := "/uapi/domestic-stock/v1/trading/order-cash"

	var trID string
	if req.Side == OrderSideBuy {
		trID = TRIDBuyReal
		if c.cfg.IsVirtual {
			trID = TRIDBuyVirtual
		}
	} else {
		trID = TRIDSellReal
		if c.cfg.IsVirtual {
			trID = TRIDSellVirtual
		}
	}

	cano, acntPrdtCd, err := c.splitAccountNo()
	if err != nil {
		return nil, err
	}

	// Order division code: 00=지정가, 01=시장가
	ordDvsn := "00"
	if req.Type == OrderTypeMarket {
		ordDvsn = "01"
	}

	body := placeOrderRequestBody{
		CANO:         cano,
		ACNT_PRDT_CD: acntPrdtCd,
		PDNO:         req.StockCode,
		ORD_DVSN:     ordDvsn,
		ORD_QTY:      fmt.Sprintf("%d", req.Quantity),
		ORD_UNPR:     fmt.Sprintf("%d", req.Price),
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal order body: %w", err)
	}

	// POST orders require a hashkey header
	hashkey, err := c.getHashkey(ctx, jsonBody)
	if err != nil {
		return nil, fmt.Errorf("get hashkey: %w", err)
	}

	resp, err := c.request(ctx, http.MethodPost, path, trID, map[string]string{"hashkey": hashkey}, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("place order request: %w", err)
	}
	defer resp.Body.Close()

	var result placeOrderResponse
	if err := decodeEnvelope(resp, &result); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	orderResult := &PlaceOrderResult{
		Success:   result.RtCd == "0",
		OrderNo:   result.Output.ODNO,
		OrderTime: result.Output.ORD_TMD,
		Message:   result.Msg1,
	}

	if !orderResult.Success {
		c.logger.WithFields(map[string]interface{}{
			"stock_code": req.StockCode,
			"side":       req.Side,
			"error":      result.Msg1,
		}).Error("Order placement failed")
	} else {
		c.logger.WithFields(map[string]interface{}{
			"stock_code": req.StockCode,
			"side":       req.Side,
			"order_no":   orderResult.OrderNo,
			"quantity":   req.Quantity,
			"price":      req.Price,
		}).Info("Order placed successfully")
	}

	return orderResult, nil
}

// getHashkey generates a hashkey for POST request bodies
func (c *Client) getHashkey(ctx context.Context, jsonBody []byte) (string, error) {
	url := fmt.Sprintf("%s/uapi/hashkey", c.cfg.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result hashkeyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Hash, nil
}
