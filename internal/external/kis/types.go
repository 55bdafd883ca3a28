package kis

import "time"

// ============================================================
// Balance & Position Types
// ============================================================

// Balance represents account balance summary
type Balance struct {
	TotalDeposit    int64   `json:"total_deposit"`     // 예수금
	AvailableCash   int64   `json:"available_cash"`    // 출금가능금액
	TotalPurchase   int64   `json:"total_purchase"`    // 매입금액합계
	TotalEvaluation int64   `json:"total_evaluation"`  // 평가금액합계
	TotalProfitLoss int64   `json:"total_profit_loss"` // 평가손익합계
	ProfitLossRate  float64 `json:"profit_loss_rate"`  // 수익률
	TotalAsset      int64   `json:"total_asset"`       // 총자산
}

// Holding represents a stock position held in the account
type Holding struct {
	StockCode         string  `json:"stock_code"`
	StockName         string  `json:"stock_name"`
	Quantity          int64   `json:"quantity"`           // 보유수량
	AvailableQuantity int64   `json:"available_quantity"` // 매도가능수량
	AvgBuyPrice       int64   `json:"avg_buy_price"`      // 평균매입가
	CurrentPrice      int64   `json:"current_price"`      // 현재가
	EvalAmount        int64   `json:"eval_amount"`        // 평가금액
	PurchaseAmount    int64   `json:"purchase_amount"`    // 매입금액
	ProfitLoss        int64   `json:"profit_loss"`        // 평가손익
	ProfitLossRate    float64 `json:"profit_loss_rate"`   // 수익률
}

// ============================================================
// Quote Types
// ============================================================

// Quote represents a current price quote
type Quote struct {
	StockCode  string    `json:"stock_code"`
	Price      int64     `json:"price"`       // 현재가
	Change     int64     `json:"change"`      // 전일대비
	ChangeRate float64   `json:"change_rate"` // 등락률
	Volume     int64     `json:"volume"`      // 누적거래량
	FetchedAt  time.Time `json:"fetched_at"`
}

// VolumeLeader represents one entry in the volume ranking
type VolumeLeader struct {
	Rank       int     `json:"rank"`
	StockCode  string  `json:"stock_code"`
	StockName  string  `json:"stock_name"`
	Price      int64   `json:"price"`
	ChangeRate float64 `json:"change_rate"`
	Volume     int64   `json:"volume"`
}

// ============================================================
// Order Types
// ============================================================

// OrderSide represents buy or sell
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderType represents order type
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"  // 지정가
	OrderTypeMarket OrderType = "market" // 시장가
)

// PlaceOrderRequest represents a request to place an order
type PlaceOrderRequest struct {
	StockCode string    `json:"stock_code"`
	Side      OrderSide `json:"side"`
	Type      OrderType `json:"type"`
	Quantity  int64     `json:"quantity"`
	Price     int64     `json:"price"` // 0 for market order
}

// PlaceOrderResult represents the result of placing an order
type PlaceOrderResult struct {
	Success   bool   `json:"success"`
	OrderNo   string `json:"order_no"`
	OrderTime string `json:"order_time"`
	Message   string `json:"message"`
}

// Orderable represents the buyable-quantity inquiry result for a stock
type Orderable struct {
	StockCode   string `json:"stock_code"`
	MaxQuantity int64  `json:"max_quantity"` // 최대주문가능수량
	MaxAmount   int64  `json:"max_amount"`   // 최대주문가능금액
}

// ============================================================
// KIS API Response Types (Internal)
// ============================================================

// balanceResponse represents KIS balance API response
type balanceResponse struct {
	RtCd    string `json:"rt_cd"`
	MsgCd   string `json:"msg_cd"`
	Msg1    string `json:"msg1"`
	Output1 []struct {
		Pdno        string `json:"pdno"`          // 종목코드
		PrdtName    string `json:"prdt_name"`     // 종목명
		HldgQty     string `json:"hldg_qty"`      // 보유수량
		OrdPsblQty  string `json:"ord_psbl_qty"`  // 주문가능수량
		PchsAvgPric string `json:"pchs_avg_pric"` // 매입평균가
		Prpr        string `json:"prpr"`          // 현재가
		EvluAmt     string `json:"evlu_amt"`      // 평가금액
		PchsAmt     string `json:"pchs_amt"`      // 매입금액
		EvluPflsAmt string `json:"evlu_pfls_amt"` // 평가손익
		EvluPflsRt  string `json:"evlu_pfls_rt"`  // 수익률
	} `json:"output1"`
	Output2 []struct {
		DncaTotAmt      string `json:"dnca_tot_amt"`       // 예수금총금액
		PrvsRcdlExccAmt string `json:"prvs_rcdl_excc_amt"` // 출금가능금액
		PchsAmtSmtlAmt  string `json:"pchs_amt_smtl_amt"`  // 매입금액합계
		EvluAmtSmtlAmt  string `json:"evlu_amt_smtl_amt"`  // 평가금액합계
		EvluPflsSmtlAmt string `json:"evlu_pfls_smtl_amt"` // 평가손익합계
		TotEvluAmt      string `json:"tot_evlu_amt"`       // 총평가금액
	} `json:"output2"`
}

// quoteResponse represents KIS current price API response
type quoteResponse struct {
	RtCd   string `json:"rt_cd"`
	MsgCd  string `json:"msg_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		StckPrpr     string `json:"stck_prpr"`      // 현재가
		PrdyVrss     string `json:"prdy_vrss"`      // 전일대비
		PrdyCtrt     string `json:"prdy_ctrt"`      // 등락률
		AcmlVol      string `json:"acml_vol"`       // 누적거래량
		StckShrnIscd string `json:"stck_shrn_iscd"` // 종목코드
	} `json:"output"`
}

// volumeRankResponse represents KIS volume ranking API response
type volumeRankResponse struct {
	RtCd   string `json:"rt_cd"`
	MsgCd  string `json:"msg_cd"`
	Msg1   string `json:"msg1"`
	Output []struct {
		MkscShrnIscd string `json:"mksc_shrn_iscd"` // 종목코드
		HtsKorIsnm   string `json:"hts_kor_isnm"`   // 종목명
		StckPrpr     string `json:"stck_prpr"`      // 현재가
		PrdyCtrt     string `json:"prdy_ctrt"`      // 등락률
		AcmlVol      string `json:"acml_vol"`       // 누적거래량
	} `json:"output"`
}

// placeOrderRequestBody represents KIS place order request body
type placeOrderRequestBody struct {
	CANO         string `json:"CANO"`         // 계좌번호
	ACNT_PRDT_CD string `json:"ACNT_PRDT_CD"` // 계좌상품코드
	PDNO         string `json:"PDNO"`         // 종목코드
	ORD_DVSN     string `json:"ORD_DVSN"`     // 00:지정가, 01:시장가
	ORD_QTY      string `json:"ORD_QTY"`      // 주문수량
	ORD_UNPR     string `json:"ORD_UNPR"`     // 주문단가
}

// placeOrderResponse represents KIS place order response
type placeOrderResponse struct {
	RtCd   string `json:"rt_cd"`
	MsgCd  string `json:"msg_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		KRX_FWDG_ORD_ORGNO string `json:"KRX_FWDG_ORD_ORGNO"`
		ODNO               string `json:"ODNO"`    // 주문번호
		ORD_TMD            string `json:"ORD_TMD"` // 주문시각
	} `json:"output"`
}

// orderableResponse represents KIS buyable-quantity inquiry response
type orderableResponse struct {
	RtCd   string `json:"rt_cd"`
	MsgCd  string `json:"msg_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		MaxBuyQty   string `json:"max_buy_qty"`   // 최대매수가능수량
		MaxBuyAmt   string `json:"max_buy_amt"`   // 최대매수가능금액
		OrdPsblCash string `json:"ord_psbl_cash"` // 주문가능현금
	} `json:"output"`
}

// hashkeyResponse represents KIS hashkey response
type hashkeyResponse struct {
	Hash string `json:"HASH"`
}
