package kis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsuk-dev/hermes/pkg/config"
	"github.com/minsuk-dev/hermes/pkg/httputil"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.KISConfig{
		AppKey:    "test-key",
		AppSecret: "test-secret",
		AccountNo: "1234567801",
		BaseURL:   server.URL,
		IsVirtual: true,
	}
	log := logger.Nop()
	httpClient := httputil.New(log).DisableRetry()
	return NewClient(cfg, httpClient, log), server
}

func tokenHandler(w http.ResponseWriter) {
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: "test-token",
		TokenType:   "Bearer",
		ExpiresIn:   86400,
	})
}

func TestParseIntSafe(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"75000", 75000},
		{"0", 0},
		{"", 0},
		{"not-a-number", 0},
		{"-1200", -1200},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseIntSafe(tt.input), "input=%q", tt.input)
	}
}

func TestParseFloatSafe(t *testing.T) {
	assert.InDelta(t, -5.21, parseFloatSafe("-5.21"), 0.001)
	assert.InDelta(t, 0.0, parseFloatSafe(""), 0.001)
	assert.InDelta(t, 3.5, parseFloatSafe("3.5"), 0.001)
}

func TestGetBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		tokenHandler(w)
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/trading/inquire-balance", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, TRIDBalanceVirtual, r.Header.Get("tr_id"))
		assert.Equal(t, "12345678", r.URL.Query().Get("CANO"))
		assert.Equal(t, "01", r.URL.Query().Get("ACNT_PRDT_CD"))

		w.Write([]byte(`{
			"rt_cd": "0",
			"output1": [
				{"pdno":"005930","prdt_name":"삼성전자","hldg_qty":"10","ord_psbl_qty":"10","pchs_avg_pric":"78000","prpr":"75000","evlu_amt":"750000","pchs_amt":"780000","evlu_pfls_amt":"-30000","evlu_pfls_rt":"-3.85"},
				{"pdno":"000660","prdt_name":"SK하이닉스","hldg_qty":"0"}
			],
			"output2": [
				{"dnca_tot_amt":"500000","prvs_rcdl_excc_amt":"500000","pchs_amt_smtl_amt":"780000","evlu_amt_smtl_amt":"750000","evlu_pfls_smtl_amt":"-30000","tot_evlu_amt":"1250000"}
			]
		}`))
	})

	client, _ := newTestClient(t, mux)

	balance, holdings, err := client.GetBalance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(500000), balance.AvailableCash)
	assert.Equal(t, int64(1250000), balance.TotalAsset)
	assert.InDelta(t, -3.846, balance.ProfitLossRate, 0.01)

	// zero-quantity rows are dropped
	require.Len(t, holdings, 1)
	assert.Equal(t, "005930", holdings[0].StockCode)
	assert.Equal(t, int64(10), holdings[0].Quantity)
	assert.InDelta(t, -3.85, holdings[0].ProfitLossRate, 0.001)
}

func TestGetBalanceAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		tokenHandler(w)
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/trading/inquire-balance", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rt_cd":"1","msg_cd":"EGW00123","msg1":"기간이 만료된 token 입니다"}`))
	})

	client, _ := newTestClient(t, mux)

	_, _, err := client.GetBalance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EGW00123")
}

func TestGetQuote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		tokenHandler(w)
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/quotations/inquire-price", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "005930", r.URL.Query().Get("fid_input_iscd"))
		w.Write([]byte(`{"rt_cd":"0","output":{"stck_prpr":"75000","prdy_vrss":"1500","prdy_ctrt":"2.04","acml_vol":"8500000","stck_shrn_iscd":"005930"}}`))
	})

	client, _ := newTestClient(t, mux)

	quote, err := client.GetQuote(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, int64(75000), quote.Price)
	assert.InDelta(t, 2.04, quote.ChangeRate, 0.001)
	assert.Equal(t, int64(8500000), quote.Volume)
}

func TestGetVolumeLeaders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		tokenHandler(w)
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/quotations/volume-rank", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rt_cd":"0","output":[
			{"mksc_shrn_iscd":"000660","hts_kor_isnm":"SK하이닉스","stck_prpr":"180000","prdy_ctrt":"4.20","acml_vol":"12000000"},
			{"mksc_shrn_iscd":"005930","hts_kor_isnm":"삼성전자","stck_prpr":"75000","prdy_ctrt":"-1.10","acml_vol":"8500000"},
			{"mksc_shrn_iscd":"035720","hts_kor_isnm":"카카오","stck_prpr":"41000","prdy_ctrt":"0.50","acml_vol":"6000000"}
		]}`))
	})

	client, _ := newTestClient(t, mux)

	leaders, err := client.GetVolumeLeaders(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, leaders, 2)
	assert.Equal(t, 1, leaders[0].Rank)
	assert.Equal(t, "000660", leaders[0].StockCode)
	assert.InDelta(t, 4.2, leaders[0].ChangeRate, 0.001)
}

func TestPlaceOrder(t *testing.T) {
	var gotHashkey string
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		tokenHandler(w)
	})
	mux.HandleFunc("/uapi/hashkey", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"HASH":"abc123"}`))
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/trading/order-cash", func(w http.ResponseWriter, r *http.Request) {
		gotHashkey = r.Header.Get("hashkey")
		assert.Equal(t, TRIDBuyVirtual, r.Header.Get("tr_id"))

		var body placeOrderRequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "005930", body.PDNO)
		assert.Equal(t, "1", body.ORD_QTY)
		assert.Equal(t, "75000", body.ORD_UNPR)
		assert.Equal(t, "00", body.ORD_DVSN)

		w.Write([]byte(`{"rt_cd":"0","msg1":"정상처리 되었습니다","output":{"ODNO":"0000117057","ORD_TMD":"121052"}}`))
	})

	client, _ := newTestClient(t, mux)

	result, err := client.PlaceOrder(context.Background(), PlaceOrderRequest{
		StockCode: "005930",
		Side:      OrderSideBuy,
		Type:      OrderTypeLimit,
		Quantity:  1,
		Price:     75000,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "0000117057", result.OrderNo)
	assert.Equal(t, "abc123", gotHashkey)
}

func TestPlaceOrderRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		tokenHandler(w)
	})
	mux.HandleFunc("/uapi/hashkey", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"HASH":"abc123"}`))
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/trading/order-cash", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rt_cd":"1","msg_cd":"APBK0952","msg1":"주문가능금액을 초과했습니다","output":{}}`))
	})

	client, _ := newTestClient(t, mux)

	result, err := client.PlaceOrder(context.Background(), PlaceOrderRequest{
		StockCode: "005930",
		Side:      OrderSideBuy,
		Type:      OrderTypeLimit,
		Quantity:  100,
		Price:     75000,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "주문가능금액")
}

func TestGetOrderable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		tokenHandler(w)
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/trading/inquire-psbl-order", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "VTTC8908R", r.Header.Get("tr_id"))
		assert.Equal(t, "005930", r.URL.Query().Get("PDNO"))
		assert.Equal(t, "12345678", r.URL.Query().Get("CANO"))
		w.Write([]byte(`{"rt_cd":"0","output":{"max_buy_qty":"13","max_buy_amt":"975000","ord_psbl_cash":"1000000"}}`))
	})

	client, _ := newTestClient(t, mux)

	orderable, err := client.GetOrderable(context.Background(), "005930", 75000)
	require.NoError(t, err)
	assert.Equal(t, int64(13), orderable.MaxQuantity)
	assert.Equal(t, int64(975000), orderable.MaxAmount)
}

func TestGetOrderableSuspendedStock(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		tokenHandler(w)
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/trading/inquire-psbl-order", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rt_cd":"1","msg_cd":"APBK0918","msg1":"거래정지 종목입니다"}`))
	})

	client, _ := newTestClient(t, mux)

	_, err := client.GetOrderable(context.Background(), "123456", 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "거래정지")
}
