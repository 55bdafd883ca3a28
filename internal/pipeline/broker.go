package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/internal/external/kis"
	"github.com/minsuk-dev/hermes/internal/external/naver"
)

// ============================================================
// KIS adapters
// ============================================================

// KISAccount adapts the KIS client to the AccountService port
type KISAccount struct {
	client *kis.Client
}

// NewKISAccount wraps a KIS client as an account source
func NewKISAccount(client *kis.Client) *KISAccount {
	return &KISAccount{client: client}
}

func (a *KISAccount) GetBalance(ctx context.Context) (*AccountBalance, error) {
	balance, _, err := a.client.GetBalance(ctx)
	if err != nil {
		return nil, err
	}
	return &AccountBalance{
		TotalCash:  float64(balance.AvailableCash),
		TotalValue: float64(balance.TotalAsset),
		TotalPnl:   float64(balance.TotalProfitLoss),
	}, nil
}

func (a *KISAccount) GetHoldings(ctx context.Context) ([]contracts.Position, error) {
	_, holdings, err := a.client.GetBalance(ctx)
	if err != nil {
		return nil, err
	}

	positions := make([]contracts.Position, 0, len(holdings))
	for _, h := range holdings {
		positions = append(positions, contracts.Position{
			Ticker:       h.StockCode,
			Name:         h.StockName,
			Quantity:     int(h.Quantity),
			AvgBuyPrice:  float64(h.AvgBuyPrice),
			CurrentPrice: float64(h.CurrentPrice),
			EvalAmount:   float64(h.EvalAmount),
			PnlAmount:    float64(h.ProfitLoss),
			PnlRate:      h.ProfitLossRate,
		})
	}
	return positions, nil
}

// KISQuotes adapts the KIS client to the QuoteService port
type KISQuotes struct {
	client *kis.Client
}

// NewKISQuotes wraps a KIS client as a quote source
func NewKISQuotes(client *kis.Client) *KISQuotes {
	return &KISQuotes{client: client}
}

func (q *KISQuotes) GetPrice(ctx context.Context, ticker string) (*PriceQuote, error) {
	quote, err := q.client.GetQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return &PriceQuote{
		Price:      float64(quote.Price),
		ChangeRate: quote.ChangeRate,
		Volume:     quote.Volume,
	}, nil
}

func (q *KISQuotes) GetVolumeLeaders(ctx context.Context, limit int) ([]LeaderQuote, error) {
	leaders, err := q.client.GetVolumeLeaders(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]LeaderQuote, 0, len(leaders))
	for _, l := range leaders {
		out = append(out, LeaderQuote{
			Ticker:     l.StockCode,
			Name:       l.StockName,
			Price:      float64(l.Price),
			ChangeRate: l.ChangeRate,
			Volume:     l.Volume,
		})
	}
	return out, nil
}

// KISOrders adapts the KIS client to the OrderService port
type KISOrders struct {
	client *kis.Client
}

// NewKISOrders wraps a KIS client as an order sink
func NewKISOrders(client *kis.Client) *KISOrders {
	return &KISOrders{client: client}
}

func (o *KISOrders) SubmitOrder(ctx context.Context, action contracts.Action) (*OrderReceipt, error) {
	side := kis.OrderSideBuy
	if action.Type == contracts.ActionSell {
		side = kis.OrderSideSell
	}

	result, err := o.client.PlaceOrder(ctx, kis.PlaceOrderRequest{
		StockCode: action.Ticker,
		Side:      side,
		Type:      kis.OrderTypeLimit,
		Quantity:  int64(action.Quantity),
		Price:     int64(action.Price),
	})
	if err != nil {
		return nil, err
	}

	return &OrderReceipt{
		OrderID: result.OrderNo,
		Success: result.Success,
		Message: result.Message,
	}, nil
}

// ============================================================
// Naver adapter
// ============================================================

// NaverFlows adapts the Naver Finance client to the FlowReader port.
// Returns the most recent day's net flow for a ticker.
type NaverFlows struct {
	client *naver.Client
}

// NewNaverFlows wraps a Naver client as an investor-flow source
func NewNaverFlows(client *naver.Client) *NaverFlows {
	return &NaverFlows{client: client}
}

func (n *NaverFlows) InvestorNetFlow(ctx context.Context, ticker string) (int64, int64, error) {
	flows, err := n.client.FetchInvestorFlow(ctx, ticker, 1)
	if err != nil {
		return 0, 0, err
	}
	if len(flows) == 0 {
		return 0, 0, fmt.Errorf("no investor flow rows for %s", ticker)
	}
	return flows[0].ForeignNet, flows[0].InstitutionNet, nil
}

// ============================================================
// Simulated order path
// ============================================================

// SimulatedOrders accepts every order without touching the broker.
// Used in simulated execution mode; order IDs are locally generated.
type SimulatedOrders struct {
	seq atomic.Int64
}

// NewSimulatedOrders creates a simulated order sink
func NewSimulatedOrders() *SimulatedOrders {
	return &SimulatedOrders{}
}

func (s *SimulatedOrders) SubmitOrder(_ context.Context, action contracts.Action) (*OrderReceipt, error) {
	n := s.seq.Add(1)
	return &OrderReceipt{
		OrderID: fmt.Sprintf("SIM%08d", n),
		Success: true,
		Message: fmt.Sprintf("simulated %s of %s accepted", action.Type, action.Ticker),
	}, nil
}
