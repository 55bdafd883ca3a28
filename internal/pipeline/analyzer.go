package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/pkg/config"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// Placeholder factor entries. The lists are never empty: downstream
// rendering relies on at least one entry per list.
const (
	noOpportunityFactors = "no notable opportunity factors"
	noRiskFactors        = "no notable risk factors"
)

// Analyzer derives a scored market read from the held positions' quotes and
// the market-wide volume ranking.
type Analyzer struct {
	quotes QuoteService
	flows  FlowReader // optional
	cfg    config.TradingConfig
	logger *logger.Logger
}

// NewAnalyzer creates a market analyzer. flows may be nil.
func NewAnalyzer(quotes QuoteService, flows FlowReader, cfg config.TradingConfig, log *logger.Logger) *Analyzer {
	return &Analyzer{
		quotes: quotes,
		flows:  flows,
		cfg:    cfg,
		logger: log,
	}
}

// Analyze issues one price lookup per held ticker plus one volume-leaders
// lookup and scores the result. Individual lookup failures degrade the
// result but never abort the stage; only a missing snapshot is fatal.
func (a *Analyzer) Analyze(ctx context.Context, snap *contracts.PortfolioSnapshot) (*contracts.MarketSignal, error) {
	if snap == nil {
		return nil, &ErrMissingInput{Stage: "analyze", Slot: "portfolio"}
	}

	var movers []contracts.Mover
	for _, pos := range snap.SortedPositions() {
		quote, err := a.quotes.GetPrice(ctx, pos.Ticker)
		if err != nil {
			a.logger.WithError(err).WithField("ticker", pos.Ticker).Warn("Price lookup failed, ticker excluded from movers")
			continue
		}

		if abs(quote.ChangeRate) >= a.cfg.MoverThreshold {
			direction := contracts.DirectionRising
			if quote.ChangeRate < 0 {
				direction = contracts.DirectionFalling
			}
			movers = append(movers, contracts.Mover{
				Ticker:     pos.Ticker,
				Name:       pos.Name,
				Price:      quote.Price,
				ChangeRate: quote.ChangeRate,
				Volume:     quote.Volume,
				Direction:  direction,
			})
		}
	}

	// Market-wide volume ranking is advisory only
	leaders, err := a.quotes.GetVolumeLeaders(ctx, 10)
	if err != nil {
		a.logger.WithError(err).Warn("Volume leaders lookup failed")
		leaders = nil
	}

	score := 50
	sentiment := contracts.SentimentNeutral
	var opportunity, risk []string

	rising, falling := 0, 0
	for _, m := range movers {
		if m.Direction == contracts.DirectionRising {
			rising++
		} else {
			falling++
		}
	}

	if rising > falling {
		sentiment = contracts.SentimentBullish
		score += 20
		opportunity = append(opportunity, fmt.Sprintf("%d held positions rising sharply", rising))
	} else if falling > rising {
		sentiment = contracts.SentimentBearish
		score -= 20
		risk = append(risk, fmt.Sprintf("%d held positions falling sharply", falling))
	}

	if snap.CashRatio > 50 {
		opportunity = append(opportunity, "high cash ratio leaves room to buy")
		score += 10
	} else if snap.CashRatio < 10 {
		risk = append(risk, "low cash ratio limits further investment")
		score -= 10
	}

	if len(snap.Positions) > 10 {
		risk = append(risk, "holding more than 10 positions increases management overhead")
	}

	a.noteInvestorFlow(ctx, snap, &opportunity, &risk)

	if len(opportunity) == 0 {
		opportunity = append(opportunity, noOpportunityFactors)
	}
	if len(risk) == 0 {
		risk = append(risk, noRiskFactors)
	}
	if movers == nil {
		movers = []contracts.Mover{}
	}

	signal := &contracts.MarketSignal{
		Score:       contracts.ClampScore(score),
		Sentiment:   sentiment,
		Movers:      movers,
		Opportunity: opportunity,
		Risk:        risk,
		AnalyzedAt:  time.Now(),
	}

	a.logger.WithFields(map[string]interface{}{
		"sentiment":      signal.Sentiment,
		"score":          signal.Score,
		"movers":         len(movers),
		"volume_leaders": len(leaders),
	}).Info("Market analysis complete")

	return signal, nil
}

// noteInvestorFlow consults the investor net-flow source for the largest
// held position. Failures degrade silently; the flow read never changes
// the score, only the factor lists.
func (a *Analyzer) noteInvestorFlow(ctx context.Context, snap *contracts.PortfolioSnapshot, opportunity, risk *[]string) {
	if a.flows == nil || len(snap.Positions) == 0 {
		return
	}

	largest := snap.Positions[0]
	for _, pos := range snap.Positions[1:] {
		if pos.EvalAmount > largest.EvalAmount {
			largest = pos
		}
	}

	foreignNet, instNet, err := a.flows.InvestorNetFlow(ctx, largest.Ticker)
	if err != nil {
		a.logger.WithError(err).WithField("ticker", largest.Ticker).Warn("Investor flow lookup failed")
		return
	}

	if foreignNet+instNet > 0 {
		*opportunity = append(*opportunity, fmt.Sprintf("foreign and institutional net buying in %s", largest.Ticker))
	} else if foreignNet+instNet < 0 {
		*risk = append(*risk, fmt.Sprintf("foreign and institutional net selling in %s", largest.Ticker))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
