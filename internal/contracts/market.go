package contracts

import "time"

// Sentiment is the coarse market read derived from the day's movers
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// Direction of a mover's price change
type Direction string

const (
	DirectionRising  Direction = "rising"
	DirectionFalling Direction = "falling"
)

// Mover is one volume-leading stock whose change rate crossed the threshold
type Mover struct {
	Ticker     string    `json:"ticker"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	ChangeRate float64   `json:"change_rate"` // 등락률 (%)
	Volume     int64     `json:"volume"`
	Direction  Direction `json:"direction"`
}

// MarketSignal is the analyzer's output: a scored market read with the
// factor lists the report renders. Factor lists are never empty; when
// nothing qualified a placeholder entry is inserted instead.
type MarketSignal struct {
	Score       int       `json:"score"` // 0-100
	Sentiment   Sentiment `json:"sentiment"`
	Movers      []Mover   `json:"movers"`
	Opportunity []string  `json:"opportunity"`
	Risk        []string  `json:"risk"`
	AnalyzedAt  time.Time `json:"analyzed_at"`
}

// ClampScore bounds a raw score to the valid 0-100 range
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
