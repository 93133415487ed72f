package model

import (
	"time"
)

const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
	SignalHold = "HOLD"
)

type Prediction struct {
	ID             int64
	Ticker         string
	Signal         string
	Confidence     float64
	Reasoning      string
	KeyFactors     []string
	Risks          []string
	Timeframe      string
	SentimentScore float64
	ArticleCount   int
	ModelUsed      string
	RunID          string
	CreatedAt      time.Time
}

func ValidSignal(signal string) bool {
	switch signal {
	case SignalBuy, SignalSell, SignalHold:
		return true
	}
	return false
}
