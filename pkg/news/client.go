package news

import (
	"context"
	"time"
)

type Article struct {
	ExternalID  string
	Headline    string
	Detail      string
	URL         string
	Source      string
	PublishedAt time.Time
	Symbols     []string
	Publisher   string
	// Sentiment is the vendor's overall score in [-1, 1], nil when the
	// source does not score articles.
	Sentiment *float64
	// TickerSentiment is the score for the requested ticker only.
	TickerSentiment *float64
}

type NewsClient interface {
	Fetch(ctx context.Context, ticker string, limit int) ([]Article, error)
	Name() string
}
