package llm

import (
	"context"
	"time"
)

type NewsItem struct {
	Headline  string
	Publisher string
	Sentiment *float64
}

type HistoryEntry struct {
	CreatedAt  time.Time
	Signal     string
	Confidence float64
	Reasoning  string
}

type AnalysisInput struct {
	Ticker  string
	News    []NewsItem
	History []HistoryEntry
}

type AnalysisResult struct {
	Signal        string
	Confidence    float64
	Reasoning     string
	KeyFactors    []string
	Risks         []string
	Timeframe     string
	PromptVersion string
	ModelUsed     string
}

type Analyzer interface {
	Analyze(ctx context.Context, input AnalysisInput) (*AnalysisResult, error)
	Name() string
}
