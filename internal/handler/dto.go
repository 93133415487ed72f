package handler

import (
	"time"

	"github.com/maryamMilad/ai-trading-agent/internal/model"
)

type PredictionResponse struct {
	Ticker         string   `json:"ticker"`
	Signal         string   `json:"signal"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	KeyFactors     []string `json:"key_factors"`
	Risks          []string `json:"risks"`
	Timeframe      string   `json:"timeframe"`
	SentimentScore float64  `json:"sentiment_score"`
	ModelUsed      string   `json:"model_used"`
	Timestamp      string   `json:"timestamp"`
}

type BatchErrorItem struct {
	Ticker string `json:"ticker"`
	Error  string `json:"error"`
	Status string `json:"status"`
}

type BatchResponse struct {
	Predictions []any  `json:"predictions"`
	Count       int    `json:"count"`
	Timestamp   string `json:"timestamp"`
}

type HistoryItem struct {
	ID             int64    `json:"id"`
	Ticker         string   `json:"ticker"`
	Signal         string   `json:"signal"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	KeyFactors     []string `json:"key_factors"`
	Risks          []string `json:"risks"`
	Timeframe      string   `json:"timeframe"`
	SentimentScore float64  `json:"sentiment_score"`
	ArticleCount   int      `json:"article_count"`
	ModelUsed      string   `json:"model_used"`
	RunID          string   `json:"run_id"`
	CreatedAt      string   `json:"created_at"`
}

type HistoryResponse struct {
	Ticker  string        `json:"ticker"`
	History []HistoryItem `json:"history"`
	Count   int           `json:"count"`
}

type RunResponse struct {
	ID          string `json:"id"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at"`
	TickerCount int    `json:"ticker_count"`
	Succeeded   int    `json:"succeeded"`
	Failed      int    `json:"failed"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func toPredictionResponse(p *model.Prediction) PredictionResponse {
	return PredictionResponse{
		Ticker:         p.Ticker,
		Signal:         p.Signal,
		Confidence:     p.Confidence,
		Reasoning:      p.Reasoning,
		KeyFactors:     nonNil(p.KeyFactors),
		Risks:          nonNil(p.Risks),
		Timeframe:      p.Timeframe,
		SentimentScore: p.SentimentScore,
		ModelUsed:      p.ModelUsed,
		Timestamp:      p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toHistoryItem(p model.Prediction) HistoryItem {
	return HistoryItem{
		ID:             p.ID,
		Ticker:         p.Ticker,
		Signal:         p.Signal,
		Confidence:     p.Confidence,
		Reasoning:      p.Reasoning,
		KeyFactors:     nonNil(p.KeyFactors),
		Risks:          nonNil(p.Risks),
		Timeframe:      p.Timeframe,
		SentimentScore: p.SentimentScore,
		ArticleCount:   p.ArticleCount,
		ModelUsed:      p.ModelUsed,
		RunID:          p.RunID,
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toRunResponse(r *model.AnalysisRun) RunResponse {
	return RunResponse{
		ID:          r.ID,
		StartedAt:   r.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:  r.FinishedAt.UTC().Format(time.RFC3339),
		TickerCount: r.TickerCount,
		Succeeded:   r.Succeeded,
		Failed:      r.Failed,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
