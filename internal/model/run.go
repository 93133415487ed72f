package model

import "time"

const (
	TickerStatusSuccess = "success"
	TickerStatusFailed  = "failed"
)

type AnalysisRun struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	TickerCount int
	Succeeded   int
	Failed      int
}

// TickerResult is the outcome of one ticker within a run. It is not persisted;
// the stored prediction carries the durable data.
type TickerResult struct {
	Ticker     string
	Status     string
	Signal     string
	Confidence float64
	Error      string
}
