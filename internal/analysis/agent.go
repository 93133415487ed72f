package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/maryamMilad/ai-trading-agent/internal/model"
	"github.com/maryamMilad/ai-trading-agent/internal/trace"
	"github.com/maryamMilad/ai-trading-agent/pkg/llm"
	"github.com/maryamMilad/ai-trading-agent/pkg/news"
)

const DefaultHistoryLimit = 5

var (
	ErrEmptyWatchlist = errors.New("watchlist is empty")
	ErrAllFailed      = errors.New("every ticker in the run failed")
)

type NewsSource interface {
	Gather(ctx context.Context, ticker string) []news.Article
}

type PredictionStore interface {
	Save(ctx context.Context, p *model.Prediction) error
	History(ctx context.Context, ticker string, limit int) ([]model.Prediction, error)
}

type RunStore interface {
	SaveRun(ctx context.Context, run *model.AnalysisRun) error
}

type Notifier interface {
	Notify(ctx context.Context, run *model.AnalysisRun, results []model.TickerResult) error
}

type Summary struct {
	Run     model.AnalysisRun
	Results []model.TickerResult
}

// Agent runs one analysis pass over a watchlist: news, history, LLM call
// and storage for each ticker in order.
type Agent struct {
	news         NewsSource
	predictions  PredictionStore
	runs         RunStore
	analyzer     llm.Analyzer
	notifier     Notifier
	historyLimit int
	now          func() time.Time
	newID        func() string
}

type Option func(*Agent)

func WithNotifier(n Notifier) Option {
	return func(a *Agent) { a.notifier = n }
}

func WithHistoryLimit(limit int) Option {
	return func(a *Agent) {
		if limit > 0 {
			a.historyLimit = limit
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(a *Agent) { a.newID = newID }
}

func NewAgent(source NewsSource, predictions PredictionStore, runs RunStore, analyzer llm.Analyzer, opts ...Option) *Agent {
	a := &Agent{
		news:         source,
		predictions:  predictions,
		runs:         runs,
		analyzer:     analyzer,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run analyses every ticker and always returns the summary once the loop
// has started. The error is ErrAllFailed when no ticker succeeded.
func (a *Agent) Run(ctx context.Context, tickers []string) (*Summary, error) {
	if len(tickers) == 0 {
		return nil, ErrEmptyWatchlist
	}

	run := model.AnalysisRun{
		ID:          a.newID(),
		StartedAt:   a.now().UTC(),
		TickerCount: len(tickers),
	}

	ctx, span := trace.StartSpan(ctx, "analysis.Run")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", run.ID), attribute.Int("tickers", len(tickers)))

	slog.Info("analysis run started", "run_id", run.ID, "tickers", tickers, "model", a.analyzer.Name())

	results := make([]model.TickerResult, 0, len(tickers))
	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			for _, skipped := range tickers[i:] {
				results = append(results, model.TickerResult{Ticker: skipped, Status: model.TickerStatusFailed, Error: err.Error()})
			}
			slog.Warn("analysis run interrupted", "run_id", run.ID, "remaining", len(tickers)-i, "error", err)
			break
		}

		slog.Info("analyzing ticker", "run_id", run.ID, "ticker", ticker, "position", i+1, "of", len(tickers))

		p, err := a.analyzeTicker(ctx, run.ID, ticker)
		if err != nil {
			slog.Error("error analyzing ticker", "run_id", run.ID, "ticker", ticker, "error", err)
			results = append(results, model.TickerResult{Ticker: ticker, Status: model.TickerStatusFailed, Error: err.Error()})
			continue
		}

		slog.Info("prediction stored", "run_id", run.ID, "ticker", ticker, "signal", p.Signal, "confidence", p.Confidence, "id", p.ID)
		results = append(results, model.TickerResult{
			Ticker:     ticker,
			Status:     model.TickerStatusSuccess,
			Signal:     p.Signal,
			Confidence: p.Confidence,
		})
	}

	for _, r := range results {
		if r.Status == model.TickerStatusSuccess {
			run.Succeeded++
		} else {
			run.Failed++
		}
	}
	run.FinishedAt = a.now().UTC()

	// Detached from ctx; interrupted runs are recorded too.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := a.runs.SaveRun(saveCtx, &run); err != nil {
		slog.Error("error saving analysis run", "run_id", run.ID, "error", err)
	}

	slog.Info("analysis run finished",
		"run_id", run.ID,
		"succeeded", run.Succeeded,
		"failed", run.Failed,
		"duration", run.FinishedAt.Sub(run.StartedAt).String(),
	)

	if a.notifier != nil {
		if err := a.notifier.Notify(saveCtx, &run, results); err != nil {
			slog.Error("error sending run notification", "run_id", run.ID, "error", err)
		}
	}

	summary := &Summary{Run: run, Results: results}
	if run.Succeeded == 0 {
		span.SetStatus(codes.Error, ErrAllFailed.Error())
		return summary, ErrAllFailed
	}
	return summary, nil
}

func (a *Agent) analyzeTicker(ctx context.Context, runID, ticker string) (*model.Prediction, error) {
	ctx, span := trace.StartSpan(ctx, "analysis.Ticker")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	articles := a.news.Gather(ctx, ticker)

	history, err := a.predictions.History(ctx, ticker, a.historyLimit)
	if err != nil {
		slog.Warn("error loading prediction history, continuing without it", "ticker", ticker, "error", err)
		history = nil
	}

	input := llm.AnalysisInput{
		Ticker:  ticker,
		News:    toNewsItems(articles),
		History: toHistoryEntries(history),
	}

	res, err := a.analyzer.Analyze(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("analyze %s: %w", ticker, err)
	}

	sentiment, _ := news.AverageSentiment(articles)

	p := &model.Prediction{
		Ticker:         ticker,
		Signal:         res.Signal,
		Confidence:     res.Confidence,
		Reasoning:      res.Reasoning,
		KeyFactors:     res.KeyFactors,
		Risks:          res.Risks,
		Timeframe:      res.Timeframe,
		SentimentScore: sentiment,
		ArticleCount:   len(articles),
		ModelUsed:      res.ModelUsed,
		RunID:          runID,
		CreatedAt:      a.now().UTC(),
	}

	if err := a.predictions.Save(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("save prediction for %s: %w", ticker, err)
	}

	return p, nil
}

func toNewsItems(articles []news.Article) []llm.NewsItem {
	items := make([]llm.NewsItem, 0, len(articles))
	for _, a := range articles {
		publisher := a.Publisher
		if publisher == "" {
			publisher = a.Source
		}
		items = append(items, llm.NewsItem{
			Headline:  a.Headline,
			Publisher: publisher,
			Sentiment: a.Sentiment,
		})
	}
	return items
}

func toHistoryEntries(history []model.Prediction) []llm.HistoryEntry {
	entries := make([]llm.HistoryEntry, 0, len(history))
	for _, p := range history {
		entries = append(entries, llm.HistoryEntry{
			CreatedAt:  p.CreatedAt,
			Signal:     p.Signal,
			Confidence: p.Confidence,
			Reasoning:  p.Reasoning,
		})
	}
	return entries
}
