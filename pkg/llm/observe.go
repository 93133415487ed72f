package llm

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/maryamMilad/ai-trading-agent/internal/trace"
)

type observedAnalyzer struct {
	next Analyzer
}

var _ Analyzer = (*observedAnalyzer)(nil)

// Observe wraps an analyzer with request logging and an llm.Analyze span.
func Observe(next Analyzer) Analyzer {
	return &observedAnalyzer{next: next}
}

func (o *observedAnalyzer) Name() string {
	return o.next.Name()
}

func (o *observedAnalyzer) Analyze(ctx context.Context, input AnalysisInput) (*AnalysisResult, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Analyze")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticker", input.Ticker),
		attribute.String("model", o.next.Name()),
		attribute.Int("news_count", len(input.News)),
		attribute.Int("history_count", len(input.History)),
	)

	start := time.Now()
	res, err := o.next.Analyze(ctx, input)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("llm analysis failed", append([]any{"ticker", input.Ticker, "model", o.next.Name(), "elapsed", elapsed, "error", err}, trace.TraceFields(ctx)...)...)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("signal", res.Signal),
		attribute.Float64("confidence", res.Confidence),
		attribute.String("prompt_version", res.PromptVersion),
	)
	slog.Info("llm analysis received", append([]any{"ticker", input.Ticker, "model", o.next.Name(), "signal", res.Signal, "confidence", res.Confidence, "model_used", res.ModelUsed, "prompt_version", res.PromptVersion, "elapsed", elapsed}, trace.TraceFields(ctx)...)...)

	return res, nil
}
