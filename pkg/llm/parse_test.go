package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestParsePrediction(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantSignal string
		wantConf   float64
		wantErr    bool
	}{
		{
			name:       "valid answer",
			content:    `{"signal":"SELL","confidence":0.7,"reasoning":"Deliveries fell.","key_factors":["deliveries"],"risks":["short squeeze"],"timeframe":"short-term (1-5 days)"}`,
			wantSignal: "SELL",
			wantConf:   0.7,
		},
		{
			name:       "lower-case signal is normalised",
			content:    `{"signal":" hold ","confidence":0.5,"reasoning":"Flat."}`,
			wantSignal: "HOLD",
			wantConf:   0.5,
		},
		{
			name:       "percentage confidence is scaled",
			content:    `{"signal":"BUY","confidence":75,"reasoning":"Strong."}`,
			wantSignal: "BUY",
			wantConf:   0.75,
		},
		{
			name:       "numeric string confidence",
			content:    `{"signal":"BUY","confidence":"0.8","reasoning":"Strong demand."}`,
			wantSignal: "BUY",
			wantConf:   0.8,
		},
		{name: "missing confidence", content: `{"signal":"BUY","reasoning":"Strong demand."}`, wantErr: true},
		{name: "null confidence", content: `{"signal":"BUY","confidence":null,"reasoning":"x"}`, wantErr: true},
		{name: "non-numeric confidence", content: `{"signal":"BUY","confidence":"high","reasoning":"x"}`, wantErr: true},
		{name: "unknown signal", content: `{"signal":"STRONG BUY","confidence":0.9,"reasoning":"x"}`, wantErr: true},
		{name: "negative confidence", content: `{"signal":"BUY","confidence":-0.1,"reasoning":"x"}`, wantErr: true},
		{name: "confidence above 100", content: `{"signal":"BUY","confidence":150,"reasoning":"x"}`, wantErr: true},
		{name: "missing reasoning", content: `{"signal":"BUY","confidence":0.9}`, wantErr: true},
		{name: "not JSON", content: `I cannot help with that.`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePrediction(tt.content, "test-model")
			if tt.wantErr {
				assert.NotEqual(t, nil, err)
				return
			}
			assert.Equal(t, nil, err)
			assert.Equal(t, tt.wantSignal, got.Signal)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.Equal(t, "test-model", got.ModelUsed)
			assert.Equal(t, promptVersion, got.PromptVersion)
		})
	}
}

func TestParsePrediction_NilListsBecomeEmpty(t *testing.T) {
	got, err := parsePrediction(`{"signal":"BUY","confidence":0.9,"reasoning":"x"}`, "m")
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{}, got.KeyFactors)
	assert.Equal(t, []string{}, got.Risks)
}

func TestBuildPrompt_Empty(t *testing.T) {
	prompt := BuildPrompt(AnalysisInput{Ticker: "GOOGL"})

	assert.Equal(t, true, strings.HasPrefix(prompt, "Analyze GOOGL for a trading decision."))
	assert.Equal(t, true, strings.Contains(prompt, "No recent news available"))
	assert.Equal(t, true, strings.Contains(prompt, "No historical predictions yet"))
	assert.Equal(t, true, strings.Contains(prompt, `"signal": "BUY" or "SELL" or "HOLD"`))
}

func TestBuildPrompt_NewsAndHistory(t *testing.T) {
	sentiment := 0.123
	prompt := BuildPrompt(AnalysisInput{
		Ticker: "AAPL",
		News: []NewsItem{
			{Headline: "Apple beats estimates", Publisher: "Reuters", Sentiment: &sentiment},
			{Headline: "Apple event recap", Publisher: "Finviz"},
		},
		History: []HistoryEntry{
			{
				CreatedAt:  time.Date(2026, 10, 18, 13, 30, 0, 0, time.UTC),
				Signal:     "BUY",
				Confidence: 0.75,
				Reasoning:  strings.Repeat("a", 100),
			},
		},
	})

	assert.Equal(t, true, strings.Contains(prompt, "- Apple beats estimates (sentiment: 0.12, source: Reuters)"))
	assert.Equal(t, true, strings.Contains(prompt, "- Apple event recap (sentiment: 0.00, source: Finviz)"))
	assert.Equal(t, true, strings.Contains(prompt, "- 2026-10-18: BUY (confidence: 0.75) - "+strings.Repeat("a", 80)+"..."))
	assert.Equal(t, false, strings.Contains(prompt, strings.Repeat("a", 81)))
}
