package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-playground/assert/v2"

	"github.com/maryamMilad/ai-trading-agent/internal/model"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

var testRun = &model.AnalysisRun{
	ID:          "7f9c",
	StartedAt:   time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC),
	TickerCount: 2,
	Succeeded:   1,
	Failed:      1,
}

var testResults = []model.TickerResult{
	{Ticker: "AAPL", Status: model.TickerStatusSuccess, Signal: "BUY", Confidence: 0.75},
	{Ticker: "TSLA", Status: model.TickerStatusFailed, Error: "model timeout"},
}

func TestFormatSummary(t *testing.T) {
	got := FormatSummary(testRun, testResults)

	want := "Daily analysis 2026-10-19\n" +
		"1/2 tickers analyzed\n" +
		"\n" +
		"AAPL: BUY (75%)\n" +
		"TSLA: failed (model timeout)\n" +
		"\n" +
		"run 7f9c"
	assert.Equal(t, want, got)
}

func TestNotify_SendsToChat(t *testing.T) {
	fake := &fakeSender{}
	n := NewTelegramNotifier("token", 42)
	n.bot = fake

	err := n.Notify(context.Background(), testRun, testResults)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(fake.sent))
	assert.Equal(t, int64(42), fake.sent[0].ChatID)
	assert.Equal(t, FormatSummary(testRun, testResults), fake.sent[0].Text)
}

func TestNotify_SendError(t *testing.T) {
	n := NewTelegramNotifier("token", 42)
	n.bot = &fakeSender{err: errors.New("chat not found")}

	err := n.Notify(context.Background(), testRun, testResults)
	assert.NotEqual(t, nil, err)
}
