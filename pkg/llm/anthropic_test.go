package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/go-playground/assert/v2"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON unchanged",
			input: `{"signal":"BUY"}`,
			want:  `{"signal":"BUY"}`,
		},
		{
			name:  "strips json fenced block",
			input: "```json\n{\"signal\":\"BUY\"}\n```",
			want:  `{"signal":"BUY"}`,
		},
		{
			name:  "strips plain fenced block",
			input: "```\n{\"signal\":\"BUY\"}\n```",
			want:  `{"signal":"BUY"}`,
		},
		{
			name:  "cuts surrounding prose",
			input: "Here is my analysis:\n{\"signal\":\"BUY\",\"key_factors\":[\"a\"]}\nGood luck.",
			want:  `{"signal":"BUY","key_factors":["a"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanJSONResponse(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnthropicAnalyze(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)

		answer := "```json\n{\"signal\": \"buy\", \"confidence\": 0.8, \"reasoning\": \"Demand for AI chips keeps rising.\", \"key_factors\": [\"data center\"], \"risks\": [\"export rules\"], \"timeframe\": \"short-term (1-5 days)\"}\n```"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_01",
			"type":          "message",
			"role":          "assistant",
			"model":         DefaultAnthropicModel,
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": answer}},
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	defer srv.Close()

	client := NewAnthropicClient("test-key", "", 1500, 5*time.Second, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	res, err := client.Analyze(context.Background(), AnalysisInput{Ticker: "NVDA"})

	assert.Equal(t, nil, err)
	assert.Equal(t, "BUY", res.Signal)
	assert.Equal(t, 0.8, res.Confidence)
	assert.Equal(t, []string{"data center"}, res.KeyFactors)
	assert.Equal(t, DefaultAnthropicModel, res.ModelUsed)
	assert.Equal(t, DefaultAnthropicModel, client.Name())

	assert.Equal(t, DefaultAnthropicModel, body["model"])
	assert.Equal(t, float64(1500), body["max_tokens"])
	messages := body["messages"].([]any)
	assert.Equal(t, 1, len(messages))
	raw, _ := json.Marshal(messages[0])
	assert.Equal(t, true, strings.Contains(string(raw), "Analyze NVDA for a trading decision."))
}

func TestAnthropicAnalyze_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient("bad-key", "", 1500, 5*time.Second, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := client.Analyze(context.Background(), AnalysisInput{Ticker: "AAPL"})
	assert.NotEqual(t, nil, err)
}
