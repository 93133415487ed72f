package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/openai/openai-go/option"
)

func TestOpenAIAnalyze(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		gotModel, _ = req["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1760000000,
			"model":   DefaultOpenAIModel,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": `{"signal":"HOLD","confidence":60,"reasoning":"Waiting for earnings.","key_factors":[],"risks":["guidance"],"timeframe":"short-term (1-5 days)"}`,
				},
			}},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", "", 5*time.Second, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	res, err := client.Analyze(context.Background(), AnalysisInput{Ticker: "MSFT"})

	assert.Equal(t, nil, err)
	assert.Equal(t, DefaultOpenAIModel, gotModel)
	assert.Equal(t, "HOLD", res.Signal)
	assert.Equal(t, 0.6, res.Confidence)
	assert.Equal(t, []string{"guidance"}, res.Risks)
}
