package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/maryamMilad/ai-trading-agent/internal/model"
)

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

type predictionPayload struct {
	Signal     string          `json:"signal"`
	Confidence json.RawMessage `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
	KeyFactors []string        `json:"key_factors"`
	Risks      []string        `json:"risks"`
	Timeframe  string          `json:"timeframe"`
}

// parsePrediction decodes and validates the model's JSON answer. Confidence
// given as a percentage (e.g. 75) is scaled into [0, 1].
func parsePrediction(content, modelName string) (*AnalysisResult, error) {
	content = cleanJSONResponse(content)

	var parsed predictionPayload
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	signal := strings.ToUpper(strings.TrimSpace(parsed.Signal))
	if !model.ValidSignal(signal) {
		return nil, fmt.Errorf("invalid signal %q", parsed.Signal)
	}

	raw, err := parseConfidence(parsed.Confidence)
	if err != nil {
		return nil, err
	}

	confidence := raw
	if confidence > 1 && confidence <= 100 {
		confidence /= 100
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence %v out of range", raw)
	}

	if strings.TrimSpace(parsed.Reasoning) == "" {
		return nil, fmt.Errorf("response has no reasoning")
	}

	if parsed.KeyFactors == nil {
		parsed.KeyFactors = []string{}
	}
	if parsed.Risks == nil {
		parsed.Risks = []string{}
	}

	return &AnalysisResult{
		Signal:        signal,
		Confidence:    confidence,
		Reasoning:     parsed.Reasoning,
		KeyFactors:    parsed.KeyFactors,
		Risks:         parsed.Risks,
		Timeframe:     parsed.Timeframe,
		PromptVersion: promptVersion,
		ModelUsed:     modelName,
	}, nil
}

// parseConfidence accepts a JSON number or a numeric string. A missing or
// null value is an error.
func parseConfidence(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("response has no confidence")
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid confidence %s", raw)
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid confidence %q: %w", s, err)
	}
	return n, nil
}
