package llm

import (
	"fmt"
	"strings"
)

const promptVersion = "v1"

const maxHistoryReasoningChars = 80

const responseFormat = `Respond in this EXACT JSON format (no extra text):
{
  "signal": "BUY" or "SELL" or "HOLD",
  "confidence": 0.75,
  "reasoning": "Clear 2-3 sentence explanation of why this signal",
  "key_factors": ["factor1", "factor2", "factor3"],
  "risks": ["risk1", "risk2"],
  "timeframe": "short-term (1-5 days)"
}`

func BuildPrompt(input AnalysisInput) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Analyze %s for a trading decision.\n\n", input.Ticker))

	sb.WriteString("RECENT NEWS (Last 24-48 hours):\n")
	sb.WriteString(formatNews(input.News))
	sb.WriteString("\n\n")

	sb.WriteString("PREVIOUS PREDICTIONS:\n")
	sb.WriteString(formatHistory(input.History))
	sb.WriteString("\n\n")

	sb.WriteString(`Based on this information, provide a trading recommendation.

Consider:
1. News sentiment and credibility
2. Historical patterns (if available)
3. Potential risks and opportunities
4. Market context

`)
	sb.WriteString(responseFormat)

	return sb.String()
}

func formatNews(items []NewsItem) string {
	if len(items) == 0 {
		return "No recent news available"
	}

	lines := make([]string, 0, len(items))
	for _, n := range items {
		var sentiment float64
		if n.Sentiment != nil {
			sentiment = *n.Sentiment
		}
		lines = append(lines, fmt.Sprintf("- %s (sentiment: %.2f, source: %s)", n.Headline, sentiment, n.Publisher))
	}
	return strings.Join(lines, "\n")
}

func formatHistory(entries []HistoryEntry) string {
	if len(entries) == 0 {
		return "No historical predictions yet"
	}

	lines := make([]string, 0, len(entries))
	for _, h := range entries {
		lines = append(lines, fmt.Sprintf("- %s: %s (confidence: %.2f) - %s...",
			h.CreatedAt.Format("2006-01-02"), h.Signal, h.Confidence, truncate(h.Reasoning, maxHistoryReasoningChars)))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
