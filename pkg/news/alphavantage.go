package news

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *HTTPClient
}

func NewAlphaVantageClient(apiKey string, httpClient *HTTPClient) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    alphaVantageBaseURL,
		httpClient: httpClient,
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Fetch(ctx context.Context, ticker string, limit int) ([]Article, error) {
	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("tickers", ticker)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "LATEST")
	params.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	// Rate limits and bad keys still answer 200, with a message instead of a feed.
	if raw.Feed == nil {
		msg := firstNonEmpty(raw.Note, raw.Information, raw.ErrorMessage, "response has no feed")
		return nil, fmt.Errorf("alphavantage: %s", msg)
	}

	articles := make([]Article, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		publishedAt, err := time.Parse("20060102T150405", item.TimePublished)
		if err != nil {
			publishedAt = time.Time{}
		}

		symbols := make([]string, 0, len(item.TickerSentiment))
		var tickerScore *float64
		for _, ts := range item.TickerSentiment {
			if ts.Ticker == "" {
				continue
			}
			symbols = append(symbols, ts.Ticker)
			if strings.EqualFold(ts.Ticker, ticker) && ts.Score.valid {
				score := ts.Score.value
				tickerScore = &score
			}
		}

		var overall *float64
		if item.OverallSentimentScore.valid {
			score := item.OverallSentimentScore.value
			overall = &score
		}

		articles = append(articles, Article{
			ExternalID:      generateExternalID(item.URL),
			Headline:        item.Title,
			Detail:          item.Summary,
			URL:             item.URL,
			Publisher:       item.Source,
			PublishedAt:     publishedAt,
			Symbols:         symbols,
			Source:          c.Name(),
			Sentiment:       overall,
			TickerSentiment: tickerScore,
		})
	}

	return articles, nil
}

func generateExternalID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum)[:16]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type avResponse struct {
	Feed         []avFeedItem `json:"feed"`
	Note         string       `json:"Note"`
	Information  string       `json:"Information"`
	ErrorMessage string       `json:"Error Message"`
}

type avFeedItem struct {
	Title                 string              `json:"title"`
	Summary               string              `json:"summary"`
	URL                   string              `json:"url"`
	Source                string              `json:"source"`
	TimePublished         string              `json:"time_published"`
	OverallSentimentScore avScore             `json:"overall_sentiment_score"`
	TickerSentiment       []avTickerSentiment `json:"ticker_sentiment"`
}

type avTickerSentiment struct {
	Ticker string  `json:"ticker"`
	Score  avScore `json:"ticker_sentiment_score"`
}

// avScore accepts both JSON numbers and numeric strings; Alpha Vantage uses
// each in different fields.
type avScore struct {
	value float64
	valid bool
}

func (s *avScore) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	s.value = v
	s.valid = true
	return nil
}
