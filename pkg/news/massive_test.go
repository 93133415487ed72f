package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestMassiveFetch(t *testing.T) {
	payload := map[string]interface{}{
		"results": []map[string]interface{}{
			{
				"id":            "576d99da",
				"title":         "Nvidia Reports Q3 Earnings",
				"description":   "Nvidia beat expectations on data center demand.",
				"article_url":   "https://example.com/nvda-q3",
				"published_utc": "2026-10-16T11:02:00Z",
				"tickers":       []string{"NVDA"},
				"publisher": map[string]interface{}{
					"name": "GlobeNewswire Inc.",
				},
			},
		},
		"status": "OK",
	}

	var gotTicker string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTicker = r.URL.Query().Get("ticker")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := NewMassiveClient("test-key", newTestHTTPClient())
	client.baseURL = srv.URL

	articles, err := client.Fetch(context.Background(), "NVDA", 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, "NVDA", gotTicker)
	assert.Equal(t, 1, len(articles))

	a := articles[0]
	assert.Equal(t, "576d99da", a.ExternalID)
	assert.Equal(t, "Nvidia Reports Q3 Earnings", a.Headline)
	assert.Equal(t, "https://example.com/nvda-q3", a.URL)
	assert.Equal(t, "GlobeNewswire Inc.", a.Publisher)
	assert.Equal(t, "Massive", a.Source)
	assert.Equal(t, []string{"NVDA"}, a.Symbols)
	assert.Equal(t, true, a.Sentiment == nil)
	assert.Equal(t, 2026, a.PublishedAt.Year())
	assert.Equal(t, time.October, a.PublishedAt.Month())
}

func TestMassiveFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewMassiveClient("bad-key", newTestHTTPClient())
	client.baseURL = srv.URL

	_, err := client.Fetch(context.Background(), "NVDA", 10)
	assert.NotEqual(t, nil, err)
}
