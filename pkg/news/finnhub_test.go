package news

import (
	"testing"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/go-playground/assert/v2"
)

func TestFinnhubArticles(t *testing.T) {
	res := []finnhub.CompanyNews{
		{
			Id:       finnhub.PtrInt64(7),
			Headline: finnhub.PtrString("Microsoft expands Azure AI capacity"),
			Summary:  finnhub.PtrString("New regions come online."),
			Url:      finnhub.PtrString("https://example.com/msft"),
			Datetime: finnhub.PtrInt64(1792238400),
			Source:   finnhub.PtrString("CNBC"),
			Related:  finnhub.PtrString("MSFT,NVDA"),
		},
		{
			Headline: finnhub.PtrString("Bare item"),
		},
	}

	articles := finnhubArticles(res, "FinnHub")

	assert.Equal(t, 2, len(articles))
	a := articles[0]
	assert.Equal(t, "7", a.ExternalID)
	assert.Equal(t, "Microsoft expands Azure AI capacity", a.Headline)
	assert.Equal(t, "CNBC", a.Publisher)
	assert.Equal(t, []string{"MSFT", "NVDA"}, a.Symbols)
	assert.Equal(t, time.Unix(1792238400, 0).UTC(), a.PublishedAt)
	assert.Equal(t, "FinnHub", a.Source)

	assert.Equal(t, []string{}, articles[1].Symbols)
	assert.Equal(t, true, articles[1].PublishedAt.IsZero())
}
