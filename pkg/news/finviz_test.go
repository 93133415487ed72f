package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

const finvizPage = `<html><body>
<table id="news-table">
<tr>
	<td width="130" align="right">Oct-17-26 09:30AM</td>
	<td align="left"><div class="news-link-container">
		<div class="news-link-left"><a class="tab-link-news" href="https://example.com/a">Apple unveils new chips</a></div>
		<div class="news-link-right"><span>(Reuters)</span></div>
	</div></td>
</tr>
<tr>
	<td width="130" align="right">08:15AM</td>
	<td align="left"><div class="news-link-container">
		<div class="news-link-left"><a class="tab-link-news" href="/news/b">Analysts lift Apple targets</a></div>
		<div class="news-link-right"><span>(Barron's)</span></div>
	</div></td>
</tr>
<tr><td colspan="2">advert</td></tr>
</table>
</body></html>`

func TestFinvizFetch(t *testing.T) {
	var gotTicker string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTicker = r.URL.Query().Get("t")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(finvizPage))
	}))
	defer srv.Close()

	client := NewFinvizClient(5 * time.Second)
	client.baseURL = srv.URL + "/quote.ashx"
	client.location = time.UTC

	articles, err := client.Fetch(context.Background(), "AAPL", 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, "AAPL", gotTicker)
	assert.Equal(t, 2, len(articles))

	assert.Equal(t, "Apple unveils new chips", articles[0].Headline)
	assert.Equal(t, "Reuters", articles[0].Publisher)
	assert.Equal(t, "Finviz", articles[0].Source)
	assert.Equal(t, []string{"AAPL"}, articles[0].Symbols)
	assert.Equal(t, time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC), articles[0].PublishedAt)

	assert.Equal(t, srv.URL+"/news/b", articles[1].URL)
	assert.Equal(t, "Barron's", articles[1].Publisher)
	assert.Equal(t, time.Date(2026, 10, 17, 8, 15, 0, 0, time.UTC), articles[1].PublishedAt)
}

func TestFinvizFetch_Limit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(finvizPage))
	}))
	defer srv.Close()

	client := NewFinvizClient(5 * time.Second)
	client.baseURL = srv.URL

	articles, err := client.Fetch(context.Background(), "AAPL", 1)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
}

func TestParseFinvizTimestamp(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	got, date := parseFinvizTimestamp("Today 10:05AM", time.Time{}, now, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 5, 0, 0, time.UTC), got)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), date)

	got, _ = parseFinvizTimestamp("07:45PM", date, now, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 19, 45, 0, 0, time.UTC), got)

	got, date = parseFinvizTimestamp("07:45PM", time.Time{}, now, time.UTC)
	assert.Equal(t, true, got.IsZero())
	assert.Equal(t, true, date.IsZero())
}
