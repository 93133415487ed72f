package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	finvizBaseURL   = "https://finviz.com/quote.ashx"
	finvizUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	finvizDateTime  = "Jan-02-06 03:04PM"
	finvizTime      = "03:04PM"
)

// FinvizClient scrapes the news table of a Finviz quote page. It needs no
// API key and scores nothing, so it is a fallback source.
type FinvizClient struct {
	baseURL  string
	timeout  time.Duration
	location *time.Location
	now      func() time.Time
}

func NewFinvizClient(timeout time.Duration) *FinvizClient {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &FinvizClient{
		baseURL:  finvizBaseURL,
		timeout:  timeout,
		location: loc,
		now:      time.Now,
	}
}

func (c *FinvizClient) Name() string {
	return "Finviz"
}

func (c *FinvizClient) Fetch(ctx context.Context, ticker string, limit int) ([]Article, error) {
	// a fresh collector per call: colly refuses to revisit a URL it has seen
	collector := colly.NewCollector(
		colly.UserAgent(finvizUserAgent),
		colly.StdlibContext(ctx),
	)
	collector.SetRequestTimeout(c.timeout)

	var (
		articles []Article
		lastDate time.Time
		fetchErr error
	)
	now := c.now().In(c.location)

	collector.OnHTML("table#news-table tr", func(e *colly.HTMLElement) {
		if limit > 0 && len(articles) >= limit {
			return
		}

		article, date, ok := parseFinvizRow(e.DOM, lastDate, now, c.location)
		if !ok {
			return
		}
		lastDate = date
		article.URL = e.Request.AbsoluteURL(article.URL)
		article.ExternalID = generateExternalID(article.URL)
		article.Symbols = []string{ticker}
		article.Source = c.Name()
		articles = append(articles, article)
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("finviz status %d: %w", r.StatusCode, err)
	})

	if err := collector.Visit(c.baseURL + "?t=" + url.QueryEscape(ticker)); err != nil {
		return nil, fmt.Errorf("finviz fetch: %w", err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	return articles, nil
}

// parseFinvizRow reads one news row. Finviz prints the date only on the first
// row of each day, so the date of the previous row is carried forward.
func parseFinvizRow(row *goquery.Selection, lastDate, now time.Time, loc *time.Location) (Article, time.Time, bool) {
	link := row.Find("a.tab-link-news").First()
	headline := strings.TrimSpace(link.Text())
	href, _ := link.Attr("href")
	if headline == "" || href == "" {
		return Article{}, lastDate, false
	}

	stamp := strings.TrimSpace(row.Find("td").First().Text())
	publishedAt, date := parseFinvizTimestamp(stamp, lastDate, now, loc)

	publisher := strings.TrimSpace(row.Find("div.news-link-right span").First().Text())
	publisher = strings.Trim(publisher, "() ")

	return Article{
		Headline:    headline,
		URL:         href,
		Publisher:   publisher,
		PublishedAt: publishedAt,
	}, date, true
}

func parseFinvizTimestamp(stamp string, lastDate, now time.Time, loc *time.Location) (time.Time, time.Time) {
	fields := strings.Fields(stamp)

	switch len(fields) {
	case 2:
		clock, err := time.ParseInLocation(finvizTime, fields[1], loc)
		if err != nil {
			return time.Time{}, lastDate
		}
		var date time.Time
		if strings.EqualFold(fields[0], "Today") {
			date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		} else {
			full, err := time.ParseInLocation(finvizDateTime, stamp, loc)
			if err != nil {
				return time.Time{}, lastDate
			}
			date = time.Date(full.Year(), full.Month(), full.Day(), 0, 0, 0, 0, loc)
		}
		return combine(date, clock), date

	case 1:
		clock, err := time.ParseInLocation(finvizTime, fields[0], loc)
		if err != nil || lastDate.IsZero() {
			return time.Time{}, lastDate
		}
		return combine(lastDate, clock), lastDate
	}

	return time.Time{}, lastDate
}

func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location()).UTC()
}
