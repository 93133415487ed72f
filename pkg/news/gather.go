package news

import (
	"context"
	"log/slog"
	"sort"
)

// Gatherer fans a ticker out to every configured source and merges the
// results into one newest-first list.
type Gatherer struct {
	clients    []NewsClient
	fetchLimit int
	topN       int
}

func NewGatherer(clients []NewsClient, fetchLimit, topN int) *Gatherer {
	return &Gatherer{clients: clients, fetchLimit: fetchLimit, topN: topN}
}

func (g *Gatherer) Sources() []string {
	names := make([]string, len(g.clients))
	for i, c := range g.clients {
		names[i] = c.Name()
	}
	return names
}

// Gather never fails: a source that errors is logged and skipped, and a
// ticker with no news yields an empty slice.
func (g *Gatherer) Gather(ctx context.Context, ticker string) []Article {
	seen := make(map[string]bool)
	var merged []Article

	for _, client := range g.clients {
		source := client.Name()

		articles, err := client.Fetch(ctx, ticker, g.fetchLimit)
		if err != nil {
			slog.Warn("error fetching news", "source", source, "ticker", ticker, "error", err)
			continue
		}

		var added int
		for _, a := range articles {
			key := a.URL
			if key == "" {
				key = source + ":" + a.ExternalID + ":" + a.Headline
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, a)
			added++
		}

		slog.Info("news fetched", "source", source, "ticker", ticker, "fetched", len(articles), "added", added)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	if g.topN > 0 && len(merged) > g.topN {
		merged = merged[:g.topN]
	}
	return merged
}

// AverageSentiment is the mean of the scored articles, preferring the
// per-ticker score over the overall one. ok is false when nothing is scored.
func AverageSentiment(articles []Article) (avg float64, ok bool) {
	var sum float64
	var n int
	for _, a := range articles {
		score := a.TickerSentiment
		if score == nil {
			score = a.Sentiment
		}
		if score == nil {
			continue
		}
		sum += *score
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
