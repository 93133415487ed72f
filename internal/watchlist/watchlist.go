// Package watchlist resolves the ordered set of tickers the daily analysis
// covers.
package watchlist

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultTickers = []string{"AAPL", "MSFT", "GOOGL", "NVDA", "TSLA"}

var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

type file struct {
	Tickers []string `yaml:"tickers"`
}

// Default returns a copy of the built-in watchlist.
func Default() []string {
	out := make([]string, len(defaultTickers))
	copy(out, defaultTickers)
	return out
}

// Resolve picks the watchlist from, in order: an inline comma list, a YAML
// file, the default.
func Resolve(inline, path string) ([]string, error) {
	if strings.TrimSpace(inline) != "" {
		return Normalize(strings.Split(inline, ","))
	}
	if path != "" {
		return Load(path)
	}
	return Default(), nil
}

func Load(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", path, err)
	}

	tickers, err := Normalize(f.Tickers)
	if err != nil {
		return nil, fmt.Errorf("watchlist %s: %w", path, err)
	}
	return tickers, nil
}

// Normalize upper-cases and trims symbols, drops blanks and repeats while
// keeping first-seen order, and rejects anything that is not a ticker.
func Normalize(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	tickers := make([]string, 0, len(raw))

	for _, r := range raw {
		t := NormalizeTicker(r)
		if t == "" || seen[t] {
			continue
		}
		if !ValidTicker(t) {
			return nil, fmt.Errorf("invalid ticker %q", r)
		}
		seen[t] = true
		tickers = append(tickers, t)
	}

	if len(tickers) == 0 {
		return nil, fmt.Errorf("watchlist is empty")
	}
	return tickers, nil
}

func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func ValidTicker(t string) bool {
	return tickerPattern.MatchString(t)
}
