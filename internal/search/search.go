package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxResults is the number of source URLs kept per query when callers
// pass a non-positive count.
const DefaultMaxResults = 3

// ErrNoLinks is returned by Links when no usable link survives filtering.
var ErrNoLinks = errors.New("no links found")

// Result represents a single search hit from any provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"-"` // provider name for observability
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// Links runs the query against p and returns up to n absolute http(s) URLs in
// provider ranking order. Results without a URL, links that do not start with
// "http" and exact duplicates are dropped.
func Links(ctx context.Context, p Provider, query string, n int) ([]string, error) {
	if p == nil {
		return nil, errors.New("search provider not configured")
	}
	if n <= 0 {
		n = DefaultMaxResults
	}
	results, err := p.Search(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", p.Name(), err)
	}
	seen := make(map[string]struct{}, len(results))
	links := make([]string, 0, n)
	for _, r := range results {
		link := strings.TrimSpace(r.URL)
		if link == "" || !strings.HasPrefix(link, "http") {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
		if len(links) >= n {
			break
		}
	}
	if len(links) == 0 {
		return nil, ErrNoLinks
	}
	return links, nil
}
