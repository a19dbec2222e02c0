package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SearxNG queries the JSON API of a SearxNG metasearch instance.
type SearxNG struct {
	// BaseURL is the instance root; "/search" is appended when missing.
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string
}

func (s *SearxNG) Name() string { return "searxng" }

// Search returns at most limit results in the instance's ranking order. An
// empty page caused by failing upstream engines is reported as ErrNoLinks
// naming those engines, so it is not mistaken for an instance outage.
func (s *SearxNG) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	endpoint, err := s.endpoint(query)
	if err != nil {
		return nil, err
	}
	body, err := get(ctx, s.HTTPClient, s.UserAgent, s.Name(), endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var page searxPage
	if err := json.NewDecoder(body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode searxng response: %w", err)
	}
	if len(page.Results) == 0 && len(page.Unresponsive) > 0 {
		return nil, fmt.Errorf("%w: searxng engines failed: %s", ErrNoLinks, page.unresponsive())
	}

	n := min(limit, len(page.Results))
	out := make([]Result, n)
	for i, hit := range page.Results[:n] {
		out[i] = Result{
			Title:   strings.TrimSpace(hit.Title),
			URL:     strings.TrimSpace(hit.URL),
			Snippet: strings.TrimSpace(hit.Content),
			Source:  s.Name(),
		}
	}
	return out, nil
}

func (s *SearxNG) endpoint(query string) (string, error) {
	if s.BaseURL == "" {
		return "", fmt.Errorf("missing searxng base url")
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", fmt.Errorf("searxng base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = strings.TrimRight(u.Path, "/") + "/search"
	}
	v := url.Values{
		"q":          {query},
		"format":     {"json"},
		"categories": {"general"},
		"pageno":     {"1"},
	}
	if s.APIKey != "" {
		v.Set("apikey", s.APIKey)
	}
	u.RawQuery = v.Encode()
	return u.String(), nil
}

type searxPage struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
	// Unresponsive lists [engine, reason] pairs.
	Unresponsive [][]string `json:"unresponsive_engines"`
}

func (p searxPage) unresponsive() string {
	parts := make([]string, 0, len(p.Unresponsive))
	for _, e := range p.Unresponsive {
		parts = append(parts, strings.Join(e, " "))
	}
	return strings.Join(parts, ", ")
}
