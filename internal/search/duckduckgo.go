package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const duckDuckGoHTMLEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo implements Provider by scraping the keyless HTML results page.
type DuckDuckGo struct {
	// Endpoint overrides the results page URL, mainly for tests.
	Endpoint   string
	HTTPClient *http.Client
	UserAgent  string
	// Region is passed as the kl parameter, e.g. "us-en". Empty means no region.
	Region string
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = duckDuckGoHTMLEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	if d.Region != "" {
		q.Set("kl", d.Region)
	}
	u.RawQuery = q.Encode()

	body, err := get(ctx, d.HTTPClient, d.UserAgent, d.Name(), u.String())
	if err != nil {
		return nil, err
	}
	defer body.Close()
	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo results: %w", err)
	}
	return parseDuckDuckGo(doc, limit, d.Name()), nil
}

// parseDuckDuckGo walks the results page collecting a.result__a anchors and
// the snippet that follows each of them.
func parseDuckDuckGo(doc *html.Node, limit int, source string) []Result {
	out := make([]Result, 0, limit)
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				out = append(out, Result{
					Title:  strings.TrimSpace(textOf(n)),
					URL:    unwrapRedirect(attr(n, "href")),
					Source: source,
				})
				return len(out) >= limit
			case hasClass(n, "result__snippet") && len(out) > 0:
				last := &out[len(out)-1]
				if last.Snippet == "" {
					last.Snippet = strings.TrimSpace(textOf(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return out
}

// unwrapRedirect turns DuckDuckGo's //duckduckgo.com/l/?uddg=<target> links
// into the target URL. Other hrefs are returned trimmed.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if !strings.Contains(href, "/l/?") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return b.String()
}
