package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearxNG_Search_ParsesResults(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Doc", "url": "https://example.com", "content": "snippet"},
				{"title": "Bad", "url": "", "content": "no url"},
			},
		})
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := s.Search(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if gotQuery != "query" {
		t.Fatalf("expected q=query, got %q", gotQuery)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 raw results, got %d", len(got))
	}
	if got[0].URL != "https://example.com" || got[0].Source != "searxng" {
		t.Fatalf("unexpected first result: %+v", got[0])
	}
}

func TestSearxNG_Search_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client()}
	if _, err := s.Search(context.Background(), "query", 3); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestSearxNG_Search_MissingBaseURL(t *testing.T) {
	s := &SearxNG{}
	if _, err := s.Search(context.Background(), "query", 3); err == nil {
		t.Fatalf("expected error for missing base url")
	}
}

func TestSearxNG_Search_EngineFailuresAreNoLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" || r.URL.Query().Get("apikey") != "k" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"results":[],"unresponsive_engines":[["google","CAPTCHA"],["bing","timeout"]]}`))
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL + "/", APIKey: "k", HTTPClient: srv.Client()}
	_, err := s.Search(context.Background(), "query", 3)
	if !errors.Is(err, ErrNoLinks) {
		t.Fatalf("expected ErrNoLinks, got %v", err)
	}
	if !strings.Contains(err.Error(), "google CAPTCHA, bing timeout") {
		t.Fatalf("expected failing engines in error, got %v", err)
	}
}

func TestSearxNG_Search_CapsAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"url":"https://a.test"},{"url":"https://b.test"},{"url":"https://c.test"}]}`))
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := s.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 2 || got[1].URL != "https://b.test" {
		t.Fatalf("unexpected results: %+v", got)
	}
}
