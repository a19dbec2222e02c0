package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/sanji/internal/chatbot"
	"github.com/hyperifyio/sanji/internal/pipeline"
	"github.com/hyperifyio/sanji/internal/search"
)

func articleHTML() string {
	var b strings.Builder
	b.WriteString("<html><head><title>Tea</title></head><body>")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "<p>Green tea leaves are steamed quickly after picking in batch %d. "+
			"The steaming keeps the tea leaves bright green and fresh in batch %d. "+
			"Black tea leaves oxidize fully before drying in batch %d.</p>", i, i, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// newAskApp returns an App backed by the file provider and a local page server.
func newAskApp(t *testing.T, cfg Config) *App {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML()))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	results := []search.Result{
		{Title: "Missing tea page", URL: srv.URL + "/missing"},
		{Title: "All about tea", URL: srv.URL + "/tea"},
	}
	b, _ := json.Marshal(results)
	path := filepath.Join(dir, "results.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write results: %v", err)
	}
	cfg.SearchProvider = ProviderFile
	cfg.FileSearchPath = path
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestRunAsk_PrintsAnswerAndSources(t *testing.T) {
	a := newAskApp(t, Config{AskQuery: "tea"})
	var out bytes.Buffer
	if err := a.RunAsk(context.Background(), &out); err != nil {
		t.Fatalf("RunAsk: %v", err)
	}
	s := out.String()
	if strings.Contains(s, pipeline.MsgNoContent) || strings.Contains(s, pipeline.MsgUnexpected) {
		t.Fatalf("unexpected answer: %s", s)
	}
	if !strings.Contains(s, "tea") {
		t.Fatalf("answer should mention tea: %s", s)
	}
	if !strings.Contains(s, "Sources:\n1. ") || !strings.Contains(s, "/missing\n2. ") {
		t.Fatalf("sources not numbered in search order: %s", s)
	}
}

func TestRunAsk_WritesExports(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "answer.md")
	pdf := filepath.Join(dir, "answer.pdf")
	a := newAskApp(t, Config{AskQuery: "tea", OutputPath: md, OutputPDFPath: pdf})
	if err := a.RunAsk(context.Background(), &bytes.Buffer{}); err != nil {
		t.Fatalf("RunAsk: %v", err)
	}
	b, err := os.ReadFile(md)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if !strings.HasPrefix(string(b), "# tea\n") || !strings.Contains(string(b), "## Sources") {
		t.Fatalf("markdown layout: %s", b)
	}
	if !strings.Contains(string(b), "Generated by sanji") {
		t.Fatalf("missing footer: %s", b)
	}
	p, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(p, []byte("%PDF")) {
		t.Fatalf("not a pdf")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(context.Background(), Config{SearchProvider: ProviderSearxNG}); err == nil {
		t.Fatalf("expected error for searxng without url")
	}
}

func TestTrainBot_TrainsFromCorpus(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "corpus.yaml")
	if err := os.WriteFile(corpus, []byte("conversations:\n- - Who are you?\n  - I am ASH-1.\n"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	a, err := New(context.Background(), Config{
		BotCorpus:   corpus,
		BotDatabase: filepath.Join(dir, "bot.sqlite3"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if err := a.TrainBot(context.Background()); err != nil {
		t.Fatalf("TrainBot: %v", err)
	}
	r, name := a.Responder()
	if name != "corpus" {
		t.Fatalf("responder name %q", name)
	}
	got, err := r.Respond(context.Background(), "who are you")
	if err != nil || got != "I am ASH-1." {
		t.Fatalf("got %q err=%v", got, err)
	}
	got, _ = r.Respond(context.Background(), "xyzzy plugh frobnicate")
	if got != chatbot.DefaultResponse {
		t.Fatalf("default response: %q", got)
	}
}

func TestTrainBot_MissingCorpus(t *testing.T) {
	dir := t.TempDir()
	a, err := New(context.Background(), Config{
		BotCorpus:   filepath.Join(dir, "none.yaml"),
		BotDatabase: filepath.Join(dir, "bot.sqlite3"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.TrainBot(context.Background()); err == nil {
		t.Fatalf("expected missing corpus error")
	}
}

func TestRenderText(t *testing.T) {
	got := RenderText(pipeline.Result{Answer: "Facts.", Sources: []string{"http://a.test", "http://b.test"}})
	want := "Facts.\n\nSources:\n1. http://a.test\n2. http://b.test\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := RenderText(pipeline.Result{Answer: pipeline.MsgNoSources}); got != pipeline.MsgNoSources+"\n" {
		t.Fatalf("no sources: %q", got)
	}
}

func TestAppendFooter(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := appendFooter("# q\n\nA.\n", "file", 2, now)
	if !strings.HasSuffix(got, "Generated by sanji "+BuildVersion+"; search=file; sources=2; at=2025-01-02T03:04:05Z\n") {
		t.Fatalf("footer: %q", got)
	}
}
