// Package pipeline answers a free-text question from the web: search, fetch
// and extract each source, summarize, then consolidate into one answer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/sanji/internal/extract"
	"github.com/hyperifyio/sanji/internal/facts"
	"github.com/hyperifyio/sanji/internal/metrics"
	"github.com/hyperifyio/sanji/internal/search"
	"github.com/hyperifyio/sanji/internal/summarize"
)

// User-visible answers for the short-circuit and failure paths.
const (
	MsgNoSources  = "I couldn't find any relevant sources for this topic. Please try rephrasing."
	MsgNoContent  = "No valid content could be extracted from the search results."
	MsgUnexpected = "An unexpected error occurred. Sanji AI's brain just faceplanted. Try again later."
)

// Result is the answer to one query plus every source URL search returned,
// in search order, whether or not it yielded content.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Fetcher retrieves a page body; fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Pipeline holds the collaborators of one ask pipeline. It keeps no state
// between runs and is safe for concurrent use when its collaborators are.
type Pipeline struct {
	Search search.Provider
	// MaxResults caps the source list. Zero means search.DefaultMaxResults.
	MaxResults int
	Fetcher    Fetcher
	// Extractor defaults to extract.ParagraphExtractor.
	Extractor extract.Extractor
	// Summarizer defaults to a TextRank summarizer with default length.
	Summarizer *summarize.Summarizer
	Metrics    *metrics.Metrics
}

// Run answers query. It never fails: every problem maps to one of the fixed
// messages, and panics are recovered, logged and reported as MsgUnexpected.
func (p *Pipeline) Run(ctx context.Context, query string) (res Result) {
	start := time.Now()
	logger := log.Ctx(ctx)
	outcome := metrics.OutcomeFailed
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("query", query).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("info pipeline failed")
			res = unexpected()
			outcome = metrics.OutcomeFailed
		}
		p.Metrics.ObserveRun(outcome, time.Since(start))
	}()

	logger.Info().Str("query", query).Msg("query received")
	res, outcome, err := p.run(ctx, logger, query)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("info pipeline failed")
		return unexpected()
	}
	return res
}

func (p *Pipeline) run(ctx context.Context, logger *zerolog.Logger, query string) (Result, string, error) {
	if p.Fetcher == nil {
		return Result{}, metrics.OutcomeFailed, errors.New("pipeline fetcher not configured")
	}

	urls, err := search.Links(ctx, p.Search, query, p.MaxResults)
	if err != nil {
		p.Metrics.StageFailed(metrics.StageSearch)
		logger.Warn().Err(err).Str("query", query).Msg("search error")
		return Result{Answer: MsgNoSources, Sources: []string{}}, metrics.OutcomeNoSources, nil
	}

	texts := make([]string, 0, len(urls))
	for _, u := range urls {
		text, err := p.extractOne(ctx, u)
		if err != nil {
			logger.Warn().Err(err).Str("url", u).Msg("skipped source without usable text")
			continue
		}
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		return Result{Answer: MsgNoContent, Sources: urls}, metrics.OutcomeNoContent, nil
	}

	summaries := make([]string, 0, len(texts))
	for _, t := range texts {
		summaries = append(summaries, p.summarizeOne(logger, t))
	}

	answer, err := facts.Consolidate(summaries)
	if err != nil {
		p.Metrics.StageFailed(metrics.StageConsolidate)
		logger.Warn().Err(err).Msg("fact consolidation failed; joining summaries")
		answer = facts.Fallback(summaries)
	}
	return Result{Answer: strings.TrimSpace(answer), Sources: urls}, metrics.OutcomeAnswered, nil
}

// extractOne fetches url and returns its paragraph text.
func (p *Pipeline) extractOne(ctx context.Context, url string) (string, error) {
	body, _, err := p.Fetcher.Get(ctx, url)
	if err != nil {
		p.Metrics.StageFailed(metrics.StageFetch)
		return "", fmt.Errorf("fetch: %w", err)
	}
	ex := p.Extractor
	if ex == nil {
		ex = extract.ParagraphExtractor{}
	}
	doc, err := ex.Extract(body)
	if err != nil {
		p.Metrics.StageFailed(metrics.StageExtract)
		return "", fmt.Errorf("extract: %w", err)
	}
	if doc.Text == "" {
		p.Metrics.StageFailed(metrics.StageExtract)
		return "", extract.ErrTooShort
	}
	log.Ctx(ctx).Debug().
		Str("url", url).
		Str("title", doc.Title).
		Int("paragraphs", doc.Paragraphs).
		Int("chars", len(doc.Text)).
		Msg("extracted")
	return doc.Text, nil
}

// summarizeOne never fails: ranking errors and panics yield a prefix of text.
func (p *Pipeline) summarizeOne(logger *zerolog.Logger, text string) string {
	s := p.Summarizer
	if s == nil {
		s = &summarize.Summarizer{}
	}
	out, err := s.Summarize(text)
	if err != nil {
		p.Metrics.StageFailed(metrics.StageSummarize)
		logger.Warn().Err(err).Msg("summarization failed; using text prefix")
	}
	return out
}

func unexpected() Result {
	return Result{Answer: MsgUnexpected, Sources: []string{}}
}
