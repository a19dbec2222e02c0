// Package summarize reduces a document to a few of its own sentences.
package summarize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

const (
	// DefaultSentences is the summary length used when Summarizer.Sentences is zero.
	DefaultSentences = 4
	// MinWords is the word count below which a document is returned unchanged.
	MinWords = 50
	// FallbackChars is the prefix length used when ranking fails.
	FallbackChars = 300
	// MaxInputBytes bounds the text handed to the sentence splitter.
	MaxInputBytes = 256 << 10
	// MaxRankedSentences bounds the sentences ranked; later ones are never picked.
	MaxRankedSentences = 400
)

// ErrEmptySummary is returned when ranking yields no sentences.
var ErrEmptySummary = errors.New("summary returned empty")

// Ranker scores sentences; higher is more representative.
type Ranker interface {
	Rank(sentences []string) ([]float64, error)
}

// Summarizer produces extractive summaries.
type Summarizer struct {
	// Ranker defaults to TextRank.
	Ranker Ranker
	// Sentences is the maximum summary length. Zero means DefaultSentences.
	Sentences int
}

// Summarize returns an extractive summary of text. Short documents come back
// unchanged. When ranking fails or panics the returned text is Fallback(text)
// and err reports why, so the result is always usable.
func (s *Summarizer) Summarize(text string) (string, error) {
	if IsShort(text) {
		return text, nil
	}
	out, err := s.Extract(text)
	if err != nil {
		return Fallback(text), err
	}
	return out, nil
}

// IsShort reports whether text has fewer than MinWords whitespace-separated
// words and should be used as its own summary.
func IsShort(text string) bool {
	return len(strings.Fields(text)) < MinWords
}

// Extract ranks the sentences of text and returns the top ones in document
// order joined with spaces. Only the first MaxInputBytes of text and the first
// MaxRankedSentences sentences take part.
func (s *Summarizer) Extract(text string) (string, error) {
	n := s.Sentences
	if n <= 0 {
		n = DefaultSentences
	}
	ranker := s.Ranker
	if ranker == nil {
		ranker = TextRank{}
	}
	clipped := truncate(text, MaxInputBytes)
	sents, err := SplitSentences(clipped)
	if err != nil {
		return "", err
	}
	if len(clipped) < len(text) && len(sents) > 1 {
		// The cut most likely split the last sentence.
		sents = sents[:len(sents)-1]
	}
	if len(sents) > MaxRankedSentences {
		sents = sents[:MaxRankedSentences]
	}
	if len(sents) == 0 {
		return "", ErrEmptySummary
	}
	scores, err := rank(ranker, sents)
	if err != nil {
		return "", fmt.Errorf("rank sentences: %w", err)
	}
	if len(scores) != len(sents) {
		return "", fmt.Errorf("ranker returned %d scores for %d sentences", len(scores), len(sents))
	}

	order := make([]int, len(sents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	if len(order) > n {
		order = order[:n]
	}
	sort.Ints(order)

	picked := make([]string, 0, len(order))
	for _, i := range order {
		picked = append(picked, sents[i])
	}
	out := strings.Join(picked, " ")
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptySummary
	}
	return out, nil
}

func rank(r Ranker, sents []string) (scores []float64, err error) {
	defer func() {
		if v := recover(); v != nil {
			scores, err = nil, fmt.Errorf("ranker panic: %v", v)
		}
	}()
	return r.Rank(sents)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Fallback returns the first FallbackChars characters of text followed by "...".
func Fallback(text string) string {
	r := []rune(text)
	if len(r) > FallbackChars {
		r = r[:FallbackChars]
	}
	return string(r) + "..."
}

var (
	tokenizerOnce sync.Once
	tokenizerMu   sync.Mutex
	tokenizer     *sentences.DefaultSentenceTokenizer
	tokenizerErr  error
)

// SplitSentences splits English text into trimmed, non-empty sentences using
// the Punkt model bundled with neurosnap/sentences.
func SplitSentences(text string) ([]string, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = english.NewSentenceTokenizer(nil)
	})
	if tokenizerErr != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", tokenizerErr)
	}
	tokenizerMu.Lock()
	tokens := tokenizer.Tokenize(text)
	tokenizerMu.Unlock()

	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if s := strings.TrimSpace(t.Text); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
