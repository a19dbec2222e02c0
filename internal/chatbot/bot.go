// Package chatbot holds the conversational responders behind /chat: a corpus
// bot trained into SQLite and an optional LLM-backed bot.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultName is the bot name used when none is configured.
	DefaultName = "ASH-1"
	// DefaultThreshold is the minimum similarity for a stored prompt to match.
	DefaultThreshold = 0.5
	// DefaultResponse is returned when nothing in the store is close enough.
	DefaultResponse = "I am sorry, but I do not understand."
)

// ErrNotTrained is returned by Respond before Train has completed.
var ErrNotTrained = errors.New("chatbot not trained")

// Responder produces a reply to one chat message.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Bot answers with the stored response to the closest known prompt.
type Bot struct {
	Name  string
	Store *Store
	// Threshold defaults to DefaultThreshold.
	Threshold float64
	// Default defaults to DefaultResponse.
	Default string

	mu      sync.RWMutex
	trained bool
}

// BotName returns the configured name or DefaultName.
func (b *Bot) BotName() string {
	if b.Name == "" {
		return DefaultName
	}
	return b.Name
}

// Train replaces the stored statements with the corpus.
func (b *Bot) Train(ctx context.Context, c Corpus) error {
	if b.Store == nil {
		return errors.New("chatbot store not configured")
	}
	pairs := c.Pairs()
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.Store.Replace(ctx, pairs); err != nil {
		return fmt.Errorf("train %s: %w", b.BotName(), err)
	}
	b.trained = true
	n, err := b.Store.Count(ctx)
	if err != nil {
		return fmt.Errorf("train %s: %w", b.BotName(), err)
	}
	log.Ctx(ctx).Info().Str("bot", b.BotName()).Int("statements", n).Msg("chatbot trained")
	return nil
}

// TrainFile loads a YAML corpus from path and trains on it.
func (b *Bot) TrainFile(ctx context.Context, path string) error {
	c, err := LoadCorpus(path)
	if err != nil {
		return err
	}
	return b.Train(ctx, c)
}

// Respond implements Responder.
func (b *Bot) Respond(ctx context.Context, text string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.trained {
		return "", ErrNotTrained
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return b.fallback(), nil
	}

	prompts, err := b.Store.Prompts(ctx)
	if err != nil {
		return "", err
	}
	best, score := closest(text, prompts)
	threshold := b.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if best == "" || score < threshold {
		log.Ctx(ctx).Debug().Str("input", text).Float64("score", score).Msg("no close prompt")
		return b.fallback(), nil
	}

	responses, err := b.Store.Responses(ctx, best)
	if err != nil {
		return "", err
	}
	if len(responses) == 0 {
		return b.fallback(), nil
	}
	log.Ctx(ctx).Debug().Str("input", text).Str("match", best).Float64("score", score).Msg("prompt matched")
	return responses[0], nil
}

func (b *Bot) fallback() string {
	if b.Default == "" {
		return DefaultResponse
	}
	return b.Default
}

// closest returns the candidate most similar to text, first one on ties.
func closest(text string, candidates []string) (string, float64) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		if s := Similarity(text, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}

// Similarity is 1 minus the Levenshtein distance over the longer length,
// compared case-insensitively. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
