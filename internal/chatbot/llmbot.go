package chatbot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/sanji/internal/llm"
)

// LLMBot answers through a chat model. When the model call fails and
// Fallback is set, Fallback answers instead.
type LLMBot struct {
	Name     string
	Model    string
	Client   llm.Client
	Fallback Responder
}

func (b *LLMBot) systemPrompt() string {
	name := b.Name
	if name == "" {
		name = DefaultName
	}
	return fmt.Sprintf("You are %s, the friendly chat companion inside Sanji AI. Reply in one to three short sentences. Plain text only.", name)
}

// Respond implements Responder.
func (b *LLMBot) Respond(ctx context.Context, text string) (string, error) {
	out, err := llm.Complete(ctx, b.Client, b.Model, b.systemPrompt(), text)
	if err == nil {
		return out, nil
	}
	if b.Fallback == nil {
		return "", fmt.Errorf("llm reply: %w", err)
	}
	log.Ctx(ctx).Warn().Err(err).Msg("llm reply failed; using corpus bot")
	return b.Fallback.Respond(ctx, text)
}
