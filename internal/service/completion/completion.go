// Package completion turns a text prompt into a model completion over a
// single blocking round trip. Two backends exist: the native generate
// endpoint (ollama) and an OpenAI-compatible chat endpoint (openai).
package completion

import (
	"context"
	"log/slog"

	"ZapRelay/internal/config"
)

// Client is the completion contract consumed by the event router.
// A ("", nil) return means the backend answered but produced no text;
// a non-nil error means the round trip itself failed. Callers fold both
// into a fallback reply.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New selects the backend named by conf.Completion.Provider. Unknown
// provider names fall back to the native ollama client.
func New(conf *config.Config, logger *slog.Logger) Client {
	if conf.Completion.Provider == "openai" {
		return NewOpenAIClient(conf, logger)
	}
	return NewOllamaClient(conf, logger)
}
