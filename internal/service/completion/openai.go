package completion

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"ZapRelay/internal/config"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/locale"
)

// OpenAIClient targets any OpenAI-compatible chat completions endpoint.
// Ollama exposes one at /v1, so this backend covers hosted models and
// local ones behind the same contract.
type OpenAIClient struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func NewOpenAIClient(conf *config.Config, logger *slog.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(conf.Completion.ApiKey)
	if conf.Completion.URL != "" {
		clientConfig.BaseURL = conf.Completion.URL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  conf.Completion.Model,
		log:    logger.With(sl.Module("completion.openai")),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		c.log.With(sl.Err(err)).Error("chat completion failed")
		return "", err
	}

	if len(resp.Choices) == 0 {
		c.log.Warn("chat completion returned no choices")
		return locale.Get(locale.KeyErrorCompletionNoReply,
			"The model did not return a response."), nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
