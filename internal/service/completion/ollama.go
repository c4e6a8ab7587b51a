package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ZapRelay/internal/config"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/locale"
)

// OllamaClient speaks the native generate API: a single POST with
// {model, prompt, stream:false} answered by {response: string}.
// Streaming is never requested.
type OllamaClient struct {
	url    string
	model  string
	client *http.Client
	log    *slog.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func NewOllamaClient(conf *config.Config, logger *slog.Logger) *OllamaClient {
	return &OllamaClient{
		url:    conf.Completion.URL,
		model:  conf.Completion.Model,
		client: &http.Client{Timeout: 120 * time.Second},
		log:    logger.With(sl.Module("completion.ollama")),
	}
}

func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("sending prompt", slog.String("model", c.model))
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.With(sl.Err(err)).Error("generate request failed")
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("completion endpoint responded with %d", resp.StatusCode)
		c.log.With(sl.Err(err)).Error("non-2xx from completion endpoint")
		return "", err
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		c.log.With(sl.Err(err)).Error("decode completion response")
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	if generated.Response == "" {
		c.log.Warn("completion response missing 'response' field")
		return locale.Get(locale.KeyErrorCompletionNoReply,
			"The model did not return a response."), nil
	}

	return strings.TrimSpace(generated.Response), nil
}
