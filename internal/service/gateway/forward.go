package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/locale"
	"log/slog"
)

// ForwardResult carries the downstream gateway's response verbatim so the
// proxy endpoint can echo status and body without reinterpretation.
type ForwardResult struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Forward posts an already-validated /send body to the gateway's matching
// endpoint. Any HTTP response, 2xx or not, comes back as a ForwardResult;
// only transport failures return an error.
func (c *Client) Forward(ctx context.Context, kind string, body []byte) (*ForwardResult, error) {
	url := fmt.Sprintf("%s/send/%s", c.baseUrl, kind)

	c.log.Info(locale.Format(locale.KeyLogProxyingRequest, "Log message missing",
		map[string]string{"message_type": kind, "endpoint": url}))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.With(
			slog.String("kind", kind),
			sl.Err(err),
		).Error("forward to gateway")
		return nil, fmt.Errorf("forward %s: %w", kind, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read forward response: %w", err)
	}

	return &ForwardResult{
		StatusCode:  resp.StatusCode,
		Body:        raw,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
