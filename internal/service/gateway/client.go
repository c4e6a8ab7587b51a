// Package gateway is the HTTP client for the WhatsApp bridge exposing
// POST {base}/send/{text|image|video|audio}.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ZapRelay/internal/config"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/locale"
)

type Client struct {
	baseUrl string
	client  *http.Client
	log     *slog.Logger
}

func NewClient(conf *config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseUrl: conf.Gateway.BaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logger.With(sl.Module("gateway")),
	}
}

// jidFor synthesizes the gateway JID for a bare phone number. Only the
// reply path uses this; the /send proxy forwards caller-supplied JIDs
// untouched.
func jidFor(number string) string {
	return number + "@s.whatsapp.net"
}

// post sends one payload to {base}/send/{kind} and returns the gateway's
// JSON body unmodified. Transport errors and non-2xx statuses are logged
// with the localized message for localeKey and returned as errors; callers
// treat an error as "send failed" and never re-raise.
func (c *Client) post(ctx context.Context, kind string, payload any, localeKey string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/send/%s", c.baseUrl, kind)

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error(locale.Format(localeKey, "Error sending: {error}",
			map[string]string{"error": err.Error()}))
		return nil, fmt.Errorf("send %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("gateway responded with %d", resp.StatusCode)
		c.log.Error(locale.Format(localeKey, "Error sending: {error}",
			map[string]string{"error": err.Error()}))
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", kind, err)
	}
	return raw, nil
}

// SendText delivers a text message to a bare phone number.
func (c *Client) SendText(ctx context.Context, number, message string) (json.RawMessage, error) {
	payload := map[string]string{
		"jid":     jidFor(number),
		"message": message,
	}
	return c.post(ctx, "text", payload, locale.KeyErrorSendingMessage)
}

// SendImage delivers an image by URL with an optional caption.
func (c *Client) SendImage(ctx context.Context, number, url, caption string) (json.RawMessage, error) {
	payload := map[string]string{
		"jid":     jidFor(number),
		"url":     url,
		"caption": caption,
	}
	return c.post(ctx, "image", payload, locale.KeyErrorSendingImage)
}

// SendVideo delivers a video by URL with an optional caption.
func (c *Client) SendVideo(ctx context.Context, number, url, caption string) (json.RawMessage, error) {
	payload := map[string]string{
		"jid":     jidFor(number),
		"url":     url,
		"caption": caption,
	}
	return c.post(ctx, "video", payload, locale.KeyErrorSendingVideo)
}

// SendAudio delivers an audio file by URL, optionally as a voice note.
func (c *Client) SendAudio(ctx context.Context, number, url string, ptt bool) (json.RawMessage, error) {
	payload := map[string]any{
		"jid": jidFor(number),
		"url": url,
		"ptt": ptt,
	}
	return c.post(ctx, "audio", payload, locale.KeyErrorSendingAudio)
}
