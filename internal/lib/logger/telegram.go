package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// Alerter delivers out-of-band log alerts, typically to a Telegram admin chat.
type Alerter interface {
	SendMessage(msg string)
}

type telegramHandler struct {
	next    slog.Handler
	alerter Alerter
	level   slog.Level
	attrs   []slog.Attr
}

// SetupTelegramHandler tees records at or above level to the alerter while
// passing everything through to the logger's existing handler.
func SetupTelegramHandler(log *slog.Logger, alerter Alerter, level slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		next:    log.Handler(),
		alerter: alerter,
		level:   level,
	})
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= h.level {
		text := fmt.Sprintf("[%s] %s", record.Level, record.Message)
		for _, attr := range h.attrs {
			text += fmt.Sprintf("\n%s: %s", attr.Key, attr.Value)
		}
		record.Attrs(func(attr slog.Attr) bool {
			text += fmt.Sprintf("\n%s: %s", attr.Key, attr.Value)
			return true
		})
		// Alert delivery must never block or fail the log call itself.
		go h.alerter.SendMessage(text)
	}
	return h.next.Handle(ctx, record)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &telegramHandler{
		next:    h.next.WithAttrs(attrs),
		alerter: h.alerter,
		level:   h.level,
		attrs:   append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{
		next:    h.next.WithGroup(name),
		alerter: h.alerter,
		level:   h.level,
		attrs:   h.attrs,
	}
}
