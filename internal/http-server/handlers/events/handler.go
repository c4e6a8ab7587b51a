package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ZapRelay/entity"
	"ZapRelay/internal/lib/api/response"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/locale"
	"ZapRelay/internal/relay"
)

type Core interface {
	HandleEvent(ctx context.Context, event *entity.InboundEvent) relay.Outcome
}

// ProcessEvent receives gateway webhook events. Webhook delivery is
// fire-and-forget: the response is always HTTP 200 with the outcome
// reported in-band.
func ProcessEvent(log *slog.Logger, router Core) http.HandlerFunc {
	mod := sl.Module("handlers.events")
	return func(w http.ResponseWriter, r *http.Request) {
		var event entity.InboundEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			log.With(mod).Error(locale.Format(locale.KeyLogErrorEvent, "Log message missing",
				map[string]string{"error": err.Error()}))
			render.JSON(w, r, response.Error(
				locale.Get(locale.KeyAPIEventFailed, "API message missing")))
			return
		}

		// Short-circuit before the router touches the event.
		if event.Key != nil && event.Key.FromMe {
			log.With(mod).Info("ignoring event from self")
			render.JSON(w, r, response.Ignored("Event ignored"))
			return
		}

		switch router.HandleEvent(r.Context(), &event) {
		case relay.OutcomeErrored:
			render.JSON(w, r, response.Error(
				locale.Get(locale.KeyAPIEventFailed, "API message missing")))
		default:
			render.JSON(w, r, response.Ok(
				locale.Get(locale.KeyAPIEventProcessed, "API message missing")))
		}
	}
}
