// Package relay drives the webhook pipeline: guard, classify, authorize,
// complete, dispatch.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ZapRelay/entity"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/locale"
)

// Outcome is the terminal state of one routed event.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeReplied
	OutcomeErrored
)

// Authorizer decides whether a sender JID may use the relay.
type Authorizer interface {
	IsAuthorized(senderJid string) bool
}

// Completer produces a model completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Dispatcher delivers a text reply to a bare phone number.
type Dispatcher interface {
	SendText(ctx context.Context, number, message string) (json.RawMessage, error)
}

// Listener observes relayed messages for archival and live feeds. It must
// never influence the relay outcome.
type Listener interface {
	Record(msg entity.RelayMessage)
}

type Router struct {
	auth       Authorizer
	completer  Completer
	dispatcher Dispatcher
	listener   Listener
	log        *slog.Logger
}

func NewRouter(auth Authorizer, completer Completer, dispatcher Dispatcher, logger *slog.Logger) *Router {
	return &Router{
		auth:       auth,
		completer:  completer,
		dispatcher: dispatcher,
		log:        logger.With(sl.Module("relay.router")),
	}
}

func (r *Router) SetListener(listener Listener) {
	r.listener = listener
}

// HandleEvent routes one inbound event to its terminal outcome. Processing
// errors never escape: anything unexpected is logged and folded into
// OutcomeErrored so the HTTP boundary stays clean.
func (r *Router) HandleEvent(ctx context.Context, event *entity.InboundEvent) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error(locale.Format(locale.KeyLogErrorProcessing, "Log message missing",
				map[string]string{"error": "panic"}), slog.Any("panic", rec))
			outcome = OutcomeErrored
		}
	}()

	if event.Key != nil && event.Key.FromMe {
		r.log.Info("ignoring event from self")
		return OutcomeIgnored
	}

	if event.Type != "notify" || len(event.Messages) == 0 {
		r.log.Info(locale.Format(locale.KeyLogReceivedOtherEvent, "Log message missing",
			map[string]string{"event_type": event.Type}))
		return OutcomeIgnored
	}

	eventID := uuid.NewString()
	outcome = OutcomeIgnored
	// Envelopes are independent: a skipped or failed one never affects
	// its siblings.
	for i := range event.Messages {
		if r.processEnvelope(ctx, eventID, &event.Messages[i]) == OutcomeReplied {
			outcome = OutcomeReplied
		}
	}
	return outcome
}

func (r *Router) processEnvelope(ctx context.Context, eventID string, env *entity.MessageEnvelope) Outcome {
	if env.Key.FromMe {
		return OutcomeIgnored
	}

	if env.Message.Kind == entity.ContentOther {
		r.log.Info(locale.Get(locale.KeyLogReceivedNonText, "Log message missing"))
		return OutcomeIgnored
	}

	senderJid := env.Key.RemoteJid
	if !r.auth.IsAuthorized(senderJid) {
		// Silent by policy: unknown numbers get no reply.
		return OutcomeIgnored
	}

	text := env.Message.Text
	r.log.Info(locale.Format(locale.KeyLogReceivedText, "Log message missing",
		map[string]string{"sender_jid": senderJid}))

	number, _, _ := strings.Cut(senderJid, "@")
	r.record(eventID, "incoming", number, text)

	reply, err := r.completer.Complete(ctx, text)
	if err != nil {
		r.log.With(sl.Err(err)).Error("completion stage failed")
		reply = locale.Get(locale.KeyErrorCompletionFailed,
			"Failed to connect to the language service.")
	} else if reply == "" {
		r.log.Warn("completion empty", slog.String("prompt", text))
		reply = locale.Get(locale.KeyErrorCompletionFallback,
			"Sorry, I couldn't process your request right now.")
	}

	if _, err := r.dispatcher.SendText(ctx, number, reply); err != nil {
		// Already logged by the dispatch client; the sender still counts
		// as answered so the event is not retried upstream.
		return OutcomeReplied
	}

	r.log.Info(locale.Format(locale.KeyLogResponding, "Log message missing",
		map[string]string{"sender_jid": senderJid}))
	r.record(eventID, "outgoing", number, reply)
	return OutcomeReplied
}

func (r *Router) record(eventID, direction, number, text string) {
	if r.listener == nil {
		return
	}
	r.listener.Record(entity.RelayMessage{
		EventID:   eventID,
		Direction: direction,
		Number:    number,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
}
