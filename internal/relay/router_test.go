package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"ZapRelay/entity"
	"ZapRelay/internal/locale"
)

type fakeAuth struct {
	allowed map[string]bool
	calls   int
}

func (f *fakeAuth) IsAuthorized(jid string) bool {
	f.calls++
	return f.allowed[jid]
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type sentText struct {
	number  string
	message string
}

type fakeDispatcher struct {
	sent []sentText
	err  error
}

func (f *fakeDispatcher) SendText(_ context.Context, number, message string) (json.RawMessage, error) {
	f.sent = append(f.sent, sentText{number, message})
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func newRouterForTest(auth *fakeAuth, completer *fakeCompleter, dispatcher *fakeDispatcher) *Router {
	return NewRouter(auth, completer, dispatcher,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func textEvent(jid, text string, fromMe bool) *entity.InboundEvent {
	return &entity.InboundEvent{
		Type: "notify",
		Messages: []entity.MessageEnvelope{
			{
				Key:     entity.MessageKey{RemoteJid: jid, FromMe: fromMe},
				Message: entity.MessageContent{Kind: entity.ContentText, Text: text},
			},
		},
	}
}

func TestSelfEventIgnored(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	router := newRouterForTest(&fakeAuth{}, &fakeCompleter{}, dispatcher)

	event := &entity.InboundEvent{Type: "notify", Key: &entity.MessageKey{FromMe: true}}
	if got := router.HandleEvent(context.Background(), event); got != OutcomeIgnored {
		t.Fatalf("expected OutcomeIgnored, got %v", got)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatal("self event must never dispatch")
	}
}

func TestSelfEnvelopeIgnored(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	completer := &fakeCompleter{reply: "hi"}
	auth := &fakeAuth{allowed: map[string]bool{"5511999@s.whatsapp.net": true}}
	router := newRouterForTest(auth, completer, dispatcher)

	event := textEvent("5511999@s.whatsapp.net", "hello", true)
	if got := router.HandleEvent(context.Background(), event); got != OutcomeIgnored {
		t.Fatalf("expected OutcomeIgnored, got %v", got)
	}
	if len(dispatcher.sent) != 0 || completer.calls != 0 {
		t.Fatal("fromMe envelope must not reach completion or dispatch")
	}
}

func TestNonNotifyEventIgnored(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	router := newRouterForTest(&fakeAuth{}, &fakeCompleter{}, dispatcher)

	event := &entity.InboundEvent{Type: "status"}
	if got := router.HandleEvent(context.Background(), event); got != OutcomeIgnored {
		t.Fatalf("expected OutcomeIgnored, got %v", got)
	}
}

func TestEmptyMessagesNoOp(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	router := newRouterForTest(&fakeAuth{}, &fakeCompleter{}, dispatcher)

	event := &entity.InboundEvent{Type: "notify"}
	if got := router.HandleEvent(context.Background(), event); got != OutcomeIgnored {
		t.Fatalf("expected OutcomeIgnored, got %v", got)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatal("empty messages array must be a no-op")
	}
}

func TestUnauthorizedSenderSilent(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	completer := &fakeCompleter{reply: "hi"}
	auth := &fakeAuth{allowed: map[string]bool{}}
	router := newRouterForTest(auth, completer, dispatcher)

	event := textEvent("5511999@s.whatsapp.net", "hello", false)
	if got := router.HandleEvent(context.Background(), event); got != OutcomeIgnored {
		t.Fatalf("expected OutcomeIgnored, got %v", got)
	}
	if completer.calls != 0 {
		t.Fatal("unauthorized sender must not trigger a completion call")
	}
	if len(dispatcher.sent) != 0 {
		t.Fatal("unauthorized sender must receive no reply")
	}
}

func TestAuthorizedTextReplied(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	completer := &fakeCompleter{reply: "hi there"}
	auth := &fakeAuth{allowed: map[string]bool{"5511999@s.whatsapp.net": true}}
	router := newRouterForTest(auth, completer, dispatcher)

	event := textEvent("5511999@s.whatsapp.net", "hello", false)
	if got := router.HandleEvent(context.Background(), event); got != OutcomeReplied {
		t.Fatalf("expected OutcomeReplied, got %v", got)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", len(dispatcher.sent))
	}
	if dispatcher.sent[0].number != "5511999" {
		t.Fatalf("reply must go to the bare number, got %q", dispatcher.sent[0].number)
	}
	if dispatcher.sent[0].message != "hi there" {
		t.Fatalf("reply content mismatch: %q", dispatcher.sent[0].message)
	}
}

func TestExtendedTextReplied(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	completer := &fakeCompleter{reply: "quoted reply"}
	auth := &fakeAuth{allowed: map[string]bool{"5511999@s.whatsapp.net": true}}
	router := newRouterForTest(auth, completer, dispatcher)

	event := &entity.InboundEvent{
		Type: "notify",
		Messages: []entity.MessageEnvelope{
			{
				Key:     entity.MessageKey{RemoteJid: "5511999@s.whatsapp.net"},
				Message: entity.MessageContent{Kind: entity.ContentExtendedText, Text: "quoted"},
			},
		},
	}
	if got := router.HandleEvent(context.Background(), event); got != OutcomeReplied {
		t.Fatalf("expected OutcomeReplied, got %v", got)
	}
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].message != "quoted reply" {
		t.Fatalf("unexpected dispatches: %v", dispatcher.sent)
	}
}

func TestEmptyCompletionSendsFallback(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	completer := &fakeCompleter{reply: ""}
	auth := &fakeAuth{allowed: map[string]bool{"5511999@s.whatsapp.net": true}}
	router := newRouterForTest(auth, completer, dispatcher)

	event := textEvent("5511999@s.whatsapp.net", "hello", false)
	if got := router.HandleEvent(context.Background(), event); got != OutcomeReplied {
		t.Fatalf("expected OutcomeReplied, got %v", got)
	}
	fallback := locale.Get(locale.KeyErrorCompletionFallback, "")
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].message != fallback {
		t.Fatalf("expected one fallback dispatch, got %v", dispatcher.sent)
	}
}

func TestCompletionErrorSendsFailureReply(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	completer := &fakeCompleter{err: errors.New("connection refused")}
	auth := &fakeAuth{allowed: map[string]bool{"5511999@s.whatsapp.net": true}}
	router := newRouterForTest(auth, completer, dispatcher)

	event := textEvent("5511999@s.whatsapp.net", "hello", false)
	if got := router.HandleEvent(context.Background(), event); got != OutcomeReplied {
		t.Fatalf("expected OutcomeReplied, got %v", got)
	}
	// A transport failure gets its own localized reply, distinct from the
	// generic empty-completion fallback.
	failed := locale.Get(locale.KeyErrorCompletionFailed, "")
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].message != failed {
		t.Fatalf("expected one failure-reply dispatch, got %v", dispatcher.sent)
	}
	if dispatcher.sent[0].message == locale.Get(locale.KeyErrorCompletionFallback, "") {
		t.Fatal("failure reply must differ from the empty-completion fallback")
	}
}

func TestNonTextEnvelopeSkippedSiblingProcessed(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	completer := &fakeCompleter{reply: "hi"}
	auth := &fakeAuth{allowed: map[string]bool{"5511999@s.whatsapp.net": true}}
	router := newRouterForTest(auth, completer, dispatcher)

	event := &entity.InboundEvent{
		Type: "notify",
		Messages: []entity.MessageEnvelope{
			{
				Key:     entity.MessageKey{RemoteJid: "5511999@s.whatsapp.net"},
				Message: entity.MessageContent{Kind: entity.ContentOther},
			},
			{
				Key:     entity.MessageKey{RemoteJid: "5511999@s.whatsapp.net"},
				Message: entity.MessageContent{Kind: entity.ContentText, Text: "hello"},
			},
		},
	}
	if got := router.HandleEvent(context.Background(), event); got != OutcomeReplied {
		t.Fatalf("expected OutcomeReplied, got %v", got)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected one dispatch for the text sibling, got %d", len(dispatcher.sent))
	}
}

func TestDispatchErrorStillReplied(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("gateway down")}
	completer := &fakeCompleter{reply: "hi"}
	auth := &fakeAuth{allowed: map[string]bool{"5511999@s.whatsapp.net": true}}
	router := newRouterForTest(auth, completer, dispatcher)

	event := textEvent("5511999@s.whatsapp.net", "hello", false)
	if got := router.HandleEvent(context.Background(), event); got != OutcomeReplied {
		t.Fatalf("dispatch failure must not change the outcome, got %v", got)
	}
}

type recordingListener struct {
	records []entity.RelayMessage
}

func (l *recordingListener) Record(msg entity.RelayMessage) {
	l.records = append(l.records, msg)
}

func TestListenerSeesBothDirections(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	completer := &fakeCompleter{reply: "hi there"}
	auth := &fakeAuth{allowed: map[string]bool{"5511999@s.whatsapp.net": true}}
	router := newRouterForTest(auth, completer, dispatcher)

	listener := &recordingListener{}
	router.SetListener(listener)

	router.HandleEvent(context.Background(), textEvent("5511999@s.whatsapp.net", "hello", false))

	if len(listener.records) != 2 {
		t.Fatalf("expected incoming+outgoing records, got %d", len(listener.records))
	}
	if listener.records[0].Direction != "incoming" || listener.records[0].Text != "hello" {
		t.Fatalf("unexpected incoming record: %+v", listener.records[0])
	}
	if listener.records[1].Direction != "outgoing" || listener.records[1].Text != "hi there" {
		t.Fatalf("unexpected outgoing record: %+v", listener.records[1])
	}
	if listener.records[0].EventID == "" || listener.records[0].EventID != listener.records[1].EventID {
		t.Fatal("records of one event must share a correlation id")
	}
}
