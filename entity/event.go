package entity

import "encoding/json"

// InboundEvent is the webhook payload emitted by the WhatsApp gateway.
// Events carrying message deliveries have Type "notify"; anything else
// (status updates, heartbeats) is ignored by the relay.
type InboundEvent struct {
	Type     string            `json:"type"`
	Key      *MessageKey       `json:"key,omitempty"`
	Messages []MessageEnvelope `json:"messages"`
}

// MessageKey identifies the sender of a message. RemoteJid has the form
// <number>@<domain>; FromMe marks the gateway's own echoed sends.
type MessageKey struct {
	RemoteJid string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
}

// MessageEnvelope is one delivered message inside an event.
type MessageEnvelope struct {
	Key     MessageKey     `json:"key"`
	Message MessageContent `json:"message"`
}

// ContentKind discriminates the message payload variants the relay
// understands. Everything else maps to ContentOther.
type ContentKind int

const (
	ContentOther ContentKind = iota
	ContentText
	ContentExtendedText
)

// MessageContent is the closed union over the gateway's message shapes.
// Kind is ContentText when the payload carries a plain "conversation"
// string, ContentExtendedText for quoted/linked text, ContentOther for
// any unrecognized shape. Conversation takes priority when both are set.
type MessageContent struct {
	Kind ContentKind
	Text string
}

type rawContent struct {
	Conversation *string `json:"conversation"`
	ExtendedText *struct {
		Text string `json:"text"`
	} `json:"extendedTextMessage"`
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var raw rawContent
	if err := json.Unmarshal(data, &raw); err != nil {
		// Unknown shapes are a policy outcome, not a decode failure.
		*c = MessageContent{Kind: ContentOther}
		return nil
	}
	switch {
	case raw.Conversation != nil:
		*c = MessageContent{Kind: ContentText, Text: *raw.Conversation}
	case raw.ExtendedText != nil:
		*c = MessageContent{Kind: ContentExtendedText, Text: raw.ExtendedText.Text}
	default:
		*c = MessageContent{Kind: ContentOther}
	}
	return nil
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContentText:
		return json.Marshal(map[string]string{"conversation": c.Text})
	case ContentExtendedText:
		return json.Marshal(map[string]map[string]string{
			"extendedTextMessage": {"text": c.Text},
		})
	default:
		return []byte("{}"), nil
	}
}
