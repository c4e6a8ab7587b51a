package entity

// Request bodies accepted by the /send/{kind} proxy endpoints. The jid is
// forwarded to the gateway exactly as given; the proxy path never appends
// the @s.whatsapp.net suffix.

type TextSendRequest struct {
	Jid     string `json:"jid" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type MediaSendRequest struct {
	Jid     string `json:"jid" validate:"required"`
	Url     string `json:"url" validate:"required,url"`
	Caption string `json:"caption,omitempty"`
}

type AudioSendRequest struct {
	Jid     string `json:"jid" validate:"required"`
	Url     string `json:"url" validate:"required,url"`
	Caption string `json:"caption,omitempty"`
	Ptt     bool   `json:"ptt"`
}
