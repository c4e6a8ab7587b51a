// Package locale is the centralized catalog of application text strings.
package locale

import "strings"

// Catalog keys. Lookups go through Get so a missing key degrades to the
// caller's fallback string instead of an empty message.
const (
	KeyMaintenanceMessage = "maintenance_message"

	KeyLogReceivedText       = "log_received_text"
	KeyLogResponding         = "log_responding"
	KeyLogReceivedNonText    = "log_received_non_text"
	KeyLogReceivedOtherEvent = "log_received_other_event_type"
	KeyLogErrorProcessing    = "log_error_processing_message"
	KeyLogUnauthorizedNumber = "log_unauthorized_number"
	KeyLogErrorEvent         = "log_error_processing_event"
	KeyLogProxyingRequest    = "log_proxying_request"
	KeyLogValidationError    = "log_validation_error"
	KeyLogProxyError         = "log_proxy_error"

	KeyErrorUnauthorizedUser   = "error_unauthorized_user"
	KeyErrorCompletionFallback = "error_completion_fallback"
	KeyErrorCompletionNoReply  = "error_completion_no_response"
	KeyErrorCompletionFailed   = "error_completion_request_failed"

	KeyAPIServiceRunning = "api_service_running"
	KeyAPIEventProcessed = "api_event_processed"
	KeyAPIEventFailed    = "api_event_failed"

	KeyErrorSendingMessage = "error_sending_message"
	KeyErrorSendingImage   = "error_sending_image"
	KeyErrorSendingVideo   = "error_sending_video"
	KeyErrorSendingAudio   = "error_sending_audio"
)

var catalog = map[string]string{
	// User-facing messages
	KeyMaintenanceMessage: "Estamos em manutenção",

	// Log messages
	KeyLogReceivedText:       "Received text message from {sender_jid}",
	KeyLogResponding:         "Responding to {sender_jid}",
	KeyLogReceivedNonText:    "Received a non-text message type",
	KeyLogReceivedOtherEvent: "Received event type: {event_type}",
	KeyLogErrorProcessing:    "Error processing message: {error}",
	KeyLogUnauthorizedNumber: "Unauthorized number attempted access: {number}",
	KeyLogErrorEvent:         "Error processing event: {error}",
	KeyLogProxyingRequest:    "Proxying request for message type '{message_type}' to {endpoint}",
	KeyLogValidationError:    "Validation error for /send/{message_type}: {errors}",
	KeyLogProxyError:         "Error proxying /send/{message_type} to gateway: {error}",

	KeyErrorUnauthorizedUser:   "Desculpe, você não está autorizado a usar este serviço.",
	KeyErrorCompletionFallback: "Desculpe, não consegui processar sua solicitação no momento.",
	KeyErrorCompletionNoReply:  "O modelo não retornou uma resposta.",
	KeyErrorCompletionFailed:   "Não foi possível conectar ao serviço de linguagem.",

	// API responses
	KeyAPIServiceRunning: "WhatsApp Event Processor Service is running",
	KeyAPIEventProcessed: "Event received and processed",
	KeyAPIEventFailed:    "Failed to process event",

	// API sending errors
	KeyErrorSendingMessage: "Error sending message: {error}",
	KeyErrorSendingImage:   "Error sending image: {error}",
	KeyErrorSendingVideo:   "Error sending video: {error}",
	KeyErrorSendingAudio:   "Error sending audio: {error}",
}

// Get returns the catalog string for key, or fallback when the key is absent.
func Get(key, fallback string) string {
	if msg, ok := catalog[key]; ok {
		return msg
	}
	return fallback
}

// Format substitutes {name} placeholders in the catalog string for key.
// Placeholders without a matching argument are left as-is.
func Format(key, fallback string, args map[string]string) string {
	msg := Get(key, fallback)
	for name, value := range args {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}
	return msg
}
