package send

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ZapRelay/entity"
	"ZapRelay/internal/lib/api/response"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/locale"
	"ZapRelay/internal/service/gateway"
)

type Core interface {
	Forward(ctx context.Context, kind string, body []byte) (*gateway.ForwardResult, error)
}

var validate = validator.New()

// fieldError is one entry of the validation detail list.
type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Proxy validates a /send/{kind} body against the schema for that kind
// and forwards it to the gateway's matching endpoint. The downstream
// status and body are propagated verbatim on success.
func Proxy(log *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("handlers.send")
	return func(w http.ResponseWriter, r *http.Request) {
		kind := chi.URLParam(r, "kind")

		var req any
		switch kind {
		case "text":
			req = &entity.TextSendRequest{}
		case "image", "video":
			req = &entity.MediaSendRequest{}
		case "audio":
			req = &entity.AudioSendRequest{}
		default:
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid message type: %s", kind)))
			return
		}

		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if err := validate.Struct(req); err != nil {
			var details []fieldError
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				for _, fe := range validationErrs {
					details = append(details, fieldError{
						Field:  fe.Field(),
						Reason: fe.Tag(),
					})
				}
			}
			log.With(mod).Error(locale.Format(locale.KeyLogValidationError, "Log message missing",
				map[string]string{"message_type": kind, "errors": fmt.Sprint(details)}))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError("Validation failed", details))
			return
		}

		body, err := json.Marshal(req)
		if err != nil {
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal server error"))
			return
		}

		result, err := handler.Forward(r.Context(), kind, body)
		if err != nil {
			log.With(mod).Error(locale.Format(locale.KeyLogProxyError, "Log message missing",
				map[string]string{"message_type": kind, "error": err.Error()}))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error(
				fmt.Sprintf("Error communicating with WhatsApp service: %s", err)))
			return
		}

		if result.StatusCode < 200 || result.StatusCode >= 300 {
			status, detail := downstreamError(result)
			log.With(
				mod,
				slog.Int("downstream_status", result.StatusCode),
			).Error(locale.Format(locale.KeyLogProxyError, "Log message missing",
				map[string]string{"message_type": kind, "error": detail}))
			render.Status(r, status)
			render.JSON(w, r, response.Error(detail))
			return
		}

		if result.ContentType != "" {
			w.Header().Set("Content-Type", result.ContentType)
		}
		w.WriteHeader(result.StatusCode)
		w.Write(result.Body)
	}
}

// downstreamError maps a non-2xx gateway response to the proxy's own
// status and detail: a 4xx with a parsable {"error": ...} body passes
// through, anything else collapses to 502.
func downstreamError(result *gateway.ForwardResult) (int, string) {
	status := http.StatusBadGateway
	detail := fmt.Sprintf("Error communicating with WhatsApp service: status %d", result.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(result.Body, &body); err == nil && body.Error != "" {
		detail = fmt.Sprintf("WhatsApp service error: %s", body.Error)
		if result.StatusCode >= 400 && result.StatusCode < 500 {
			status = result.StatusCode
		}
	}
	return status, detail
}
