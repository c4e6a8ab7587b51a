package messages

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ZapRelay/entity"
)

type Core interface {
	GetRelayMessages(number string, limit, offset int) ([]entity.RelayMessage, error)
}

// GetMessages returns the archived relay legs for a number, newest first.
func GetMessages(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "number")
		limit := queryInt(r, "limit", 50)
		offset := queryInt(r, "offset", 0)

		msgs, err := handler.GetRelayMessages(number, limit, offset)
		if err != nil {
			log.Error("Failed to get relay messages", slog.Any("error", err))
			http.Error(w, "Failed to get messages", http.StatusInternalServerError)
			return
		}

		if msgs == nil {
			msgs = []entity.RelayMessage{}
		}

		w.Header().Set("Content-Type", "application/json")
		render.JSON(w, r, msgs)
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
