package status

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ZapRelay/internal/locale"
)

// Root reports that the service is up.
func Root(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{
			"message": locale.Get(locale.KeyAPIServiceRunning, "Service is running"),
		})
	}
}
