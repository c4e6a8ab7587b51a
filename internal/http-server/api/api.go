package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ZapRelay/internal/config"
	"ZapRelay/internal/http-server/handlers/errors"
	"ZapRelay/internal/http-server/handlers/events"
	"ZapRelay/internal/http-server/handlers/messages"
	"ZapRelay/internal/http-server/handlers/send"
	"ZapRelay/internal/http-server/handlers/status"
	"ZapRelay/internal/http-server/middleware/timeout"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	events.Core
	send.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, archive messages.Core, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	// Generous deadline: a completion round trip can be slow on local models.
	router.Use(timeout.Timeout(120))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/", status.Root(log))
	router.Post("/events", events.ProcessEvent(log, handler))
	router.Post("/send/{kind}", send.Proxy(log, handler))

	if archive != nil {
		router.Get("/messages/{number}", messages.GetMessages(log, archive))
	}

	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, log, w, r)
		})
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
