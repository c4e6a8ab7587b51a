package main

import (
	"flag"
	"log/slog"

	"ZapRelay/bot"
	"ZapRelay/entity"
	"ZapRelay/internal/config"
	repository "ZapRelay/internal/database"
	"ZapRelay/internal/http-server/api"
	"ZapRelay/internal/http-server/handlers/messages"
	"ZapRelay/internal/lib/logger"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/relay"
	"ZapRelay/internal/service/allowlist"
	"ZapRelay/internal/service/completion"
	"ZapRelay/internal/service/gateway"
	"ZapRelay/internal/ws"
)

// handler satisfies the api surface: events go to the router, /send
// bodies go straight to the gateway client.
type handler struct {
	*relay.Router
	*gateway.Client
}

// activity fans relayed messages out to the archive and the live feed.
// Both are observe-only: failures are logged and never reach the relay.
type activity struct {
	db  *repository.MongoDB
	hub *ws.Hub
	log *slog.Logger
}

func (a *activity) Record(msg entity.RelayMessage) {
	if a.db != nil {
		if err := a.db.SaveRelayMessage(msg); err != nil {
			a.log.With(sl.Err(err)).Error("archive relay message")
		}
	}
	if a.hub != nil {
		a.hub.BroadcastRelay(msg)
	}
}

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelWarn)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
				sl.Secret("api_key", conf.Telegram.ApiKey),
			).Info("telegram alert bot initialized")
		}
	}

	lg.Info("starting zaprelay", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	// A typed nil must not reach the interface, or the archive routes
	// would be registered with no store behind them.
	var archive messages.Core
	if db != nil {
		archive = db
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	hub := ws.NewHub(lg.With(sl.Module("ws.hub")))
	go hub.Run()

	allowed := allowlist.NewService(conf, lg)
	lg.With(
		slog.Int("numbers", len(conf.Authorized)),
	).Info("allow-list loaded")

	completer := completion.New(conf, lg)
	lg.With(
		slog.String("provider", conf.Completion.Provider),
		slog.String("model", conf.Completion.Model),
		sl.Secret("api_key", conf.Completion.ApiKey),
	).Info("completion client initialized")

	gw := gateway.NewClient(conf, lg)
	lg.With(
		slog.String("base_url", conf.Gateway.BaseURL),
	).Info("gateway client initialized")

	router := relay.NewRouter(allowed, completer, gw, lg)
	router.SetListener(&activity{db: db, hub: hub, log: lg.With(sl.Module("activity"))})

	// *** blocking start with http server ***
	err = api.New(conf, lg, &handler{Router: router, Client: gw}, archive, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
