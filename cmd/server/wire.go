package main

import (
	"context"
	"fmt"

	"github.com/ms19/journal-system/internal/api"
	"github.com/ms19/journal-system/internal/api/handler"
	"github.com/ms19/journal-system/internal/core/ports"
	"github.com/ms19/journal-system/internal/core/service"
	"github.com/ms19/journal-system/internal/infrastructure/chat"
	"github.com/ms19/journal-system/internal/infrastructure/db/memory"
	mongostore "github.com/ms19/journal-system/internal/infrastructure/db/mongo"
	redisstore "github.com/ms19/journal-system/internal/infrastructure/db/redis"
	"github.com/ms19/journal-system/internal/infrastructure/mail"
	"github.com/ms19/journal-system/internal/infrastructure/oauth"
	"github.com/ms19/journal-system/internal/infrastructure/queue"
	"github.com/ms19/journal-system/internal/infrastructure/scheduler"
	"github.com/ms19/journal-system/internal/infrastructure/weather"
	"github.com/ms19/journal-system/internal/pkg/config"
	"github.com/ms19/journal-system/pkg/logger"
)

// application holds everything run needs after wiring.
type application struct {
	handlers   api.Handlers
	auth       *service.AuthService
	reminders  *service.ReminderService
	dispatcher *queue.MailDispatcher
	scheduler  *scheduler.Scheduler
}

// storage is the persistence backend selected by STORE_DRIVER.
type storage struct {
	users    ports.UserRepository
	entries  ports.EntryRepository
	tx       ports.Transactor
	denylist ports.TokenDenylist
	states   ports.StateStore
	cache    weather.Cache
	checkers []handler.DependencyChecker
}

func wire(ctx context.Context, cfg *config.Config) (*application, func(), error) {
	store, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var sender ports.MailSender = mail.NewLogSender(logger.Component("mail"))
	if cfg.SMTP.Host != "" {
		sender = mail.NewSMTPSender(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	dispatcher := queue.NewMailDispatcher(cfg.SMTP.Workers, sender, logger.Component("mail"))

	var forecasts ports.WeatherProvider = weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey)
	if store.cache != nil {
		forecasts = weather.NewCachedProvider(forecasts, store.cache, logger.Component("weather"))
	}

	var idp ports.IdentityProvider
	if cfg.OAuth.GitHubEnabled() {
		idp = oauth.NewGitHub(oauth.GitHubConfig{
			ClientID:     cfg.OAuth.GitHubClientID,
			ClientSecret: cfg.OAuth.GitHubClientSecret,
			RedirectURL:  cfg.OAuth.GitHubRedirectURL,
		})
	}

	entrySvc := service.NewEntryService(store.users, store.entries, store.tx, logger.Component("entries"))
	userSvc := service.NewUserService(store.users, store.entries, store.tx, dispatcher, cfg.BcryptCost, logger.Component("users"))
	authSvc := service.NewAuthService(store.users, store.denylist, store.states, idp, cfg.JWTSecret, cfg.JWTTTL, logger.Component("auth"))
	reminderSvc := service.NewReminderService(store.users, dispatcher, logger.Component("reminders"))

	app := &application{
		handlers: api.Handlers{
			Entries: handler.NewEntryHandler(entrySvc),
			Users:   handler.NewUserHandler(userSvc),
			Auth:    handler.NewAuthHandler(authSvc),
			Admin:   handler.NewAdminHandler(userSvc, entrySvc, dispatcher),
			Weather: handler.NewWeatherHandler(forecasts, logger.Component("weather")),
			Chat:    handler.NewChatHandler(chat.NewGeminiClient(cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.APIKey)),
			Health:  handler.NewHealthHandler(store.checkers...),
		},
		auth:       authSvc,
		reminders:  reminderSvc,
		dispatcher: dispatcher,
		scheduler:  scheduler.New(logger.Component("scheduler")),
	}
	return app, cleanup, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		log := logger.Get()
		log.Warn().Msg("using in-memory store, data is lost on restart")
		mem := memory.NewStore()
		return &storage{
			users:    mem.Users(),
			entries:  mem.Entries(),
			tx:       mem,
			denylist: memory.NewDenylist(),
			states:   memory.NewStateStore(),
		}, func() {}, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	users := mongostore.NewUserRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users); err != nil {
		_ = rdb.Close()
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	cleanup := func() {
		log := logger.Get()
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnect mongo")
		}
	}

	return &storage{
		users:    users,
		entries:  mongostore.NewEntryRepository(db),
		tx:       mongostore.NewTransactor(client, cfg.Mongo.Transactions, logger.Component("mongo")),
		denylist: redisstore.NewDenylist(rdb),
		states:   redisstore.NewStateStore(rdb),
		cache:    redisstore.NewWeatherCache(rdb, cfg.Weather.CacheTTL),
		checkers: []handler.DependencyChecker{mongostore.NewPinger(client), redisstore.NewPinger(rdb)},
	}, cleanup, nil
}
